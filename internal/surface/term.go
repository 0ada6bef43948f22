package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/widget"
)

// TermSurface renders snapshots as a text grid, 4 rows by 6 hourly
// cells, each cell split into its two half-hour states. Used by the
// `render` CLI command for previews and debugging.
type TermSurface struct {
	Out io.Writer
}

// Half-state glyphs: green block for on, red for off, light shade for
// maybe, dark shade for unknown/blackout placeholder.
func glyph(h schedule.HalfState) string {
	switch h {
	case schedule.HalfOn:
		return "█"
	case schedule.HalfOff:
		return "▄"
	case schedule.HalfMaybe:
		return "░"
	default:
		return "▒"
	}
}

// Apply writes a text rendering of the snapshot.
func (t *TermSurface) Apply(instanceID string, snap widget.Snapshot) error {
	var b strings.Builder

	header := snap.DisplayName
	if snap.Loading {
		header += " …"
	}
	fmt.Fprintf(&b, "%s  (%s)\n", header, snap.LastUpdate)

	if snap.NoData {
		fmt.Fprintf(&b, "  %s\n", widget.NoDataLabel)
		_, err := io.WriteString(t.Out, b.String())
		return err
	}

	for row := 0; row < widget.GridRows; row++ {
		labels := make([]string, 0, widget.GridCols)
		cells := make([]string, 0, widget.GridCols)
		for col := 0; col < widget.GridCols; col++ {
			hour := row*widget.GridCols + col
			hs := snap.Hours[hour]
			labels = append(labels, fmt.Sprintf("%2d ", hour))
			cells = append(cells, glyph(hs.Left)+glyph(hs.Right)+" ")
		}
		fmt.Fprintf(&b, "  %s\n  %s\n", strings.Join(labels, " "), strings.Join(cells, " "))
	}

	_, err := io.WriteString(t.Out, b.String())
	return err
}
