// Package widget assembles renderable snapshots from persisted
// schedule state. Building a snapshot has no side effects; surfaces
// receive a fully constructed value and apply it in one step, so a
// failed pass never commits a half-updated view.
package widget

import (
	"context"
	"fmt"
	"time"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
)

// NoUpdateDisplay is shown before the first successful data refresh.
const NoUpdateDisplay = "--:--"

// NoDataLabel is the user-facing text surfaces show instead of an
// empty grid.
const NoDataLabel = "Немає даних"

// Grid layout hint for surfaces: 24 hourly cells as 4 rows of 6.
const (
	GridRows = 4
	GridCols = 6
)

// Snapshot is the resolved view of one group at render time. It is
// constructed fresh on every pass, never mutated, and handed to the
// surface as a whole.
type Snapshot struct {
	Group       schedule.Group        `json:"group"`
	GroupLabel  string                `json:"group_label"`
	DisplayName string                `json:"display_name"`
	LastUpdate  string                `json:"last_update"`
	Loading     bool                  `json:"loading"`
	NoData      bool                  `json:"no_data"`
	DayKey      schedule.DayKey       `json:"-"`
	Hours       []schedule.HourState  `json:"hours,omitempty"`
	BuiltAt     time.Time             `json:"built_at"`
}

// BuildSnapshot reads the group's persisted state and resolves it into
// a Snapshot for the given wall-clock instant.
//
// Store reads are atomic per key but not across keys; the snapshot may
// mix values from slightly different instants, which the once-a-day
// consistency model accepts.
func BuildSnapshot(ctx context.Context, s store.Store, g schedule.Group, now time.Time) (Snapshot, error) {
	loading, err := s.Loading(ctx, g)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read loading flag for %s: %w", g, err)
	}

	lastUpdateDate, err := s.LastUpdateDate(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read last update date: %w", err)
	}

	tomorrow, err := s.TomorrowSchedule(ctx, g)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read tomorrow schedule for %s: %w", g, err)
	}

	today := schedule.DateKey(now)
	key := schedule.ResolveDayKey(lastUpdateDate, today, tomorrow != "")

	var encoded string
	if key == schedule.DayTomorrow {
		encoded = tomorrow
	} else {
		encoded, err = s.Schedule(ctx, g)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read schedule for %s: %w", g, err)
		}
	}

	display, err := s.LastUpdateTime(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read last update time: %w", err)
	}
	if display == "" {
		display = NoUpdateDisplay
	}

	hours := schedule.DecodeSchedule(encoded)

	return Snapshot{
		Group:       g,
		GroupLabel:  g.Label(),
		DisplayName: g.DisplayName(),
		LastUpdate:  display,
		Loading:     loading,
		NoData:      hours == nil,
		DayKey:      key,
		Hours:       hours,
		BuiltAt:     now,
	}, nil
}
