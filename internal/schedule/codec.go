package schedule

// HalfState is the visual state of one half-hour within an hourly cell.
type HalfState int

const (
	// HalfOn means power is expected to be on.
	HalfOn HalfState = iota
	// HalfOff means a planned outage.
	HalfOff
	// HalfMaybe means the hour is marked as possible outage (neutral).
	HalfMaybe
	// HalfUnknown is the placeholder for blackout markers ('9') and any
	// unrecognized code; rendered as neutral gray.
	HalfUnknown
)

// String returns the lowercase name used in logs and JSON output.
func (h HalfState) String() string {
	switch h {
	case HalfOn:
		return "on"
	case HalfOff:
		return "off"
	case HalfMaybe:
		return "maybe"
	default:
		return "unknown"
	}
}

// HourState holds the half-hour split of a single hourly cell: Left is
// the first half-hour, Right the second.
type HourState struct {
	Left  HalfState `json:"left"`
	Right HalfState `json:"right"`
}

// HoursPerDay is the length of a complete encoded schedule.
const HoursPerDay = 24

// Decode maps one schedule code character to its hour state. The
// mapping is a fixed table with no failure mode: unrecognized codes
// degrade to HalfUnknown so that future codes render as neutral cells
// instead of breaking the grid.
func Decode(code byte) HourState {
	switch code {
	case '0':
		return HourState{Left: HalfOn, Right: HalfOn}
	case '1':
		return HourState{Left: HalfOff, Right: HalfOff}
	case '2':
		return HourState{Left: HalfOff, Right: HalfOn}
	case '3':
		return HourState{Left: HalfOn, Right: HalfOff}
	case '4':
		return HourState{Left: HalfMaybe, Right: HalfMaybe}
	default:
		// '9' and anything else: blackout placeholder.
		return HourState{Left: HalfUnknown, Right: HalfUnknown}
	}
}

// DecodeSchedule decodes a full day. Strings shorter than HoursPerDay
// (including empty) mean "no data" and yield nil; the caller must never
// partially render a short schedule. Excess characters are ignored.
func DecodeSchedule(s string) []HourState {
	if len(s) < HoursPerDay {
		return nil
	}
	hours := make([]HourState, HoursPerDay)
	for i := 0; i < HoursPerDay; i++ {
		hours[i] = Decode(s[i])
	}
	return hours
}
