package schedule

import (
	"fmt"
	"time"
)

// DayKey selects which of the two persisted schedule slots a render
// pass should read.
type DayKey int

const (
	// DayToday reads the schedule stored for the day of the last update.
	DayToday DayKey = iota
	// DayTomorrow reads the pre-fetched next-day schedule.
	DayTomorrow
)

func (k DayKey) String() string {
	if k == DayTomorrow {
		return "tomorrow"
	}
	return "today"
}

// DateKey formats t as the wire date string used by the store:
// YYYY-M-D without zero padding (e.g. "2024-3-2").
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// ResolveDayKey decides which stored slot to display.
//
// If lastUpdateDate is empty (never updated) or equals today, the
// today slot is current and wins. Otherwise the calendar has rolled
// over since the last refresh: prefer the pre-fetched tomorrow slot,
// but only when it actually holds data; stale data beats a blank
// grid. A lastUpdateDate in the future (clock skew) takes the same
// "different date" branch and needs no special handling.
func ResolveDayKey(lastUpdateDate, today string, tomorrowHasData bool) DayKey {
	if lastUpdateDate == "" || lastUpdateDate == today {
		return DayToday
	}
	if tomorrowHasData {
		return DayTomorrow
	}
	return DayToday
}
