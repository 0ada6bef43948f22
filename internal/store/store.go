// Package store persists widget schedule state in a string key-value
// space shared with the external fetch pipeline.
//
// Key layout (the group suffix is the full identifier, the loading
// suffix is the decimal group index 1..12):
//
//	schedule_<GroupID>          today's 24-char encoded schedule
//	schedule_tomorrow_<GroupID> tomorrow's encoded schedule
//	last_update_date            global date string, YYYY-M-D
//	last_update_time            global display string
//	is_loading_<index>          per-group-index boolean
//
// Reads and writes are atomic per key but not transactional across
// keys; a render pass may observe keys at slightly different points in
// time, which is acceptable for this UI.
package store

import (
	"context"
	"fmt"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
)

// Store is the narrow interface the render and refresh paths use. The
// loading flag is keyed by group index, never by widget instance:
// every on-screen instance of a group shares one flag.
type Store interface {
	Schedule(ctx context.Context, g schedule.Group) (string, error)
	SetSchedule(ctx context.Context, g schedule.Group, encoded string) error

	TomorrowSchedule(ctx context.Context, g schedule.Group) (string, error)
	SetTomorrowSchedule(ctx context.Context, g schedule.Group, encoded string) error

	LastUpdateDate(ctx context.Context) (string, error)
	LastUpdateTime(ctx context.Context) (string, error)
	SetLastUpdate(ctx context.Context, date, display string) error

	Loading(ctx context.Context, g schedule.Group) (bool, error)
	SetLoading(ctx context.Context, g schedule.Group, v bool) error

	Close() error
}

const (
	keyLastUpdateDate = "last_update_date"
	keyLastUpdateTime = "last_update_time"
)

func scheduleKey(g schedule.Group) string {
	return "schedule_" + string(g)
}

func tomorrowKey(g schedule.Group) string {
	return "schedule_tomorrow_" + string(g)
}

func loadingKey(g schedule.Group) string {
	return fmt.Sprintf("is_loading_%d", g.Index())
}

func boolValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseBool(s string) bool {
	return s == "1" || s == "true"
}
