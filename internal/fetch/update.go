package fetch

import (
	"context"
	"fmt"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
)

// ScheduleUpdate is the message the external pipeline publishes when a
// fetch completes. Schedules and Tomorrow are keyed by full group
// identifier; groups absent from the maps keep their stored values.
type ScheduleUpdate struct {
	// Date is the fetch date in store format (YYYY-M-D, no padding).
	Date string `json:"date"`
	// DisplayTime is the human-readable update stamp, e.g. "14:05".
	DisplayTime string `json:"display_time"`

	Schedules map[string]string `json:"schedules"`
	Tomorrow  map[string]string `json:"tomorrow,omitempty"`
}

// ApplyUpdate writes a completed fetch into the store and clears every
// group's loading flag. This is the completion half of the refresh
// contract: RequestRefresh sets the flag, the pipeline's update clears
// it. Schedule writes happen before the timestamp keys so a reader
// never sees a new date with old schedules.
func ApplyUpdate(ctx context.Context, s store.Store, upd ScheduleUpdate) error {
	for id, encoded := range upd.Schedules {
		g, ok := schedule.ParseGroup(id)
		if !ok {
			return fmt.Errorf("unknown group %q in schedule update", id)
		}
		if err := s.SetSchedule(ctx, g, encoded); err != nil {
			return err
		}
	}

	for id, encoded := range upd.Tomorrow {
		g, ok := schedule.ParseGroup(id)
		if !ok {
			return fmt.Errorf("unknown group %q in schedule update", id)
		}
		if err := s.SetTomorrowSchedule(ctx, g, encoded); err != nil {
			return err
		}
	}

	if upd.Date != "" {
		if err := s.SetLastUpdate(ctx, upd.Date, upd.DisplayTime); err != nil {
			return err
		}
	}

	for _, g := range schedule.AllGroups() {
		if err := s.SetLoading(ctx, g, false); err != nil {
			return err
		}
	}

	return nil
}
