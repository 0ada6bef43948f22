package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
)

func TestApplyUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("writes schedules, timestamps, and clears loading", func(t *testing.T) {
		s := store.NewMockStore()
		require.NoError(t, s.SetLoading(ctx, schedule.Group11, true))
		require.NoError(t, s.SetLoading(ctx, schedule.Group62, true))

		err := ApplyUpdate(ctx, s, ScheduleUpdate{
			Date:        "2024-3-2",
			DisplayTime: "14:05",
			Schedules: map[string]string{
				"GPV1.1": "000111222333444000111222",
			},
			Tomorrow: map[string]string{
				"GPV1.1": "999999999999999999999999",
			},
		})
		require.NoError(t, err)

		v, err := s.Schedule(ctx, schedule.Group11)
		require.NoError(t, err)
		assert.Equal(t, "000111222333444000111222", v)

		v, err = s.TomorrowSchedule(ctx, schedule.Group11)
		require.NoError(t, err)
		assert.Equal(t, "999999999999999999999999", v)

		date, err := s.LastUpdateDate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2024-3-2", date)

		// Every group's loading flag is cleared, not just updated ones.
		for _, g := range schedule.AllGroups() {
			loading, err := s.Loading(ctx, g)
			require.NoError(t, err)
			assert.False(t, loading, "group %s", g)
		}
	})

	t.Run("unknown group rejects the update", func(t *testing.T) {
		s := store.NewMockStore()
		err := ApplyUpdate(ctx, s, ScheduleUpdate{
			Schedules: map[string]string{"GPV9.9": "0"},
		})
		require.Error(t, err)
	})

	t.Run("empty update still clears loading", func(t *testing.T) {
		s := store.NewMockStore()
		require.NoError(t, s.SetLoading(ctx, schedule.Group21, true))

		require.NoError(t, ApplyUpdate(ctx, s, ScheduleUpdate{}))

		loading, err := s.Loading(ctx, schedule.Group21)
		require.NoError(t, err)
		assert.False(t, loading)

		// No update date means the stored one is untouched.
		date, err := s.LastUpdateDate(ctx)
		require.NoError(t, err)
		assert.Empty(t, date)
	})
}
