package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWaker struct {
	err   error
	calls []time.Time
	fire  func()
}

func (w *fakeWaker) Schedule(at time.Time, fire func()) error {
	if w.err != nil {
		return w.err
	}
	w.calls = append(w.calls, at)
	w.fire = fire
	return nil
}

func TestNextWakeTime(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "afternoon targets next midnight",
			now:  time.Date(2024, 3, 2, 15, 0, 0, 0, kyiv),
			want: time.Date(2024, 3, 3, 0, 1, 0, 0, kyiv),
		},
		{
			name: "just after midnight still jumps a full day",
			now:  time.Date(2024, 3, 2, 0, 0, 30, 0, kyiv),
			want: time.Date(2024, 3, 3, 0, 1, 0, 0, kyiv),
		},
		{
			name: "firing at the target re-arms for the day after",
			now:  time.Date(2024, 3, 3, 0, 1, 0, 0, kyiv),
			want: time.Date(2024, 3, 4, 0, 1, 0, 0, kyiv),
		},
		{
			name: "month rollover",
			now:  time.Date(2024, 2, 29, 23, 59, 0, 0, kyiv),
			want: time.Date(2024, 3, 1, 0, 1, 0, 0, kyiv),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWakeTime(tt.now, kyiv)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestMidnightScheduler(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	base := time.Date(2024, 3, 2, 15, 0, 0, 0, kyiv)

	t.Run("arm transitions to armed", func(t *testing.T) {
		w := &fakeWaker{}
		m := NewMidnightScheduler(w, kyiv, nil, nil)

		require.NoError(t, m.Arm(base))

		armed, until := m.Armed()
		assert.True(t, armed)
		assert.True(t, time.Date(2024, 3, 3, 0, 1, 0, 0, kyiv).Equal(until))
		require.Len(t, w.calls, 1)
	})

	t.Run("fire renders then immediately re-arms", func(t *testing.T) {
		w := &fakeWaker{}
		fired := 0
		m := NewMidnightScheduler(w, kyiv, func() { fired++ }, nil)
		m.now = func() time.Time { return time.Date(2024, 3, 3, 0, 1, 0, 0, kyiv) }

		require.NoError(t, m.Arm(base))
		w.fire()

		assert.Equal(t, 1, fired)
		armed, until := m.Armed()
		assert.True(t, armed, "cycle continues after fire")
		assert.True(t, time.Date(2024, 3, 4, 0, 1, 0, 0, kyiv).Equal(until))
		assert.Len(t, w.calls, 2)
	})

	t.Run("repeated arm supersedes the pending wake", func(t *testing.T) {
		w := &fakeWaker{}
		m := NewMidnightScheduler(w, kyiv, nil, nil)

		require.NoError(t, m.Arm(base))
		require.NoError(t, m.Arm(base.Add(2*time.Hour)))

		armed, until := m.Armed()
		assert.True(t, armed)
		assert.True(t, time.Date(2024, 3, 3, 0, 1, 0, 0, kyiv).Equal(until))
		assert.Len(t, w.calls, 2, "waker sees both registrations and keeps the last")
	})

	t.Run("waker failure leaves scheduler idle", func(t *testing.T) {
		w := &fakeWaker{err: errors.New("timer backend down")}
		m := NewMidnightScheduler(w, kyiv, nil, nil)

		require.Error(t, m.Arm(base))

		armed, _ := m.Armed()
		assert.False(t, armed)
	})
}

func TestGocronWaker(t *testing.T) {
	w, err := NewGocronWaker()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop(t.Context()) })

	t.Run("future wake registers", func(t *testing.T) {
		require.NoError(t, w.Schedule(time.Now().Add(time.Hour), func() {}))
	})

	t.Run("past wake falls back to inexact timer", func(t *testing.T) {
		require.NoError(t, w.Schedule(time.Now().Add(-time.Minute), func() {}))
	})

	t.Run("rescheduling replaces the pending wake", func(t *testing.T) {
		require.NoError(t, w.Schedule(time.Now().Add(time.Hour), func() {}))
		require.NoError(t, w.Schedule(time.Now().Add(2*time.Hour), func() {}))
	})
}
