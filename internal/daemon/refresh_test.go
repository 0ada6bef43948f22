package daemon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svitlogrid/svitlogrid/internal/fetch"
	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
	"github.com/svitlogrid/svitlogrid/internal/surface"
)

type failingLoadingStore struct {
	store.Store
	err error
}

func (f *failingLoadingStore) SetLoading(context.Context, schedule.Group, bool) error {
	return f.err
}

func newTestRefresh(t *testing.T, sig fetch.Signaler) (*RefreshController, *store.MockStore, *surface.MemorySurface, *InstanceRegistry) {
	t.Helper()
	st := store.NewMockStore()
	sf := surface.NewMemorySurface()
	reg := NewInstanceRegistry()
	renderer := NewRenderer(st, sf, nil)
	return NewRefreshController(st, renderer, reg, sig, nil), st, sf, reg
}

func TestRequestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("sets loading, renders spinner, signals pipeline", func(t *testing.T) {
		signals := 0
		ctrl, st, sf, reg := newTestRefresh(t, fetch.SignalFunc(func(context.Context) error {
			signals++
			return nil
		}))
		inst := reg.Add(schedule.Group11)

		require.NoError(t, ctrl.RequestRefresh(ctx, inst.Group, inst.ID))

		loading, err := st.Loading(ctx, schedule.Group11)
		require.NoError(t, err)
		assert.True(t, loading)
		assert.Equal(t, 1, signals)

		snap, ok := sf.Current(inst.ID)
		require.True(t, ok)
		assert.True(t, snap.Loading)
	})

	t.Run("re-entrant calls are idempotent", func(t *testing.T) {
		signals := 0
		ctrl, st, _, reg := newTestRefresh(t, fetch.SignalFunc(func(context.Context) error {
			signals++
			return nil
		}))
		inst := reg.Add(schedule.Group11)

		require.NoError(t, ctrl.RequestRefresh(ctx, inst.Group, inst.ID))
		require.NoError(t, ctrl.RequestRefresh(ctx, inst.Group, inst.ID))

		loading, err := st.Loading(ctx, schedule.Group11)
		require.NoError(t, err)
		assert.True(t, loading, "flag stays true across overlapping refreshes")
		assert.Equal(t, 2, signals, "every tap reaches the pipeline")
	})

	t.Run("siblings of the same group share the flag", func(t *testing.T) {
		ctrl, st, _, reg := newTestRefresh(t, fetch.NoopSignaler{})
		tapped := reg.Add(schedule.Group32)
		reg.Add(schedule.Group32)

		require.NoError(t, ctrl.RequestRefresh(ctx, tapped.Group, tapped.ID))

		loading, err := st.Loading(ctx, schedule.Group32)
		require.NoError(t, err)
		assert.True(t, loading)
	})

	t.Run("store failure abandons refresh before signaling", func(t *testing.T) {
		signals := 0
		st := &failingLoadingStore{Store: store.NewMockStore(), err: errors.New("disk full")}
		sf := surface.NewMemorySurface()
		reg := NewInstanceRegistry()
		ctrl := NewRefreshController(st, NewRenderer(st, sf, nil), reg, fetch.SignalFunc(func(context.Context) error {
			signals++
			return nil
		}), nil)
		inst := reg.Add(schedule.Group11)

		err := ctrl.RequestRefresh(ctx, inst.Group, inst.ID)
		require.Error(t, err)
		assert.Zero(t, signals)
	})

	t.Run("signal failure is surfaced but loading stays set", func(t *testing.T) {
		ctrl, st, _, reg := newTestRefresh(t, fetch.SignalFunc(func(context.Context) error {
			return errors.New("broker unreachable")
		}))
		inst := reg.Add(schedule.Group11)

		err := ctrl.RequestRefresh(ctx, inst.Group, inst.ID)
		require.Error(t, err)

		loading, lerr := st.Loading(ctx, schedule.Group11)
		require.NoError(t, lerr)
		assert.True(t, loading, "no rollback of the optimistic flag")
	})

	t.Run("unknown instance still sets flag and signals", func(t *testing.T) {
		signals := 0
		ctrl, st, _, _ := newTestRefresh(t, fetch.SignalFunc(func(context.Context) error {
			signals++
			return nil
		}))

		require.NoError(t, ctrl.RequestRefresh(ctx, schedule.Group42, "gone"))

		loading, err := st.Loading(ctx, schedule.Group42)
		require.NoError(t, err)
		assert.True(t, loading)
		assert.Equal(t, 1, signals)
	})
}
