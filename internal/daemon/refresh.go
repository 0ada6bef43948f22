package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/svitlogrid/svitlogrid/internal/fetch"
	"github.com/svitlogrid/svitlogrid/internal/logfields"
	"github.com/svitlogrid/svitlogrid/internal/metrics"
	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
)

// RefreshController runs the optimistic refresh flow behind the tap
// target. It never clears the loading flag; that is the fetch
// pipeline's half of the contract (see fetch.ApplyUpdate).
type RefreshController struct {
	store     store.Store
	renderer  *Renderer
	instances *InstanceRegistry
	signaler  fetch.Signaler
	recorder  metrics.Recorder
}

// NewRefreshController wires the controller. A nil signaler falls back
// to fetch.NoopSignaler; a nil recorder disables metrics.
func NewRefreshController(s store.Store, r *Renderer, reg *InstanceRegistry, sig fetch.Signaler, rec metrics.Recorder) *RefreshController {
	if sig == nil {
		sig = fetch.NoopSignaler{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &RefreshController{store: s, renderer: r, instances: reg, signaler: sig, recorder: rec}
}

// RequestRefresh handles one tap on the refresh target of instanceID.
//
// The three steps are independent side effects with no rollback:
//  1. set the group's shared loading flag (optimistic, synchronous)
//  2. re-render the tapped instance so its spinner appears immediately
//  3. signal the fetch pipeline, fire-and-forget
//
// Re-entrant calls while a refresh is in flight are allowed and
// idempotent: the flag stays true and the pipeline is signaled again.
func (c *RefreshController) RequestRefresh(ctx context.Context, g schedule.Group, instanceID string) error {
	c.recorder.IncRefreshRequest(string(g))

	if err := c.store.SetLoading(ctx, g, true); err != nil {
		slog.Error("failed to set loading flag, abandoning refresh",
			logfields.Group(string(g)),
			logfields.GroupIndex(g.Index()),
			logfields.Error(err))
		return fmt.Errorf("set loading for %s: %w", g, err)
	}

	if inst, ok := c.instances.Get(instanceID); ok {
		// Best effort: a failed render leaves the previous view but
		// must not prevent the fetch signal.
		_ = c.renderer.RenderInstance(ctx, inst, metrics.TriggerTap)
	} else {
		slog.Warn("refresh requested for unknown instance",
			logfields.Instance(instanceID),
			logfields.Group(string(g)))
	}

	if err := c.signaler.SignalRefresh(ctx); err != nil {
		slog.Error("failed to signal fetch pipeline",
			logfields.Group(string(g)),
			logfields.Error(err))
		return fmt.Errorf("signal refresh: %w", err)
	}

	slog.Info("refresh requested",
		logfields.Group(string(g)),
		logfields.Instance(instanceID))

	return nil
}
