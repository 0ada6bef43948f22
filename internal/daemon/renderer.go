package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/svitlogrid/svitlogrid/internal/logfields"
	"github.com/svitlogrid/svitlogrid/internal/metrics"
	"github.com/svitlogrid/svitlogrid/internal/store"
	"github.com/svitlogrid/svitlogrid/internal/surface"
	"github.com/svitlogrid/svitlogrid/internal/widget"
)

// Renderer executes render passes: read state, build a snapshot,
// apply it to the surface in one step. Failures abandon the pass and
// leave the previously applied view in place; the next trigger (tap,
// update, midnight) retries naturally, so there is no retry loop here.
type Renderer struct {
	store    store.Store
	surface  surface.Surface
	recorder metrics.Recorder

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewRenderer wires a renderer. A nil recorder disables metrics.
func NewRenderer(s store.Store, sf surface.Surface, rec metrics.Recorder) *Renderer {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Renderer{store: s, surface: sf, recorder: rec, now: time.Now}
}

// RenderInstance runs one pass for one instance.
func (r *Renderer) RenderInstance(ctx context.Context, inst Instance, trigger metrics.TriggerLabel) error {
	start := r.now()

	snap, err := widget.BuildSnapshot(ctx, r.store, inst.Group, start)
	if err != nil {
		r.recorder.IncRenderResult(string(inst.Group), trigger, metrics.ResultFailed)
		slog.Error("render pass failed, keeping previous view",
			logfields.Group(string(inst.Group)),
			logfields.Instance(inst.ID),
			logfields.Trigger(string(trigger)),
			logfields.Error(err))
		return err
	}

	if err := r.surface.Apply(inst.ID, snap); err != nil {
		r.recorder.IncRenderResult(string(inst.Group), trigger, metrics.ResultFailed)
		slog.Error("surface rejected snapshot",
			logfields.Group(string(inst.Group)),
			logfields.Instance(inst.ID),
			logfields.Error(err))
		return err
	}

	result := metrics.ResultSuccess
	if snap.NoData {
		result = metrics.ResultNoData
	}
	r.recorder.IncRenderResult(string(inst.Group), trigger, result)
	r.recorder.ObserveRenderDuration(string(inst.Group), r.now().Sub(start))

	slog.Debug("rendered",
		logfields.Group(string(inst.Group)),
		logfields.Instance(inst.ID),
		logfields.DayKey(snap.DayKey.String()),
		logfields.Trigger(string(trigger)),
		slog.Bool("loading", snap.Loading),
		slog.Bool("no_data", snap.NoData))

	return nil
}

// RenderAll runs a pass for every given instance. Per-instance
// failures are contained: the remaining instances still render.
func (r *Renderer) RenderAll(ctx context.Context, instances []Instance, trigger metrics.TriggerLabel) {
	for _, inst := range instances {
		_ = r.RenderInstance(ctx, inst, trigger)
	}
}
