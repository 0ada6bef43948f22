// Package daemon hosts the widget core: the render/refresh
// controllers, the instance registry, the midnight rollover scheduler,
// and the HTTP boundary to the widget host. Processing is
// event-driven: each trigger (tap, schedule update, midnight wake)
// runs one pass to completion; the core introduces no parallelism of
// its own.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/svitlogrid/svitlogrid/internal/config"
	"github.com/svitlogrid/svitlogrid/internal/fetch"
	"github.com/svitlogrid/svitlogrid/internal/metrics"
	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
	"github.com/svitlogrid/svitlogrid/internal/surface"
)

// Daemon owns the long-running widget state service.
type Daemon struct {
	cfg        *config.Config
	configPath string
	loc        *time.Location

	store     store.Store
	surface   *surface.MemorySurface
	instances *InstanceRegistry
	renderer  *Renderer
	refresh   *RefreshController
	midnight  *MidnightScheduler
	waker     *GocronWaker
	nats      *fetch.NATSClient
	http      *HTTPServer
	watcher   *ConfigWatcher

	recorder     metrics.Recorder
	promRegistry *prom.Registry
}

// NewDaemon assembles the daemon from configuration. Nothing external
// is touched until Start.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	d := &Daemon{
		cfg:       cfg,
		loc:       cfg.Location(),
		surface:   surface.NewMemorySurface(),
		instances: NewInstanceRegistry(),
		recorder:  metrics.NoopRecorder{},
	}

	if cfg.Metrics {
		d.promRegistry = prom.NewRegistry()
		d.promRegistry.MustRegister(collectors.NewGoCollector())
		d.recorder = metrics.NewPrometheusRecorder(d.promRegistry)
	}

	return d, nil
}

// NewDaemonWithConfigFile additionally watches the config file and
// reconciles the declared widget set when it changes.
func NewDaemonWithConfigFile(cfg *config.Config, configPath string) (*Daemon, error) {
	d, err := NewDaemon(cfg)
	if err != nil {
		return nil, err
	}
	d.configPath = configPath
	return d, nil
}

// Start opens collaborators and brings every configured widget on
// screen: initial render, midnight arm, update listener, HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	st, err := store.NewSQLiteStore(d.cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	d.store = st

	var signaler fetch.Signaler = fetch.NoopSignaler{}
	if d.cfg.NATS != nil {
		client, err := fetch.NewNATSClient(fetch.NATSConfig{
			URL:            d.cfg.NATS.URL,
			RefreshSubject: d.cfg.NATS.RefreshSubject,
			UpdateSubject:  d.cfg.NATS.UpdateSubject,
		})
		if err != nil {
			// The daemon still renders from stored data without the
			// pipeline; refreshes degrade to flag flips.
			slog.Error("fetch pipeline unavailable, continuing without it", "error", err.Error())
		} else {
			d.nats = client
			signaler = client
		}
	}

	d.renderer = NewRenderer(d.store, d.surface, d.recorder)
	d.refresh = NewRefreshController(d.store, d.renderer, d.instances, signaler, d.recorder)

	d.waker, err = NewGocronWaker()
	if err != nil {
		return fmt.Errorf("create waker: %w", err)
	}
	d.midnight = NewMidnightScheduler(d.waker, d.loc, func() {
		d.renderer.RenderAll(context.Background(), d.instances.All(), metrics.TriggerMidnight)
	}, d.recorder)

	// Register configured widgets and give each an initial render, the
	// same pass the host runs when a widget first lands on screen.
	for _, w := range d.cfg.Widgets {
		g, _ := schedule.ParseGroup(w.Group)
		for i := 0; i < w.Instances; i++ {
			d.AddInstance(ctx, g)
		}
	}

	if err := d.midnight.Arm(time.Now()); err != nil {
		return fmt.Errorf("arm midnight scheduler: %w", err)
	}

	if d.nats != nil {
		err := d.nats.ListenUpdates(ctx, d.store, func() {
			d.renderer.RenderAll(context.Background(), d.instances.All(), metrics.TriggerUpdate)
		})
		if err != nil {
			return fmt.Errorf("listen for schedule updates: %w", err)
		}
	}

	if d.configPath != "" {
		watcher, err := NewConfigWatcher(d.configPath, func() { d.reloadConfig(ctx) })
		if err != nil {
			slog.Error("config watching unavailable", "error", err.Error())
		} else if err := watcher.Start(ctx); err != nil {
			slog.Error("config watching unavailable", "error", err.Error())
		} else {
			d.watcher = watcher
		}
	}

	d.http = NewHTTPServer(d)
	d.http.Start(ctx)

	slog.Info("daemon started",
		"instances", d.instances.Count(),
		"timezone", d.cfg.Timezone,
		"store", d.cfg.StorePath)

	return nil
}

// reloadConfig re-reads the config file and reconciles the declared
// widget instances. Connection settings are not hot-swapped; those
// need a restart.
func (d *Daemon) reloadConfig(ctx context.Context) {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Error("config reload failed, keeping previous config", "error", err.Error())
		return
	}

	d.cfg.Widgets = cfg.Widgets
	d.reconcileWidgets(ctx, cfg.Widgets)
	slog.Info("config reloaded", "instances", d.instances.Count())
}

// reconcileWidgets adjusts the registered instance set to match the
// declared per-group counts. Instances added through the API for
// undeclared groups are left alone.
func (d *Daemon) reconcileWidgets(ctx context.Context, widgets []config.WidgetConfig) {
	for _, w := range widgets {
		g, ok := schedule.ParseGroup(w.Group)
		if !ok {
			continue
		}
		current := d.instances.ByGroup(g)
		switch {
		case len(current) < w.Instances:
			for i := len(current); i < w.Instances; i++ {
				d.AddInstance(ctx, g)
			}
		case len(current) > w.Instances:
			for _, inst := range current[w.Instances:] {
				d.RemoveInstance(inst.ID)
			}
		}
	}
}

// Stop shuts everything down in reverse order.
func (d *Daemon) Stop(ctx context.Context) error {
	if d.watcher != nil {
		_ = d.watcher.Stop()
	}
	if d.http != nil {
		if err := d.http.Stop(ctx); err != nil {
			slog.Error("HTTP shutdown failed", "error", err.Error())
		}
	}
	if d.waker != nil {
		if err := d.waker.Stop(ctx); err != nil {
			slog.Error("waker shutdown failed", "error", err.Error())
		}
	}
	if d.nats != nil {
		_ = d.nats.Close()
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	slog.Info("daemon stopped")
	return nil
}

// AddInstance registers a new on-screen instance and renders it.
func (d *Daemon) AddInstance(ctx context.Context, g schedule.Group) Instance {
	inst := d.instances.Add(g)
	d.recorder.SetInstanceCount(d.instances.Count())
	_ = d.renderer.RenderInstance(ctx, inst, metrics.TriggerStartup)
	return inst
}

// RemoveInstance drops an instance and its applied view.
func (d *Daemon) RemoveInstance(id string) bool {
	if !d.instances.Remove(id) {
		return false
	}
	d.surface.Forget(id)
	d.recorder.SetInstanceCount(d.instances.Count())
	return true
}
