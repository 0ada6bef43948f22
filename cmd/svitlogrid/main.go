package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/svitlogrid/svitlogrid/internal/config"
	"github.com/svitlogrid/svitlogrid/internal/daemon"
	"github.com/svitlogrid/svitlogrid/internal/fetch"
	"github.com/svitlogrid/svitlogrid/internal/schedule"
	"github.com/svitlogrid/svitlogrid/internal/store"
	"github.com/svitlogrid/svitlogrid/internal/surface"
	"github.com/svitlogrid/svitlogrid/internal/widget"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"svitlogrid.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Daemon struct{} `cmd:"" help:"Run the widget state service"`

	Render struct {
		Group string `arg:"" help:"Outage group to render (e.g. GPV1.1 or 1.1)"`
	} `cmd:"" help:"Render one group's current schedule to the terminal"`

	Refresh struct{} `cmd:"" help:"Signal the fetch pipeline to pull fresh schedules"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "daemon":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runDaemon(cfg); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
	case "render <group>":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runRender(cfg, CLI.Render.Group); err != nil {
			slog.Error("Render failed", "error", err)
			os.Exit(1)
		}
	case "refresh":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runRefresh(cfg); err != nil {
			slog.Error("Refresh failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration written to %s\n", CLI.Config)
	}
}

func runDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.NewDaemonWithConfigFile(cfg, CLI.Config)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("daemon error: %w", err)
		}
		<-ctx.Done()
		slog.Info("Shutdown signal received, stopping daemon...")
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := d.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	slog.Info("Daemon stopped successfully")
	return nil
}

// runRender builds one snapshot from the stored state and prints it,
// without starting the service.
func runRender(cfg *config.Config, groupArg string) error {
	g, ok := schedule.ParseGroup(groupArg)
	if !ok {
		return fmt.Errorf("unknown group %q", groupArg)
	}

	st, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	snap, err := widget.BuildSnapshot(ctx, st, g, time.Now().In(cfg.Location()))
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	term := &surface.TermSurface{Out: os.Stdout}
	return term.Apply("preview", snap)
}

func runRefresh(cfg *config.Config) error {
	if cfg.NATS == nil {
		return fmt.Errorf("no fetch pipeline configured, set nats.url in %s", CLI.Config)
	}

	client, err := fetch.NewNATSClient(fetch.NATSConfig{
		URL:            cfg.NATS.URL,
		RefreshSubject: cfg.NATS.RefreshSubject,
		UpdateSubject:  cfg.NATS.UpdateSubject,
	})
	if err != nil {
		return fmt.Errorf("connect to fetch pipeline: %w", err)
	}
	defer client.Close()

	if err := client.SignalRefresh(context.Background()); err != nil {
		return fmt.Errorf("signal refresh: %w", err)
	}
	slog.Info("Refresh signal published")
	return nil
}
