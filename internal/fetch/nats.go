package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/svitlogrid/svitlogrid/internal/logfields"
	"github.com/svitlogrid/svitlogrid/internal/store"
)

// Default NATS subjects for the refresh contract.
const (
	DefaultRefreshSubject = "svitlogrid.refresh.request"
	DefaultUpdateSubject  = "svitlogrid.schedule.update"
)

// NATSClient connects the daemon to the external fetch pipeline over
// NATS: it publishes refresh requests and consumes schedule updates.
type NATSClient struct {
	conn           *nats.Conn
	refreshSubject string
	updateSubject  string
	sub            *nats.Subscription
}

// NATSConfig configures the client. Empty subjects use the defaults.
type NATSConfig struct {
	URL            string
	RefreshSubject string
	UpdateSubject  string
}

// NewNATSClient connects to NATS.
func NewNATSClient(cfg NATSConfig) (*NATSClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if cfg.RefreshSubject == "" {
		cfg.RefreshSubject = DefaultRefreshSubject
	}
	if cfg.UpdateSubject == "" {
		cfg.UpdateSubject = DefaultUpdateSubject
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("svitlogrid"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS client connected",
		"url", cfg.URL,
		logfields.Subject(cfg.RefreshSubject))

	return &NATSClient{
		conn:           conn,
		refreshSubject: cfg.RefreshSubject,
		updateSubject:  cfg.UpdateSubject,
	}, nil
}

// SignalRefresh publishes a fire-and-forget refresh request. The body
// is empty: the pipeline repopulates every group, matching the
// no-arguments contract of the collaborator.
func (c *NATSClient) SignalRefresh(_ context.Context) error {
	if err := c.conn.Publish(c.refreshSubject, nil); err != nil {
		return fmt.Errorf("publish refresh request: %w", err)
	}
	return nil
}

// ListenUpdates subscribes to schedule-update messages and applies each
// one to the store. onApplied (optional) runs after a successful apply;
// the daemon uses it to re-render every instance. Malformed or failing
// messages are logged and dropped; the subscription stays alive.
func (c *NATSClient) ListenUpdates(ctx context.Context, s store.Store, onApplied func()) error {
	sub, err := c.conn.Subscribe(c.updateSubject, func(msg *nats.Msg) {
		var upd ScheduleUpdate
		if err := json.Unmarshal(msg.Data, &upd); err != nil {
			slog.Error("malformed schedule update", logfields.Subject(c.updateSubject), logfields.Error(err))
			return
		}

		if err := ApplyUpdate(ctx, s, upd); err != nil {
			slog.Error("failed to apply schedule update", logfields.Error(err))
			return
		}

		slog.Info("schedule update applied",
			"date", upd.Date,
			"groups", len(upd.Schedules))

		if onApplied != nil {
			onApplied()
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.updateSubject, err)
	}

	c.sub = sub
	return nil
}

// Close drains the subscription and closes the connection.
func (c *NATSClient) Close() error {
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
