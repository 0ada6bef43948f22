package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/svitlogrid/svitlogrid/internal/logfields"
)

// Waker is the wake-up collaborator: it invokes fire at or after the
// requested instant, at least once. Scheduling again before the
// pending wake fires supersedes it: the registration has one fixed
// logical identity.
type Waker interface {
	Schedule(at time.Time, fire func()) error
}

// GocronWaker implements Waker on a gocron one-shot job. If the exact
// one-shot cannot be created (e.g. the instant is not accepted), it
// degrades to a best-effort single-run duration job instead of giving
// up, so the caller's recurrence never silently stops.
type GocronWaker struct {
	sched gocron.Scheduler

	mu      sync.Mutex
	pending gocron.Job
}

// NewGocronWaker creates and starts the underlying scheduler.
func NewGocronWaker() (*GocronWaker, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.Start()
	return &GocronWaker{sched: s}, nil
}

// Schedule registers a one-shot wake at the given instant, replacing
// any pending registration.
func (w *GocronWaker) Schedule(at time.Time, fire func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		if err := w.sched.RemoveJob(w.pending.ID()); err != nil {
			slog.Debug("pending wake already gone", logfields.Error(err))
		}
		w.pending = nil
	}

	job, err := w.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(fire),
		gocron.WithName("midnight-wake"),
	)
	if err == nil {
		w.pending = job
		return nil
	}

	slog.Warn("exact wake registration failed, falling back to inexact timer",
		logfields.FireAt(at.Format(time.RFC3339)),
		logfields.Error(err))

	until := time.Until(at)
	if until <= 0 {
		until = time.Minute
	}
	job, err = w.sched.NewJob(
		gocron.DurationJob(until),
		gocron.NewTask(fire),
		gocron.WithName("midnight-wake-inexact"),
		gocron.WithLimitedRuns(1),
	)
	if err != nil {
		return fmt.Errorf("register wake at %s: %w", at.Format(time.RFC3339), err)
	}
	w.pending = job
	return nil
}

// Stop shuts the scheduler down.
func (w *GocronWaker) Stop(ctx context.Context) error {
	slog.Info("stopping wake scheduler")
	return w.sched.Shutdown()
}
