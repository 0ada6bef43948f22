package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/svitlogrid/svitlogrid/internal/logfields"
	"github.com/svitlogrid/svitlogrid/internal/metrics"
)

// midnightState is the two-state machine of the rollover scheduler.
type midnightState int

const (
	midnightIdle midnightState = iota
	midnightArmed
)

// MidnightScheduler forces one full re-render per calendar day so the
// day-key resolution runs even when nobody touches a widget. The
// steady state is a recurring arm/fire cycle: every fire re-arms for
// the next midnight, for the lifetime of the installation.
type MidnightScheduler struct {
	waker    Waker
	onFire   func()
	loc      *time.Location
	recorder metrics.Recorder

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time

	mu         sync.Mutex
	state      midnightState
	armedUntil time.Time
}

// NewMidnightScheduler wires the scheduler. onFire runs on every wake,
// before re-arming; loc is the zone midnight is computed in.
func NewMidnightScheduler(w Waker, loc *time.Location, onFire func(), rec metrics.Recorder) *MidnightScheduler {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &MidnightScheduler{
		waker:    w,
		onFire:   onFire,
		loc:      loc,
		recorder: rec,
		now:      time.Now,
	}
}

// NextWakeTime returns tomorrow at 00:01 in loc. One minute past
// midnight leaves room for the date to have actually changed by the
// time the wake runs. The target is always a full calendar day ahead
// of now's date, so arming can never target the past.
func NextWakeTime(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 1, 0, 0, loc).AddDate(0, 0, 1)
}

// Arm transitions Idle -> Armed by registering the next wake. Arming
// while already armed supersedes the pending wake (idempotent re-arm).
func (m *MidnightScheduler) Arm(now time.Time) error {
	target := NextWakeTime(now, m.loc)

	if err := m.waker.Schedule(target, m.fire); err != nil {
		// The waker already degraded to inexact registration before
		// reporting; reaching here means even that failed. Leaving the
		// cycle stopped is not allowed, so log loudly and stay Idle;
		// the next external trigger re-arms through the daemon.
		slog.Error("midnight wake registration failed",
			logfields.FireAt(target.Format(time.RFC3339)),
			logfields.Error(err))
		return err
	}

	m.mu.Lock()
	m.state = midnightArmed
	m.armedUntil = target
	m.mu.Unlock()

	m.recorder.SetArmedUntil(target)
	slog.Info("midnight render armed", logfields.FireAt(target.Format(time.RFC3339)))
	return nil
}

// fire is the wake callback: run the render pass, then immediately
// re-arm for the following midnight.
func (m *MidnightScheduler) fire() {
	m.mu.Lock()
	m.state = midnightIdle
	m.mu.Unlock()

	m.recorder.IncMidnightFire()
	slog.Info("midnight wake fired")

	if m.onFire != nil {
		m.onFire()
	}

	_ = m.Arm(m.now())
}

// Armed reports whether a wake is currently registered and, if so,
// for when.
func (m *MidnightScheduler) Armed() (bool, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == midnightArmed, m.armedUntil
}
