package metrics

import "time"

// ResultLabel enumerates pass result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultNoData  ResultLabel = "no_data"
	ResultFailed  ResultLabel = "failed"
)

// TriggerLabel enumerates what caused a render pass.
type TriggerLabel string

const (
	TriggerTap      TriggerLabel = "tap"
	TriggerMidnight TriggerLabel = "midnight"
	TriggerUpdate   TriggerLabel = "update"
	TriggerStartup  TriggerLabel = "startup"
)

// Recorder defines observability hooks for render and refresh metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All
// methods must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveRenderDuration(group string, d time.Duration)
	IncRenderResult(group string, trigger TriggerLabel, result ResultLabel)
	IncRefreshRequest(group string)
	IncMidnightFire()
	SetArmedUntil(t time.Time)
	SetInstanceCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, time.Duration)             {}
func (NoopRecorder) IncRenderResult(string, TriggerLabel, ResultLabel)       {}
func (NoopRecorder) IncRefreshRequest(string)                                {}
func (NoopRecorder) IncMidnightFire()                                        {}
func (NoopRecorder) SetArmedUntil(time.Time)                                 {}
func (NoopRecorder) SetInstanceCount(int)                                    {}
