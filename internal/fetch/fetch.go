// Package fetch is the boundary to the external schedule-fetch
// pipeline. The core only signals that a refresh is wanted; fetching
// itself happens out of process. The pipeline is expected to publish a
// ScheduleUpdate when done, which ApplyUpdate writes back to the
// store, including clearing the per-group loading flags the refresh
// path set optimistically.
package fetch

import "context"

// Signaler asks the external pipeline to begin a refresh. The call is
// fire-and-forget: no result is observed and no completion is awaited.
type Signaler interface {
	SignalRefresh(ctx context.Context) error
}

// NoopSignaler is used when no pipeline is configured (render-only
// deployments); refreshes then only flip the loading flag until the
// store is updated by some other means.
type NoopSignaler struct{}

func (NoopSignaler) SignalRefresh(context.Context) error { return nil }

// SignalFunc adapts a function to the Signaler interface.
type SignalFunc func(ctx context.Context) error

func (f SignalFunc) SignalRefresh(ctx context.Context) error { return f(ctx) }
