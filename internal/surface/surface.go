// Package surface defines the rendering boundary. A Surface receives a
// fully built snapshot together with the opaque identity of the
// on-screen instance it belongs to; pixel layout is its problem, not
// the core's.
package surface

import (
	"sync"

	"github.com/svitlogrid/svitlogrid/internal/widget"
)

// Surface applies a snapshot to one on-screen widget instance. Apply
// must treat the snapshot as immutable and commit it in a single step:
// observers see either the previous view or the new one, never a mix.
type Surface interface {
	Apply(instanceID string, snap widget.Snapshot) error
}

// MemorySurface keeps the latest applied snapshot per instance. It is
// the daemon's in-process surface: the HTTP API reads from it, and the
// widget host polls it for display.
type MemorySurface struct {
	mu      sync.RWMutex
	applied map[string]widget.Snapshot
}

// NewMemorySurface creates an empty surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{applied: make(map[string]widget.Snapshot)}
}

// Apply commits the snapshot for the instance in one step.
func (m *MemorySurface) Apply(instanceID string, snap widget.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied[instanceID] = snap
	return nil
}

// Current returns the last applied snapshot for the instance.
func (m *MemorySurface) Current(instanceID string) (widget.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.applied[instanceID]
	return snap, ok
}

// Forget drops the instance's view, e.g. when the widget is removed.
func (m *MemorySurface) Forget(instanceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.applied, instanceID)
}
