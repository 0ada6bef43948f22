package daemon

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
)

// Instance is one on-screen widget bound to a group. The ID is the
// opaque identity the host surface addresses the widget by.
type Instance struct {
	ID      string         `json:"id"`
	Group   schedule.Group `json:"group"`
	AddedAt time.Time      `json:"added_at"`
}

// InstanceRegistry tracks the widget instances currently on screen.
// Multiple instances of the same group are independent views over the
// same shared state.
type InstanceRegistry struct {
	mu   sync.RWMutex
	byID map[string]Instance
}

// NewInstanceRegistry creates an empty registry.
func NewInstanceRegistry() *InstanceRegistry {
	return &InstanceRegistry{byID: make(map[string]Instance)}
}

// Add registers a new instance of the group and returns it.
func (r *InstanceRegistry) Add(g schedule.Group) Instance {
	inst := Instance{
		ID:      uuid.NewString(),
		Group:   g,
		AddedAt: time.Now(),
	}
	r.mu.Lock()
	r.byID[inst.ID] = inst
	r.mu.Unlock()
	return inst
}

// Remove deregisters an instance. Returns false if it was unknown.
func (r *InstanceRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	return true
}

// Get looks up an instance by ID.
func (r *InstanceRegistry) Get(id string) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.byID[id]
	return inst, ok
}

// ByGroup returns all instances of one group.
func (r *InstanceRegistry) ByGroup(g schedule.Group) []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Instance
	for _, inst := range r.byID {
		if inst.Group == g {
			out = append(out, inst)
		}
	}
	sortInstances(out)
	return out
}

// All returns every registered instance in stable order.
func (r *InstanceRegistry) All() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Instance, 0, len(r.byID))
	for _, inst := range r.byID {
		out = append(out, inst)
	}
	sortInstances(out)
	return out
}

// Count returns the number of registered instances.
func (r *InstanceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func sortInstances(list []Instance) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Group != list[j].Group {
			return list[i].Group < list[j].Group
		}
		return list[i].ID < list[j].ID
	})
}
