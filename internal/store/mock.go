package store

import (
	"context"
	"sync"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu     sync.RWMutex
	values map[string]string
	calls  MockCalls
}

// MockCalls tracks method invocations for test verification.
type MockCalls struct {
	Get        int
	Set        int
	SetLoading int
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{values: make(map[string]string)}
}

func (m *MockStore) get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.calls.Get++
	return m.values[key], nil
}

func (m *MockStore) set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Set++
	m.values[key] = value
	return nil
}

func (m *MockStore) Schedule(_ context.Context, g schedule.Group) (string, error) {
	return m.get(scheduleKey(g))
}

func (m *MockStore) SetSchedule(_ context.Context, g schedule.Group, encoded string) error {
	return m.set(scheduleKey(g), encoded)
}

func (m *MockStore) TomorrowSchedule(_ context.Context, g schedule.Group) (string, error) {
	return m.get(tomorrowKey(g))
}

func (m *MockStore) SetTomorrowSchedule(_ context.Context, g schedule.Group, encoded string) error {
	return m.set(tomorrowKey(g), encoded)
}

func (m *MockStore) LastUpdateDate(_ context.Context) (string, error) {
	return m.get(keyLastUpdateDate)
}

func (m *MockStore) LastUpdateTime(_ context.Context) (string, error) {
	return m.get(keyLastUpdateTime)
}

func (m *MockStore) SetLastUpdate(_ context.Context, date, display string) error {
	if err := m.set(keyLastUpdateDate, date); err != nil {
		return err
	}
	return m.set(keyLastUpdateTime, display)
}

func (m *MockStore) Loading(_ context.Context, g schedule.Group) (bool, error) {
	v, err := m.get(loadingKey(g))
	if err != nil {
		return false, err
	}
	return parseBool(v), nil
}

func (m *MockStore) SetLoading(_ context.Context, g schedule.Group, v bool) error {
	m.mu.Lock()
	m.calls.SetLoading++
	m.mu.Unlock()
	return m.set(loadingKey(g), boolValue(v))
}

// Close releases resources (no-op for mock).
func (m *MockStore) Close() error { return nil }

// Calls returns the number of times each method group was called.
func (m *MockStore) Calls() MockCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Raw returns the stored value for a raw key (for testing key layout).
func (m *MockStore) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Reset clears all values and call counts.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	m.calls = MockCalls{}
}
