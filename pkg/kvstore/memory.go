package kvstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local store used by tests and throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.entries[key]
	return val, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// Len reports how many keys are stored, handy in tests.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
