package localstore

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend used for guest sessions and tests.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string][]byte),
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
