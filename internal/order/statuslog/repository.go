package statuslog

import (
	"context"
	"sync"
)

// Repository is the port for persisting status log entries. The order
// service depends on this abstraction, not on SQLite directly, so tests can
// use the in-memory implementation.
type Repository interface {
	// Append persists a new entry. The log is append-only.
	Append(ctx context.Context, entry *Entry) error

	// Timeline returns every entry for one order, oldest first.
	Timeline(ctx context.Context, orderID string) ([]Entry, error)
}

// MemoryRepository is the in-memory Repository used in tests and guest
// sessions without a database file.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Append(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryRepository) Timeline(_ context.Context, orderID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}
