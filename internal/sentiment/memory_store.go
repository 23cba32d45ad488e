package sentiment

import (
	"context"
	"sync"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
)

// MemoryStore is a process-local SentimentStore for tests and dry runs
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[contracts.Fingerprint]contracts.SentimentEntry
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[contracts.Fingerprint]contracts.SentimentEntry)}
}

func (m *MemoryStore) Get(_ context.Context, fp contracts.Fingerprint) (contracts.SentimentEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[fp]
	return e, ok, nil
}

func (m *MemoryStore) Upsert(_ context.Context, fp contracts.Fingerprint, entry contracts.SentimentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[fp] = entry
	return nil
}

func (m *MemoryStore) Known(_ context.Context, fps []contracts.Fingerprint) (map[contracts.Fingerprint]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	known := make(map[contracts.Fingerprint]bool, len(fps))
	for _, fp := range fps {
		if e, ok := m.entries[fp]; ok && e.Analyzed {
			known[fp] = true
		}
	}
	return known, nil
}

// Len returns the number of stored entries
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
