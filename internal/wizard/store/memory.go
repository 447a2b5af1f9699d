package store

import (
	"context"
	"sync"
	"time"

	"appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/platform/apperr"
)

type memoryEntry struct {
	state     domain.State
	expiresAt time.Time
}

// MemoryStore is a single-process Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, ttl: ttl, now: time.Now}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, state domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	if _, ok := m.entries[state.ID]; ok {
		return apperr.Conflict("quote session already exists")
	}
	m.entries[state.ID] = memoryEntry{state: state, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.liveLocked(id)
	if !ok {
		return domain.State{}, errNotFound()
	}
	return entry.state, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, fn UpdateFunc) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.liveLocked(id)
	if !ok {
		return domain.State{}, errNotFound()
	}
	next, err := fn(entry.state)
	if err != nil {
		return domain.State{}, err
	}
	m.entries[id] = memoryEntry{state: next, expiresAt: m.now().Add(m.ttl)}
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) liveLocked(id string) (memoryEntry, bool) {
	entry, ok := m.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}
