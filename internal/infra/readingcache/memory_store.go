package readingcache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     float64
	expiresAt time.Time
}

// MemoryStore keeps readings in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

// Get returns a live entry. Expired entries are evicted on read.
func (s *MemoryStore) Get(_ context.Context, key string) (float64, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return 0, false, nil
	}
	return e.value, true, nil
}

// Set stores value. A non-positive ttl never expires.
func (s *MemoryStore) Set(_ context.Context, key string, value float64, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}
