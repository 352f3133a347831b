package cache

import (
	"context"
	"sync"
	"time"
)

// memoryStore keeps the entry in process memory. The pointer swap under the
// lock is the atomic publish; entries are never mutated after Set.
type memoryStore struct {
	mu    sync.RWMutex
	entry *Entry
}

// NewMemoryStore returns an in-process Store. Expiry rides on the entry
// itself, so the ttl argument to Set is unused here.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Get(ctx context.Context) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry, nil
}

func (s *memoryStore) Set(ctx context.Context, entry *Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = entry
	return nil
}

func (s *memoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
	return nil
}
