package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Store is a time-boxed memoization layer keyed by request parameters. Stale
// entries are treated as absent on their next read; nothing is ever
// invalidated explicitly.
type Store interface {
	// Get unmarshals the cached value into dest and reports whether a live
	// entry was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is the in-process implementation. The mutex makes the
// get/check-expiry/set sequence atomic so two in-flight requests cannot both
// perceive a miss and issue duplicate upstream calls.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{payload: payload, expiresAt: s.now().Add(ttl)}
	return nil
}
