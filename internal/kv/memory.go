package kv

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds the lifetime of counters created before the caller has a
// chance to set an explicit expiration, so an interrupted caller cannot leak
// an immortal key.
const DefaultTTL = time.Minute

type memoryEntry struct {
	value     int64
	expiresAt time.Time
}

// MemoryStore is a process-local counter store. Expired entries are treated
// as absent on every read; the optional sweeper only reclaims memory and is
// not required for correctness.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now is swappable so tests can advance the clock.
	now func() time.Time
}

// NewMemoryStore returns an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns a store reading time from the given clock.
// Tests use it to advance the window without sleeping.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get returns the live value for key, lazily evicting an expired entry.
func (s *MemoryStore) Get(ctx context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return 0, false, nil
	}
	return entry.value, true, nil
}

// Incr increments key, creating it at 1 with the default TTL when absent or
// expired.
func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = memoryEntry{value: 1, expiresAt: now.Add(DefaultTTL)}
		s.entries[key] = entry
		return 1, nil
	}
	entry.value++
	s.entries[key] = entry
	return entry.value, nil
}

// Expire sets or refreshes the TTL on an existing key. Expiring an absent key
// is a no-op, matching Redis semantics.
func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	entry.expiresAt = s.now().Add(ttl)
	s.entries[key] = entry
	return nil
}

// Sweep removes expired entries. Correctness never depends on it being
// called; it exists to bound memory on long-running processes.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// StartSweeper runs Sweep at the given interval until the context is
// cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
