package store

import (
	"context"
	"sync"
	"time"
)

// CounterMemoryStore is an in-memory implementation of ratelimit.Store.
type CounterMemoryStore struct {
	mu          sync.Mutex
	counters    map[string]*counter
	expireCalls map[string]int
	now         func() time.Time
}

type counter struct {
	value     int64
	expiresAt time.Time // zero means no TTL
}

// NewCounterMemoryStore creates a new in-memory counter store.
func NewCounterMemoryStore() *CounterMemoryStore {
	return &CounterMemoryStore{
		counters:    make(map[string]*counter),
		expireCalls: make(map[string]int),
		now:         time.Now,
	}
}

func (s *CounterMemoryStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(key)
	if c == nil {
		c = &counter{}
		s.counters[key] = c
	}

	c.value++

	return c.value, nil
}

func (s *CounterMemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireCalls[key]++

	// Like Redis, expiring a missing key is a no-op.
	if c := s.live(key); c != nil {
		c.expiresAt = s.now().Add(ttl)
	}

	return nil
}

// Count returns the current value of key, or zero if absent or expired.
func (s *CounterMemoryStore) Count(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.live(key); c != nil {
		return c.value
	}

	return 0
}

// TTL returns the remaining lifetime of key. ok is false when the key has no TTL.
func (s *CounterMemoryStore) TTL(key string) (ttl time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(key)
	if c == nil || c.expiresAt.IsZero() {
		return 0, false
	}

	return c.expiresAt.Sub(s.now()), true
}

// ExpireCalls returns how many times Expire was called for key.
func (s *CounterMemoryStore) ExpireCalls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.expireCalls[key]
}

// live returns the counter for key, dropping it first if its TTL elapsed.
// Callers must hold s.mu.
func (s *CounterMemoryStore) live(key string) *counter {
	c, ok := s.counters[key]
	if !ok {
		return nil
	}

	if !c.expiresAt.IsZero() && !s.now().Before(c.expiresAt) {
		delete(s.counters, key)

		return nil
	}

	return c
}
