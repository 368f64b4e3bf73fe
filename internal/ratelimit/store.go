package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for quota counter storage.
// The store is shared by every request; Increment is its only synchronization.
type Store interface {
	// Increment atomically adds one to the counter at key, creating it at zero
	// if absent, and returns the post-increment value.
	Increment(ctx context.Context, key string) (count int64, err error)

	// Expire sets the time-to-live of an existing counter. It is best effort:
	// callers may discard the result, in which case the counter never resets.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// AtomicStore is implemented by stores that can increment a counter and arm
// its TTL on creation in a single operation. Limiters prefer it over the
// two-phase Increment/Expire protocol.
type AtomicStore interface {
	Store
	IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (count int64, err error)
}
