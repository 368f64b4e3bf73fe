package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/user-lookup-go/internal/ratelimit"
)

// incrementWithExpiry arms the TTL in the same script run that creates the key.
var incrementWithExpiry = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisCounterStore is a Redis implementation of ratelimit.Store using INCR
// followed by a separate EXPIRE.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a new Redis-backed counter store.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (r *RedisCounterStore) Increment(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisCounterStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

// RedisScriptCounterStore adds an atomic increment-with-expiry backed by a
// Lua script, closing the window between INCR and EXPIRE.
type RedisScriptCounterStore struct {
	*RedisCounterStore
}

// NewRedisScriptCounterStore creates a counter store that arms TTLs atomically.
func NewRedisScriptCounterStore(client *redis.Client) *RedisScriptCounterStore {
	return &RedisScriptCounterStore{RedisCounterStore: NewRedisCounterStore(client)}
}

func (r *RedisScriptCounterStore) IncrementWithExpiry(
	ctx context.Context, key string, ttl time.Duration,
) (int64, error) {
	return incrementWithExpiry.Run(ctx, r.client, []string{key}, ttl.Milliseconds()).Int64()
}

// Compile-time checks.
var (
	_ ratelimit.Store       = (*RedisCounterStore)(nil)
	_ ratelimit.AtomicStore = (*RedisScriptCounterStore)(nil)
)
