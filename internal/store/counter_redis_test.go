package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/user-lookup-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return srv, client
}

func TestRedisCounterStore(t *testing.T) {
	ctx := context.Background()

	t.Run("increments and expires", func(t *testing.T) {
		srv, client := newMiniredisClient(t)
		s := store.NewRedisCounterStore(client)

		count, err := s.Increment(ctx, "test:get:user:total")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = s.Increment(ctx, "test:get:user:total")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		assert.Zero(t, srv.TTL("test:get:user:total"), "increment alone must not set a ttl")

		require.NoError(t, s.Expire(ctx, "test:get:user:total", time.Hour))
		assert.Equal(t, time.Hour, srv.TTL("test:get:user:total"))

		srv.FastForward(time.Hour)

		count, err = s.Increment(ctx, "test:get:user:total")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "counter should restart after ttl")
	})

	t.Run("propagates increment errors", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectIncr("test:key").SetErr(errors.New("connection reset"))

		s := store.NewRedisCounterStore(client)

		_, err := s.Increment(ctx, "test:key")

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates expire errors", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectExpire("test:key", time.Minute).SetErr(errors.New("timeout"))

		s := store.NewRedisCounterStore(client)

		err := s.Expire(ctx, "test:key", time.Minute)

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisScriptCounterStore(t *testing.T) {
	ctx := context.Background()

	t.Run("arms ttl only on creation", func(t *testing.T) {
		srv, client := newMiniredisClient(t)
		s := store.NewRedisScriptCounterStore(client)

		count, err := s.IncrementWithExpiry(ctx, "k", 12*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 12*time.Hour, srv.TTL("k"))

		srv.FastForward(time.Hour)

		count, err = s.IncrementWithExpiry(ctx, "k", 12*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.Equal(t, 11*time.Hour, srv.TTL("k"), "second increment must not refresh the ttl")
	})

	t.Run("restarts after window", func(t *testing.T) {
		srv, client := newMiniredisClient(t)
		s := store.NewRedisScriptCounterStore(client)

		_, _ = s.IncrementWithExpiry(ctx, "k", time.Minute)
		_, _ = s.IncrementWithExpiry(ctx, "k", time.Minute)

		srv.FastForward(time.Minute)

		count, err := s.IncrementWithExpiry(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
