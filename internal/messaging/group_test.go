package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/user-lookup-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	topic       string
	started     bool
	shutdown    bool
	startErr    error
	shutdownErr error
}

func (m *mockRunnable) Topic() string { return m.topic }

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.shutdown = true

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts all consumers", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		audit := &mockRunnable{topic: "user.removal.audit"}
		requested := &mockRunnable{topic: "user.removal.requested"}

		group.Add(audit)
		group.Add(requested)

		require.NoError(t, group.Start(context.Background()))
		assert.True(t, audit.started)
		assert.True(t, requested.started)
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		audit := &mockRunnable{topic: "user.removal.audit"}
		broken := &mockRunnable{topic: "user.removal.requested", startErr: errors.New("start error")}

		group.Add(audit)
		group.Add(broken)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "user.removal.requested")
		assert.True(t, audit.shutdown)
		assert.False(t, broken.started)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("shuts down all consumers and closes subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		audit := &mockRunnable{topic: "user.removal.audit"}

		group.Add(audit)
		_ = group.Start(context.Background())

		require.NoError(t, group.Shutdown())
		assert.True(t, audit.shutdown)
		assert.True(t, sub.closed)
	})

	t.Run("joins every failure", func(t *testing.T) {
		errFirst := errors.New("shutdown error 1")
		errSecond := errors.New("shutdown error 2")
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{topic: "a", shutdownErr: errFirst}
		second := &mockRunnable{topic: "b", shutdownErr: errSecond}

		group.Add(first)
		group.Add(second)
		_ = group.Start(context.Background())

		err := group.Shutdown()

		require.ErrorIs(t, err, errFirst)
		require.ErrorIs(t, err, errSecond)
		assert.True(t, second.shutdown)
	})
}
