package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/user-lookup-go/internal/audit"
	"github.com/serroba/user-lookup-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	events  []*audit.UserRemovalEvent
	saveErr error
	mu      sync.Mutex
}

func (m *mockStore) SaveUserRemoval(_ context.Context, event *audit.UserRemovalEvent) error {
	if m.saveErr != nil {
		return m.saveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)

	return nil
}

type mockSubscriber struct {
	msgChan chan *message.Message
}

func (m *mockSubscriber) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	return m.msgChan, nil
}

func (m *mockSubscriber) Close() error {
	return nil
}

func removalEvent() *audit.UserRemovalEvent {
	return &audit.UserRemovalEvent{
		RequestID:   uuid.NewString(),
		Phone:       "+15551234567",
		ClientIP:    "203.0.113.7",
		UserAgent:   "curl/8.5.0",
		RequestedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRemovalHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("saves event", func(t *testing.T) {
		store := &mockStore{}
		handle := audit.NewRemovalHandler(store, zap.NewNop())
		event := removalEvent()

		require.NoError(t, handle(ctx, event))
		require.Len(t, store.events, 1)
		assert.Equal(t, event.RequestID, store.events[0].RequestID)
	})

	t.Run("wraps store error", func(t *testing.T) {
		errDown := errors.New("connection refused")
		handle := audit.NewRemovalHandler(&mockStore{saveErr: errDown}, zap.NewNop())

		err := handle(ctx, removalEvent())

		require.ErrorIs(t, err, errDown)
	})

	t.Run("skips incomplete event", func(t *testing.T) {
		store := &mockStore{}
		handle := audit.NewRemovalHandler(store, zap.NewNop())

		require.NoError(t, handle(ctx, &audit.UserRemovalEvent{Phone: "+15551234567"}))
		assert.Empty(t, store.events)
	})
}

func TestRemovalHandler_ThroughConsumer(t *testing.T) {
	sub := &mockSubscriber{msgChan: make(chan *message.Message, 1)}
	store := &mockStore{}
	consumer := messaging.NewConsumer(
		sub, audit.TopicUserRemoval, audit.NewRemovalHandler(store, zap.NewNop()), zap.NewNop(),
	)

	require.NoError(t, consumer.Start(context.Background()))

	defer func() { _ = consumer.Shutdown() }()

	event := removalEvent()
	payload, _ := json.Marshal(event)
	msg := message.NewMessage(event.RequestID, payload)

	sub.msgChan <- msg

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		t.Fatal("message was nacked")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ack")
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	require.Len(t, store.events, 1)
	assert.Equal(t, "203.0.113.7", store.events[0].ClientIP)
	assert.True(t, event.RequestedAt.Equal(store.events[0].RequestedAt))
}
