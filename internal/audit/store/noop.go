package store

import (
	"context"

	"github.com/serroba/user-lookup-go/internal/audit"
	"go.uber.org/zap"
)

// Noop is an audit.Store that only logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new logging audit store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveUserRemoval(_ context.Context, event *audit.UserRemovalEvent) error {
	n.logger.Info("user removal requested",
		zap.String("requestId", event.RequestID),
		zap.String("phone", event.Phone),
		zap.String("clientIp", event.ClientIP),
		zap.String("userAgent", event.UserAgent),
		zap.Time("requestedAt", event.RequestedAt),
	)

	return nil
}

// Compile-time check.
var _ audit.Store = (*Noop)(nil)
