package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/serroba/user-lookup-go/internal/messaging"
	"go.uber.org/zap"
)

var ErrInvalidEvent = errors.New("invalid audit event")

// NewRemovalHandler returns a consumer handler persisting removal events.
// Events without a request ID or phone are logged and skipped.
func NewRemovalHandler(store Store, logger *zap.Logger) messaging.Handler[UserRemovalEvent] {
	return func(ctx context.Context, event *UserRemovalEvent) error {
		if event.RequestID == "" || event.Phone == "" {
			logger.Warn("skipping incomplete removal event",
				zap.String("requestId", event.RequestID),
				zap.Error(ErrInvalidEvent),
			)

			return nil
		}

		if err := store.SaveUserRemoval(ctx, event); err != nil {
			return fmt.Errorf("save removal %s: %w", event.RequestID, err)
		}

		return nil
	}
}
