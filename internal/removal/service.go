package removal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/user-lookup-go/internal/audit"
	"github.com/serroba/user-lookup-go/internal/lookup"
	"github.com/serroba/user-lookup-go/internal/messaging"
	"github.com/serroba/user-lookup-go/internal/records"
	"go.uber.org/zap"
)

const (
	// TopicRequested carries removal requests to the account service.
	TopicRequested = "user.removal.requested"
	// EventTypeRequested tags removal request messages.
	EventTypeRequested = "user.removal.requested"

	whitelistCollection = "phones_to_delete"
	fieldPhone          = "phone"
)

// ErrNotWhitelisted marks a phone number that is not scheduled for deletion.
var ErrNotWhitelisted = errors.New("phone number is not whitelisted for removal")

// Requested asks the account service to delete the user owning Phone.
type Requested struct {
	RequestID   string    `json:"requestId"`
	Phone       string    `json:"phone"`
	RequestedAt time.Time `json:"requestedAt"`
}

// EventID identifies the event by its request ID.
func (r *Requested) EventID() string {
	return r.RequestID
}

// Request is a removal issued by a client.
type Request struct {
	Phone     string
	ClientIP  string
	UserAgent string
}

// Service accepts user removals for whitelisted phone numbers.
type Service struct {
	whitelist      records.Repository
	publishRequest messaging.Publish[Requested]
	publishAudit   messaging.Publish[audit.UserRemovalEvent]
	now            func() time.Time
	logger         *zap.Logger
}

// NewService creates a removal service. whitelist must hold the
// phones_to_delete collection.
func NewService(
	whitelist records.Repository,
	publishRequest messaging.Publish[Requested],
	publishAudit messaging.Publish[audit.UserRemovalEvent],
	logger *zap.Logger,
) *Service {
	return &Service{
		whitelist:      whitelist,
		publishRequest: publishRequest,
		publishAudit:   publishAudit,
		now:            time.Now,
		logger:         logger,
	}
}

// Remove validates the phone number, checks the whitelist and hands the
// removal to the account service. The audit event is published first so
// every dispatched request has an audit entry.
func (s *Service) Remove(ctx context.Context, req Request) (*Requested, error) {
	s.logger.Info("removing user", zap.String("phone", req.Phone))

	if !lookup.ValidPhone(req.Phone) {
		return nil, fmt.Errorf("%w: unexpected phone number %q", lookup.ErrValidation, req.Phone)
	}

	if err := s.checkWhitelist(ctx, req.Phone); err != nil {
		return nil, err
	}

	requested := &Requested{
		RequestID:   uuid.NewString(),
		Phone:       req.Phone,
		RequestedAt: s.now().UTC(),
	}

	err := s.publishAudit(ctx, &audit.UserRemovalEvent{
		RequestID:   requested.RequestID,
		Phone:       requested.Phone,
		ClientIP:    req.ClientIP,
		UserAgent:   req.UserAgent,
		RequestedAt: requested.RequestedAt,
	})
	if err != nil {
		s.logger.Error("failed to publish removal audit", zap.Error(err))

		return nil, fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
	}

	if err := s.publishRequest(ctx, requested); err != nil {
		s.logger.Error("failed to publish removal request",
			zap.String("requestId", requested.RequestID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
	}

	s.logger.Info("user removal requested",
		zap.String("requestId", requested.RequestID),
		zap.String("clientIp", req.ClientIP),
	)

	return requested, nil
}

func (s *Service) checkWhitelist(ctx context.Context, phone string) error {
	_, err := s.whitelist.FindOne(ctx, whitelistCollection, records.Eq(fieldPhone, phone), records.Projection{fieldPhone})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, records.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotWhitelisted, phone)
	default:
		s.logger.Error("whitelist lookup failed", zap.Error(err))

		return fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
	}
}
