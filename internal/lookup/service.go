package lookup

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/serroba/user-lookup-go/internal/ratelimit"
	"github.com/serroba/user-lookup-go/internal/records"
	"go.uber.org/zap"
)

const (
	usersCollection = "users"

	fieldID           = "_id"
	fieldCreatedAt    = "createdAt"
	fieldPhoneNumber  = "phoneNumber"
	fieldPhoneNumbers = "phoneNumbers"

	objectIDLength = 24
)

var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
)

var (
	userInfoProjection = records.Projection{fieldID, fieldPhoneNumber, fieldCreatedAt}

	userVideosProjection = records.Projection{
		fieldID,
		fieldPhoneNumber,
		fieldCreatedAt,
		"profileVideo.videoUrls.sd",
		"profileVideo.videoUrls.hd",
		"profileVideo.videoUrls.sd_share",
		"profileVideo.videoUrls.sd_logo",
		"profileVideo.thumbnails",
	}
)

// Gate admits a request only when every quota check admits it.
type Gate interface {
	CheckAll(ctx context.Context, checks ...ratelimit.Check) error
}

// Limits are the per-window request ceilings.
type Limits struct {
	PerCaller int64
	Total     int64
}

type resource struct {
	keys          ratelimit.Keyspace
	totalMessage  string
	callerMessage string
}

// Service performs quota-guarded user lookups.
type Service struct {
	gate    Gate
	records records.Repository
	limits  Limits
	info    resource
	videos  resource
	logger  *zap.Logger
}

// NewService creates a lookup service. env namespaces every quota key.
func NewService(gate Gate, repo records.Repository, env string, limits Limits, logger *zap.Logger) *Service {
	return &Service{
		gate:    gate,
		records: repo,
		limits:  limits,
		info: resource{
			keys:          ratelimit.NewKeyspace(env, "get:user"),
			totalMessage:  "Max daily total info request count reached",
			callerMessage: "Max daily user info request count reached",
		},
		videos: resource{
			keys:          ratelimit.NewKeyspace(env, "get:videos"),
			totalMessage:  "Max daily total video request count reached",
			callerMessage: "Max daily user video request count reached",
		},
		logger: logger,
	}
}

// GetByID returns the user with the given object id.
func (s *Service) GetByID(ctx context.Context, id, callerAddress string) (Record, error) {
	s.logger.Info("getting user info", zap.String("id", id))

	if len(id) != objectIDLength || !objectIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: unexpected id %q, want %d hex characters", ErrValidation, id, objectIDLength)
	}

	if err := s.admit(ctx, s.info, callerAddress); err != nil {
		return nil, err
	}

	doc, err := s.find(ctx, records.Eq(fieldID, records.ObjectID(id)), userInfoProjection, id)
	if err != nil {
		return nil, err
	}

	return normalize(doc), nil
}

// GetByPhone returns the profile videos of the user owning phone, matched
// against the primary number or any secondary number. The returned record's
// identifier is the phone number.
func (s *Service) GetByPhone(ctx context.Context, phone, callerAddress string) (Record, error) {
	s.logger.Info("getting user videos", zap.String("phone", phone))

	if !ValidPhone(phone) {
		return nil, fmt.Errorf("%w: unexpected phone number %q", ErrValidation, phone)
	}

	if err := s.admit(ctx, s.videos, callerAddress); err != nil {
		return nil, err
	}

	filter := records.Or(
		records.Eq(fieldPhoneNumber, phone),
		records.Contains(fieldPhoneNumbers, phone),
	)

	doc, err := s.find(ctx, filter, userVideosProjection, phone)
	if err != nil {
		return nil, err
	}

	record := normalize(doc)
	record[fieldID] = phone

	return record, nil
}

func (s *Service) admit(ctx context.Context, r resource, callerAddress string) error {
	err := s.gate.CheckAll(ctx,
		ratelimit.Check{
			Scope:   ratelimit.ScopeGlobal,
			Key:     r.keys.Global(),
			Limit:   s.limits.Total,
			Message: r.totalMessage,
		},
		ratelimit.Check{
			Scope:   ratelimit.ScopeCaller,
			Key:     r.keys.Caller(callerAddress),
			Limit:   s.limits.PerCaller,
			Message: r.callerMessage,
		},
	)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ratelimit.ErrQuotaExceeded):
		return err
	default:
		s.logger.Error("quota check failed", zap.String("resource", r.keys.Resource()), zap.Error(err))

		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

func (s *Service) find(
	ctx context.Context, filter records.Filter, projection records.Projection, key string,
) (records.Document, error) {
	doc, err := s.records.FindOne(ctx, usersCollection, filter, projection)

	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, records.ErrNotFound):
		return nil, fmt.Errorf("%w: no user matches %s", ErrNotFound, key)
	default:
		s.logger.Error("record lookup failed", zap.String("key", key), zap.Error(err))

		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
