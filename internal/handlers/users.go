package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/user-lookup-go/internal/lookup"
	"github.com/serroba/user-lookup-go/internal/ratelimit"
	"github.com/serroba/user-lookup-go/internal/removal"
	"go.uber.org/zap"
)

// Lookups performs quota-guarded user lookups.
type Lookups interface {
	GetByID(ctx context.Context, id, callerAddress string) (lookup.Record, error)
	GetByPhone(ctx context.Context, phone, callerAddress string) (lookup.Record, error)
}

// Remover accepts user removals.
type Remover interface {
	Remove(ctx context.Context, req removal.Request) (*removal.Requested, error)
}

// UserHandler handles user lookup and removal operations.
type UserHandler struct {
	lookups Lookups
	remover Remover
	logger  *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(lookups Lookups, remover Remover, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		lookups: lookups,
		remover: remover,
		logger:  logger,
	}
}

func (h *UserHandler) GetUserInfo(ctx context.Context, req *UserInfoRequest) (*RecordResponse, error) {
	meta := RequestMetaFromContext(ctx)

	record, err := h.lookups.GetByID(ctx, lookup.SanitizeParam(req.ID), meta.ClientIP)
	if err != nil {
		return nil, h.toHTTPError(err)
	}

	return &RecordResponse{Body: record}, nil
}

func (h *UserHandler) GetUserVideos(ctx context.Context, req *UserVideosRequest) (*RecordResponse, error) {
	meta := RequestMetaFromContext(ctx)

	record, err := h.lookups.GetByPhone(ctx, lookup.SanitizeParam(req.Phone), meta.ClientIP)
	if err != nil {
		return nil, h.toHTTPError(err)
	}

	return &RecordResponse{Body: record}, nil
}

func (h *UserHandler) RemoveUser(ctx context.Context, req *RemoveUserRequest) (*RemoveUserResponse, error) {
	meta := RequestMetaFromContext(ctx)

	requested, err := h.remover.Remove(ctx, removal.Request{
		Phone:     lookup.SanitizeParam(req.Phone),
		ClientIP:  meta.ClientIP,
		UserAgent: lookup.SanitizeParam(meta.UserAgent),
	})
	if err != nil {
		return nil, h.toHTTPError(err)
	}

	resp := &RemoveUserResponse{Status: http.StatusAccepted}
	resp.Body.RequestID = requested.RequestID
	resp.Body.Phone = requested.Phone
	resp.Body.RequestedAt = requested.RequestedAt

	return resp, nil
}

// toHTTPError maps service errors to problem responses. Quota rejections
// carry their configured message.
func (h *UserHandler) toHTTPError(err error) error {
	var exceeded *ratelimit.ExceededError

	switch {
	case errors.As(err, &exceeded):
		return huma.Error429TooManyRequests(exceeded.Error())
	case errors.Is(err, lookup.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, removal.ErrNotWhitelisted):
		return huma.Error403Forbidden("phone number is not scheduled for removal")
	case errors.Is(err, lookup.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, lookup.ErrUnavailable):
		return huma.Error503ServiceUnavailable("backend unavailable")
	default:
		h.logger.Error("unexpected error", zap.Error(err))

		return huma.Error500InternalServerError("internal server error")
	}
}
