package lookup

import (
	"errors"

	"github.com/serroba/user-lookup-go/internal/ratelimit"
)

var (
	// ErrValidation marks malformed input. No quota is consumed.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks an admitted lookup that matched no record.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a counter or record store failure.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrQuotaExceeded is re-exported so callers need only this package.
	ErrQuotaExceeded = ratelimit.ErrQuotaExceeded
)
