package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/serroba/user-lookup-go/internal/records"
	"github.com/sony/gobreaker"
)

// Pinger reports backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerRecordStore wraps a Repository with a circuit breaker so that an
// unreachable backend fails fast. Not-found results count as successes.
type BreakerRecordStore struct {
	store   records.Repository
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerRecordStore trips after maxFailures consecutive failures and
// probes again after timeout. Cancellations and deadlines of the caller's
// own context are not backend failures.
func NewBreakerRecordStore(
	store records.Repository, name string, timeout time.Duration, maxFailures uint32,
) *BreakerRecordStore {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, records.ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &BreakerRecordStore{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BreakerRecordStore) FindOne(
	ctx context.Context, collection string, filter records.Filter, projection records.Projection,
) (records.Document, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.store.FindOne(ctx, collection, filter, projection)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("breaker (%s): %w", b.breaker.Name(), err)
		}

		return nil, err
	}

	doc, _ := result.(records.Document)

	return doc, nil
}

// Ping delegates to the wrapped store when it supports it.
func (b *BreakerRecordStore) Ping(ctx context.Context) error {
	if p, ok := b.store.(Pinger); ok {
		return p.Ping(ctx)
	}

	return nil
}

// State returns the breaker state name.
func (b *BreakerRecordStore) State() string {
	return b.breaker.State().String()
}

// Compile-time check.
var _ records.Repository = (*BreakerRecordStore)(nil)
