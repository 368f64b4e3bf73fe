package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultWindow is the lifetime of a quota counter.
const DefaultWindow = 12 * time.Hour

const expireTimeout = 5 * time.Second

var ErrQuotaExceeded = errors.New("quota exceeded")

// ExceededError reports which scope rejected a request.
// It matches ErrQuotaExceeded with errors.Is.
type ExceededError struct {
	Scope   Scope
	Key     string
	Count   int64
	Limit   int64
	Message string
}

func (e *ExceededError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("%s quota exceeded: %d/%d", e.Scope, e.Count, e.Limit)
}

func (e *ExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// Check describes one quota scope to consume.
type Check struct {
	Scope Scope
	Key   string
	Limit int64
	// Message is returned verbatim to the caller on rejection.
	Message string
}

// Recorder observes limiter decisions.
type Recorder interface {
	Admitted(scope Scope)
	Rejected(scope Scope)
	ExpireFailed()
}

// Limiter implements fixed-window quotas on top of a shared counter store.
// The window starts at the first increment of a key and ends when the store
// drops the key.
type Limiter struct {
	store    Store
	window   time.Duration
	recorder Recorder
	logger   *zap.Logger

	mu      sync.Mutex
	closed  bool
	pending sync.WaitGroup
}

// NewLimiter creates a limiter. A nil recorder disables metrics.
func NewLimiter(store Store, window time.Duration, recorder Recorder, logger *zap.Logger) *Limiter {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Limiter{
		store:    store,
		window:   window,
		recorder: recorder,
		logger:   logger,
	}
}

// CheckAndConsume counts one request against c.Key and rejects it with an
// *ExceededError when the post-increment count is above c.Limit.
// Rejected increments stay counted.
func (l *Limiter) CheckAndConsume(ctx context.Context, c Check) error {
	count, err := l.increment(ctx, c.Key)
	if err != nil {
		return fmt.Errorf("increment %s: %w", c.Key, err)
	}

	if count > c.Limit {
		l.recorder.Rejected(c.Scope)
		l.logger.Debug("quota exceeded",
			zap.String("scope", string(c.Scope)),
			zap.String("key", c.Key),
			zap.Int64("count", count),
			zap.Int64("limit", c.Limit),
		)

		return &ExceededError{
			Scope:   c.Scope,
			Key:     c.Key,
			Count:   count,
			Limit:   c.Limit,
			Message: c.Message,
		}
	}

	l.recorder.Admitted(c.Scope)

	return nil
}

// CheckAll runs every check concurrently and waits for all of them. Each
// launched check consumes its quota even if another one rejects. When
// several checks fail, the error of the first one in argument order is returned.
func (l *Limiter) CheckAll(ctx context.Context, checks ...Check) error {
	errs := make([]error, len(checks))

	var wg sync.WaitGroup

	for i, c := range checks {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs[i] = l.CheckAndConsume(ctx, c)
		}()
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func (l *Limiter) increment(ctx context.Context, key string) (int64, error) {
	if atomic, ok := l.store.(AtomicStore); ok {
		return atomic.IncrementWithExpiry(ctx, key, l.window)
	}

	count, err := l.store.Increment(ctx, key)
	if err != nil {
		return 0, err
	}

	if count == 1 {
		l.armExpiry(ctx, key)
	}

	return count, nil
}

// armExpiry sets the window TTL without blocking the request. Failures are
// logged and counted; the key then lives until removed by an operator.
// After Shutdown the TTL is armed inline so no goroutine outlives the limiter.
func (l *Limiter) armExpiry(ctx context.Context, key string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.expire(ctx, key)

		return
	}

	l.pending.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.pending.Done()

		l.expire(ctx, key)
	}()
}

func (l *Limiter) expire(ctx context.Context, key string) {
	expCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), expireTimeout)
	defer cancel()

	if err := l.store.Expire(expCtx, key, l.window); err != nil {
		l.recorder.ExpireFailed()
		l.logger.Warn("failed to arm quota expiry, counter will not reset",
			zap.String("key", key),
			zap.Duration("window", l.window),
			zap.Error(err),
		)
	}
}

// Shutdown waits for in-flight expiry calls. Requests still running
// afterwards arm their TTL synchronously.
func (l *Limiter) Shutdown() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.pending.Wait()

	return nil
}

type nopRecorder struct{}

func (nopRecorder) Admitted(Scope) {}
func (nopRecorder) Rejected(Scope) {}
func (nopRecorder) ExpireFailed()  {}
