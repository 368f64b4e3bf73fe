package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do"
	"github.com/serroba/user-lookup-go/internal/audit"
	"github.com/serroba/user-lookup-go/internal/lookup"
	"github.com/serroba/user-lookup-go/internal/messaging"
	"github.com/serroba/user-lookup-go/internal/metrics"
	"github.com/serroba/user-lookup-go/internal/ratelimit"
	"github.com/serroba/user-lookup-go/internal/removal"
	"github.com/serroba/user-lookup-go/internal/store"
	"go.uber.org/zap"
)

// MetricsPackage provides the Prometheus registry and quota collectors.
func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*prometheus.Registry, error) {
		return metrics.NewRegistry(), nil
	})

	do.Provide(i, func(i *do.Injector) (*metrics.Quota, error) {
		return metrics.NewQuota(do.MustInvoke[*prometheus.Registry](i)), nil
	})
}

// RateLimitPackage provides the quota limiter backed by Redis.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)

		window, err := opts.Window()
		if err != nil {
			return nil, err
		}

		var counters ratelimit.Store = store.NewRedisCounterStore(client.Client)
		if opts.AtomicQuota {
			counters = store.NewRedisScriptCounterStore(client.Client)
		}

		return ratelimit.NewLimiter(counters, window, do.MustInvoke[*metrics.Quota](i), logger), nil
	})
}

// LookupPackage provides the guarded user lookup service.
func LookupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*lookup.Service, error) {
		opts := do.MustInvoke[*Options](i)

		return lookup.NewService(
			do.MustInvoke[*ratelimit.Limiter](i),
			do.MustInvokeNamed[*store.BreakerRecordStore](i, UsersRepository),
			opts.Env,
			lookup.Limits{
				PerCaller: int64(opts.MaxUserRequests),
				Total:     int64(opts.MaxTotalRequests),
			},
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RemovalPackage provides the user removal service.
func RemovalPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*removal.Service, error) {
		publisher := do.MustInvoke[*messaging.PublisherGroup](i).Publisher()

		return removal.NewService(
			do.MustInvokeNamed[*store.BreakerRecordStore](i, WhitelistRepository),
			messaging.NewPublishFunc[removal.Requested](publisher, removal.TopicRequested, removal.EventTypeRequested),
			messaging.NewPublishFunc[audit.UserRemovalEvent](publisher, audit.TopicUserRemoval, audit.EventTypeUserRemoval),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
