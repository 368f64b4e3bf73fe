package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do"
	"github.com/serroba/user-lookup-go/internal/handlers"
	"github.com/serroba/user-lookup-go/internal/health"
	"github.com/serroba/user-lookup-go/internal/lookup"
	"github.com/serroba/user-lookup-go/internal/metrics"
	"github.com/serroba/user-lookup-go/internal/middleware"
	"github.com/serroba/user-lookup-go/internal/removal"
	"github.com/serroba/user-lookup-go/internal/store"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		router.Handle("/metrics", metrics.Handler(do.MustInvoke[*prometheus.Registry](i)))

		api := humachi.New(router, huma.DefaultConfig("User Lookup", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(opts.TrustProxy))

		handlers.RegisterRoutes(api, handlers.NewUserHandler(
			do.MustInvoke[*lookup.Service](i),
			do.MustInvoke[*removal.Service](i),
			logger,
		))

		health.RegisterRoutes(api, health.NewHandler(
			health.Dependency{Name: "redis", Checker: health.NewRedisChecker(do.MustInvoke[*Redis](i).Client)},
			health.Dependency{Name: "users", Checker: do.MustInvokeNamed[*store.BreakerRecordStore](i, UsersRepository)},
			health.Dependency{Name: "whitelist", Checker: do.MustInvokeNamed[*store.BreakerRecordStore](i, WhitelistRepository)},
		))

		return api, nil
	})
}
