package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/serroba/user-lookup-go/internal/ratelimit"
)

// Quota exposes limiter decisions as Prometheus metrics.
type Quota struct {
	decisions      *prometheus.CounterVec
	expireFailures prometheus.Counter
}

// NewQuota registers quota collectors with reg.
func NewQuota(reg prometheus.Registerer) *Quota {
	factory := promauto.With(reg)

	return &Quota{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_decisions_total",
				Help: "Quota checks by scope and outcome",
			},
			[]string{"scope", "outcome"},
		),
		expireFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "quota_ttl_arm_failures_total",
				Help: "Counters whose window TTL could not be set; they will not reset on their own",
			},
		),
	}
}

func (q *Quota) Admitted(scope ratelimit.Scope) {
	q.decisions.WithLabelValues(string(scope), "admitted").Inc()
}

func (q *Quota) Rejected(scope ratelimit.Scope) {
	q.decisions.WithLabelValues(string(scope), "rejected").Inc()
}

func (q *Quota) ExpireFailed() {
	q.expireFailures.Inc()
}

// NewRegistry creates a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Compile-time check.
var _ ratelimit.Recorder = (*Quota)(nil)
