package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	SessionChecks      *prometheus.CounterVec
	SessionCheckMs     prometheus.Histogram
	CacheInvalidations prometheus.Counter
	LoginRedirects     *prometheus.CounterVec
	CallbackOutcomes   *prometheus.CounterVec
	AdminChecks        *prometheus.CounterVec
	RequestLatencyMs   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SessionChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_session_checks_total",
			Help: "Session checks against the backend by outcome",
		}, []string{"outcome"}),
		SessionCheckMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "aura_session_check_duration_ms",
			Help:    "Latency of backend session checks in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		CacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aura_session_cache_invalidations_total",
			Help: "Explicit session snapshot invalidations",
		}),
		LoginRedirects: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_login_redirects_total",
			Help: "Login initiations by environment verdict",
		}, []string{"verdict"}),
		CallbackOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_callback_outcomes_total",
			Help: "Mobile callback resolutions by terminal state",
		}, []string{"outcome"}),
		AdminChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_admin_checks_total",
			Help: "Admin session checks by outcome",
		}, []string{"outcome"}),
		RequestLatencyMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_http_request_duration_ms",
			Help:    "Gateway HTTP request latency in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}, []string{"path", "status"}),
	}
}

// Session check outcomes.
const (
	OutcomeAuthenticated   = "authenticated"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeTimeout         = "timeout"
	OutcomeError           = "error"
)
