// Package httptransport assembles the gateway's HTTP surface: middleware
// chain, route mounting, and the operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "aura/internal/admin"
	"aura/internal/audit"
	"aura/internal/authurl"
	"aura/internal/callback"
	"aura/internal/environment"
	"aura/internal/platform/metrics"
	"aura/internal/platform/middleware"
	sessionhandler "aura/internal/session/handler"
	adminmw "aura/pkg/platform/middleware/admin"
)

// HealthChecker reports readiness of a backing resource.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts. Nil optional fields disable
// the corresponding surface.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Classifier environment.Classifier
	AuthURL    *authurl.Builder
	Devices    *environment.DeviceService
	Audit      *audit.Publisher

	Sessions *sessionhandler.Handler
	Callback *callback.Handler
	Admin    *adminhandler.Handler

	// AdminTokenHash guards the admin routes. Empty disables them.
	AdminTokenHash string

	// RequestTimeout bounds whole-request handling, settle delay included.
	RequestTimeout time.Duration

	// Redis, when configured, participates in the health check.
	Redis HealthChecker
}

// NewRouter wires the middleware chain and mounts all endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Latency(deps.Metrics))
	}
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	login := NewLoginHandler(deps.Classifier, deps.AuthURL, deps.Devices, deps.Logger, deps.Metrics, deps.Audit)
	r.Get("/login", login.HandleLogin)

	deps.Sessions.Register(r)
	deps.Callback.Register(r)

	r.Group(func(g chi.Router) {
		g.Use(adminmw.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
		deps.Admin.Register(g)
	})

	r.Get("/healthz", healthHandler(deps.Redis))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func healthHandler(redis HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redis != nil {
			if err := redis.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("redis unreachable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
