// Package httptransport assembles the HTTP surface: middleware chains, route
// groups, and the operational endpoints. Handlers stay thin; everything
// cross-cutting lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphandler "eregister/internal/application/handler"
	authhandler "eregister/internal/auth/handler"
	"eregister/internal/platform/metrics"
	"eregister/internal/platform/middleware"
	"eregister/pkg/platform/httputil"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig carries everything the router composes. Revocations may be
// nil (no Redis configured); RequireAuth then skips the revocation check.
type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Validator      middleware.JWTValidator
	Revocations    middleware.TokenRevocationChecker
	Roles          middleware.RoleResolver
	Applications   *apphandler.Handler
	Identity       *authhandler.Handler
	RequestTimeout time.Duration
	Dependencies   map[string]HealthChecker
}

// NewRouter wires every endpoint behind the shared middleware chain.
//
// Route groups, outermost first:
//   - operational: /healthz, /metrics — no auth
//   - public: /verify/{uid} — no auth, this is the printed QR target
//   - /api: bearer token required
//   - /api/admin: bearer token plus the superuser role
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", healthHandler(cfg.Dependencies))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cfg.Applications.RegisterPublic(r)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequireAuth(cfg.Validator, cfg.Revocations, cfg.Logger))
		cfg.Applications.RegisterCitizen(api)
		cfg.Identity.Register(api)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireSuperuser(cfg.Roles, cfg.Logger))
			cfg.Applications.RegisterAdmin(admin)
		})
	})

	return r
}

// healthHandler pings each registered dependency with a short deadline.
// Degraded dependencies flip the status to 503 so orchestrators stop
// routing here, but the body still names the failing component.
func healthHandler(deps map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := map[string]string{"status": "ok"}
		for name, dep := range deps {
			if err := dep.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report["status"] = "degraded"
				report[name] = err.Error()
			} else {
				report[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, report)
	}
}
