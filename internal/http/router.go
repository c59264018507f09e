// Package httpapi assembles the HTTP surface: middleware chain, public
// endpoints, and authenticated API routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	compliancehandler "rostra/internal/compliance/handler"
	employeehandler "rostra/internal/employee/handler"
	"rostra/internal/payroll"
	"rostra/internal/platform/config"
	"rostra/internal/ratelimit"
	"rostra/pkg/platform/audit"
	"rostra/pkg/platform/httputil"
	authmw "rostra/pkg/platform/middleware/auth"
	"rostra/pkg/platform/middleware/metadata"
	"rostra/pkg/platform/middleware/requestid"
	"rostra/pkg/platform/middleware/requesttime"
	"rostra/pkg/requestcontext"
)

// Deps carries everything the router needs. Handlers stay thin: domain logic
// lives in the services behind them.
type Deps struct {
	Logger         *slog.Logger
	JWTValidator   authmw.JWTValidator
	Compliance     *compliancehandler.Handler
	Employees      *employeehandler.Handler
	Payroll        *payroll.Handler
	Limiter        ratelimit.Limiter
	RateLimit      config.RateLimit
	AuditPublisher audit.Publisher
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(recoverer(deps.Logger))

	// Public endpoints.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated API.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(deps.JWTValidator, deps.Logger))
		if deps.Limiter != nil {
			r.Use(ratelimit.Middleware(deps.Limiter, deps.RateLimit, deps.Logger, deps.AuditPublisher))
		}

		deps.Compliance.Register(r)
		deps.Employees.Register(r)
		deps.Payroll.Register(r)
	})

	return r
}

// recoverer converts panics into the fail-closed envelope so unexpected
// programming errors share the one error contract callers already handle.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"request_id", requestcontext.RequestID(r.Context()),
						"panic", rec,
					)
					httputil.WriteFailedClosed(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
