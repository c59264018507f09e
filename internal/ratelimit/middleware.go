package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rostra/internal/platform/config"
	"rostra/pkg/platform/audit"
	"rostra/pkg/requestcontext"
)

// Middleware enforces the limiter per caller. Keyed by authenticated user
// when available, otherwise by client IP. A limiter backend failure fails
// open: rate limiting is protection, not a correctness dependency.
func Middleware(limiter Limiter, cfg config.RateLimit, logger *slog.Logger, publisher audit.Publisher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := requestcontext.UserID(ctx).String()
			if userID := requestcontext.UserID(ctx); userID.IsNil() {
				key = "ip:" + requestcontext.ClientIP(ctx)
			}

			result, err := limiter.Allow(ctx, key, cfg.RequestsPerWindow, cfg.Window)
			if err != nil {
				logger.WarnContext(ctx, "rate limiter unavailable, failing open",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				audit.LogAudit(ctx, logger, publisher, audit.Event{
					Category:  audit.CategorySecurity,
					Timestamp: time.Now(),
					Action:    audit.EventRateLimitExceeded,
					ActorID:   requestcontext.UserID(ctx),
					RequestID: requestcontext.RequestID(ctx),
				})
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"Too many requests"}`))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}
