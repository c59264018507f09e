// Package ratelimit protects the public evaluation endpoints with a
// fixed-window limiter keyed by authenticated caller (falling back to client
// IP before auth).
package ratelimit

import (
	"context"
	"time"
)

// Result describes one limiter decision.
type Result struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long the caller should wait when not allowed.
	RetryAfter time.Duration
}

// Limiter counts requests per key within a fixed window.
type Limiter interface {
	// Allow consumes one request for key, reporting whether it fits within
	// limit for the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
