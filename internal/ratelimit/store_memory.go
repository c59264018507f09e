package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowCounter struct {
	windowStart time.Time
	count       int
}

// InMemoryLimiter is the single-process fallback used when Redis is not
// configured. Counters for idle keys are dropped lazily on access.
type InMemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

func NewInMemoryLimiter() *InMemoryLimiter {
	return &InMemoryLimiter{
		counters: make(map[string]*windowCounter),
	}
}

func (l *InMemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	counter, ok := l.counters[key]
	if !ok || now.Sub(counter.windowStart) >= window {
		counter = &windowCounter{windowStart: now}
		l.counters[key] = counter
	}

	if counter.count >= limit {
		return &Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: window - now.Sub(counter.windowStart),
		}, nil
	}

	counter.count++
	return &Result{
		Allowed:   true,
		Remaining: limit - counter.count,
	}, nil
}
