package api

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBurst is the token bucket size when none is configured.
const DefaultBurst = 5

// defaultBackoff applies when a 429 carries no usable Retry-After header.
const defaultBackoff = 30 * time.Second

// RateLimiter throttles outbound requests with a token bucket and honours
// server-requested backoff after a 429.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// A non-positive rps disables throttling.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = DefaultBurst
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent, or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff delays every following request by the server's Retry-After value.
func (r *RateLimiter) Backoff(retryAfter string) {
	delay := defaultBackoff
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		delay = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(delay); until.After(r.retryAt) {
		r.retryAt = until
	}
}

// Allow reports whether a request could be sent right now without waiting.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
