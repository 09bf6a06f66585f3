package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the current window closes.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed,
// or 0 when this one was allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Store keeps per-key counters for fixed windows.
type Store interface {
	// Increment adds one hit to key. The window starts with the first hit
	// and its counter expires after window.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}
