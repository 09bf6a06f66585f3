package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Limiter is a fixed-window rate limiter: at most limit hits per key per
// window.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithPrefix namespaces store keys, e.g. "cantera:rl:".
func WithPrefix(prefix string) LimiterOption {
	return func(l *Limiter) { l.prefix = prefix }
}

// NewLimiter allows limit hits per key in each window.
func NewLimiter(store Store, limit int, window time.Duration, opts ...LimiterOption) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidWindow
	}

	l := &Limiter{store: store, limit: limit, window: window}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow records a hit for key and reports whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if key == "" {
		return Result{}, ErrKeyRequired
	}

	count, resetAt, err := l.store.Increment(ctx, l.prefix+key, l.window)
	if err != nil {
		return Result{}, errors.Join(ErrStoreFailed, err)
	}

	return Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: int(max(int64(l.limit)-count, 0)),
		ResetAt:   resetAt,
	}, nil
}
