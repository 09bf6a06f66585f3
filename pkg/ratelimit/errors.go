package ratelimit

import "errors"

var (
	ErrInvalidLimit   = errors.New("ratelimit: limit must be positive")
	ErrInvalidWindow  = errors.New("ratelimit: window must be positive")
	ErrKeyRequired    = errors.New("ratelimit: key is required")
	ErrStoreRequired  = errors.New("ratelimit: store is required")
	ErrStoreFailed    = errors.New("ratelimit: store failed")
	ErrUnknownBackend = errors.New("ratelimit: unknown backend")
	ErrRedisRequired  = errors.New("ratelimit: redis client is required for the redis backend")
)
