package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares counters between replicas.
type RedisStore struct {
	db  redis.UniversalClient
	now func() time.Time
}

// NewRedisStore returns a Store backed by client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{db: client, now: time.Now}
}

// Increment runs INCR, PEXPIRE NX and PTTL in one MULTI block so the
// expiry is set exactly once, by the first hit of the window.
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Do(ctx, "pexpire", key, window.Milliseconds(), "nx")
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		// -1 (no expiry) can only follow a lost PEXPIRE; report a full window.
		remaining = window
	}
	return incr.Val(), s.now().Add(remaining), nil
}
