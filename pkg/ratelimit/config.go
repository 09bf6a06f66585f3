package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted in RATELIMIT_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendOff    = "off"
)

// Config selects and sizes the request limiter.
type Config struct {
	Backend string        `env:"RATELIMIT_BACKEND" envDefault:"memory"`
	Limit   int           `env:"RATELIMIT_LIMIT" envDefault:"120"`
	Window  time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`
	Prefix  string        `env:"RATELIMIT_PREFIX" envDefault:"cantera:rl:"`
}

// NewFromConfig builds the limiter selected by cfg.Backend. It returns a
// nil Limiter for the "off" backend, which Middleware treats as a no-op.
// client is only used by the redis backend.
func NewFromConfig(cfg Config, client redis.UniversalClient) (*Limiter, error) {
	var store Store
	switch cfg.Backend {
	case BackendOff:
		return nil, nil
	case BackendMemory, "":
		store = NewMemoryStore()
	case BackendRedis:
		if client == nil {
			return nil, ErrRedisRequired
		}
		store = NewRedisStore(client)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	return NewLimiter(store, cfg.Limit, cfg.Window, WithPrefix(cfg.Prefix))
}
