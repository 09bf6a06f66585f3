package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/config"
	"github.com/dmitrymomot/cantera/pkg/httpserver"
	"github.com/dmitrymomot/cantera/pkg/limits"
	"github.com/dmitrymomot/cantera/pkg/pg"
	"github.com/dmitrymomot/cantera/pkg/ratelimit"
	"github.com/dmitrymomot/cantera/pkg/redis"
)

// appConfig holds process settings. TrustProxy makes client IP resolution
// honour forwarding headers.
type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Name           string        `env:"APP_NAME" envDefault:"cantera"`
	LogLevel       string        `env:"LOG_LEVEL"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`
	TrustProxy     bool          `env:"HTTP_TRUST_PROXY" envDefault:"false"`
}

// settings groups every package config the service needs.
type settings struct {
	App       appConfig
	HTTP      httpserver.Config
	Postgres  pg.Config
	Redis     redis.Config
	Auth      auth.Config
	Limits    limits.Config
	RateLimit ratelimit.Config
}

func loadSettings() (settings, error) {
	var s settings
	for _, load := range []func() error{
		func() error { return config.Load(&s.App) },
		func() error { return config.Load(&s.HTTP) },
		func() error { return config.Load(&s.Postgres) },
		func() error { return config.Load(&s.Redis) },
		func() error { return config.Load(&s.Auth) },
		func() error { return config.Load(&s.Limits) },
		func() error { return config.Load(&s.RateLimit) },
	} {
		if err := load(); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

// logLevel parses LOG_LEVEL; ok is false when it is unset.
func (c appConfig) logLevel() (slog.Level, bool, error) {
	if c.LogLevel == "" {
		return 0, false, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, false, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, true, nil
}
