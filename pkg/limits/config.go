package limits

import (
	"errors"
	"time"
)

// Config holds the checker settings read from the environment.
type Config struct {
	// Timezone decides where monthly windows start, e.g. "America/Santiago".
	Timezone string `env:"LIMITS_TIMEZONE" envDefault:"UTC"`
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimezone, err)
	}
	return loc, nil
}
