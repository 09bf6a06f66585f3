package limits

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cantera/pkg/subscription"
)

// Window is a half-open time range [From, To). The zero Window means all
// time.
type Window struct {
	From time.Time
	To   time.Time
}

// IsZero reports an unbounded window.
func (w Window) IsZero() bool { return w.From.IsZero() && w.To.IsZero() }

// MonthWindow returns the calendar month containing now, evaluated in loc.
func MonthWindow(now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	t := now.In(loc)
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

// UsageCounter counts the tenant's existing rows of a resource.
type UsageCounter interface {
	Count(ctx context.Context, organizationID uuid.UUID, r subscription.Resource, w Window) (int64, error)
}

// CounterFunc adapts a function to UsageCounter.
type CounterFunc func(ctx context.Context, organizationID uuid.UUID, r subscription.Resource, w Window) (int64, error)

// Count calls f.
func (f CounterFunc) Count(ctx context.Context, organizationID uuid.UUID, r subscription.Resource, w Window) (int64, error) {
	return f(ctx, organizationID, r, w)
}
