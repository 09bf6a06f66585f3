package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cantera/pkg/subscription"
)

func ptr(t time.Time) *time.Time { return &t }

type activeCase struct {
	name   string
	sub    *subscription.Subscription
	active bool
}

func TestIsSubscriptionActive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)
	past := now.Add(-time.Nanosecond)
	future := now.Add(24 * time.Hour)

	tests := []activeCase{
		{name: "nil", sub: nil, active: false},
		{name: "active without period end", sub: &subscription.Subscription{Status: subscription.StatusActive}, active: true},
		{name: "trialing without period end", sub: &subscription.Subscription{Status: subscription.StatusTrialing}, active: true},
		{name: "active with future end", sub: &subscription.Subscription{Status: subscription.StatusActive, CurrentPeriodEnd: ptr(future)}, active: true},
		{name: "trialing with future end", sub: &subscription.Subscription{Status: subscription.StatusTrialing, CurrentPeriodEnd: ptr(future)}, active: true},
		{name: "active with past end", sub: &subscription.Subscription{Status: subscription.StatusActive, CurrentPeriodEnd: ptr(past)}, active: false},
		{name: "trialing with past end", sub: &subscription.Subscription{Status: subscription.StatusTrialing, CurrentPeriodEnd: ptr(past)}, active: false},
		{name: "active ending exactly now", sub: &subscription.Subscription{Status: subscription.StatusActive, CurrentPeriodEnd: ptr(now)}, active: false},
	}

	for _, status := range []subscription.Status{
		subscription.StatusPastDue,
		subscription.StatusCanceled,
		subscription.StatusIncomplete,
		subscription.StatusUnpaid,
		subscription.Status("paused"),
		subscription.Status(""),
	} {
		tests = append(tests,
			activeCase{name: string(status) + " without end", sub: &subscription.Subscription{Status: status}, active: false},
			activeCase{name: string(status) + " with future end", sub: &subscription.Subscription{Status: status, CurrentPeriodEnd: ptr(future)}, active: false},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.active, subscription.IsSubscriptionActive(tt.sub, now))
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, subscription.StatusActive, subscription.ParseStatus(" Active "))
	assert.Equal(t, subscription.StatusCanceled, subscription.ParseStatus("cancelled"))
	assert.Equal(t, subscription.StatusCanceled, subscription.ParseStatus("canceled"))
	assert.Equal(t, subscription.Status("paused"), subscription.ParseStatus("paused"))
}
