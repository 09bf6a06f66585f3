package subscription

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the billing state of a subscription as reported by the
// payment provider.
type Status string

const (
	StatusActive     Status = "active"
	StatusTrialing   Status = "trialing"
	StatusPastDue    Status = "past_due"
	StatusCanceled   Status = "canceled"
	StatusIncomplete Status = "incomplete"
	StatusUnpaid     Status = "unpaid"
)

// ParseStatus normalizes a stored status. The British "cancelled" spelling
// maps to StatusCanceled; unknown values are kept as-is and never count as
// active.
func ParseStatus(s string) Status {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == "cancelled" {
		return StatusCanceled
	}
	return st
}

// Subscription is the billing record of an organization.
type Subscription struct {
	ID               uuid.UUID
	OrganizationID   uuid.UUID
	PlanID           string // raw stored value, validated with ParsePlanID
	Status           Status
	CurrentPeriodEnd *time.Time
	CreatedAt        time.Time
}

// IsSubscriptionActive reports whether sub grants its plan at now: the
// status is active or trialing and the current period has no end or ends
// strictly after now.
func IsSubscriptionActive(sub *Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	switch sub.Status {
	case StatusActive, StatusTrialing:
	default:
		return false
	}
	return sub.CurrentPeriodEnd == nil || sub.CurrentPeriodEnd.After(now)
}
