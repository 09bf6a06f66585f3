package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Store reads subscription records.
type Store interface {
	// LatestSubscription returns the most recently created subscription of
	// the organization or ErrSubscriptionNotFound.
	LatestSubscription(ctx context.Context, organizationID uuid.UUID) (*Subscription, error)
}

// OrganizationStore reads the plan column of the organization record, the
// legacy fallback signal used when no active subscription exists.
type OrganizationStore interface {
	OrganizationPlan(ctx context.Context, organizationID uuid.UUID) (string, error)
}

// OrganizationResolver resolves the tenant of the current request.
type OrganizationResolver interface {
	OrganizationID(ctx context.Context) (uuid.UUID, bool)
}
