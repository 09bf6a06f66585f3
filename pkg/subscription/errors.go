package subscription

import "errors"

var (
	// ErrSubscriptionNotFound is returned by stores when an organization has
	// no subscription row.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrOrganizationNotFound is returned by stores when the organization row
	// is missing or not visible to the caller.
	ErrOrganizationNotFound = errors.New("organization not found")
)
