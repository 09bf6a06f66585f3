package tenant

import "errors"

// ErrOrganizationNotFound is returned by stores when the principal has no
// profile or the profile has no organization.
var ErrOrganizationNotFound = errors.New("tenant: organization not found")
