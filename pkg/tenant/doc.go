// Package tenant resolves the organization (tenant) that owns the data of
// an authenticated principal.
//
// The primary lookup is the database RPC get_user_organization_id_helper(),
// evaluated under the caller's row-level security identity; when it yields
// nothing the principal's profile row is consulted. A principal without an
// organization is not an error: OrganizationID reports ok=false and callers
// fall back to the most restrictive behaviour.
//
// Middleware scopes the lookup to the request: it runs on first use and the
// outcome, including a negative one, is reused until the request ends.
package tenant
