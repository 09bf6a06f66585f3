// Package auth verifies access tokens issued by the external auth provider
// and exposes the resulting Principal through the request context.
//
// Sign-in, sessions and token refresh live in the provider; this package
// only validates HS256 tokens (signature, exp/nbf, issuer, audience) with
// golang-jwt and maps the "sub", "email" and "role" claims. The full claim
// set is kept on the Principal so that the row store can replay it into
// PostgreSQL for row-level security.
package auth
