// Package store is the PostgreSQL row store behind tenant resolution,
// subscription lookup and usage counting.
//
// Queries run through pgx inside read-only transactions that carry the
// caller's JWT claims (request.jwt.claims) and role, so Supabase row-level
// security policies apply exactly as they would for the client. A request
// without an authenticated principal never reaches the database.
//
// Usage:
//
//	db := store.NewPostgres(pool)
//	resolver := tenant.NewResolver(db, log)
//	checker := limits.NewChecker(resolver, plans, db)
package store
