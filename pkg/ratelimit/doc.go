// Package ratelimit throttles requests with fixed windows.
//
// Every limit check behind /limits runs live count queries, so callers are
// capped per user (or per IP for anonymous traffic). Counters live in
// memory for a single replica or in Redis when replicas share the budget.
//
//	limiter, err := ratelimit.NewFromConfig(cfg, redisClient)
//	r.Use(ratelimit.Middleware(limiter, ratelimit.PrincipalKey))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset, answers 429 with a JSON body once the window is
// exhausted and fails open when the store errors.
package ratelimit
