// Package subscription owns the plan catalog and the rules deciding which
// plan a tenant is on.
//
// # Catalog
//
// The four tiers (free, starter, profesional, business) map to compile-time
// PlanLimits. Caps are monotonic across tiers and Unlimited (-1) means no
// cap. GetPlanLimits is total: an unknown id yields the free tier.
//
// # Resolution
//
// PlanResolver.GetUserPlan applies, in order:
//
//  1. no tenant: free
//  2. an active subscription (status active or trialing, period end absent
//     or after now) with a valid plan id: that plan
//  3. the organization's stored plan, when valid
//  4. free
//
// Store failures are logged and fall through to the next step; resolution
// never fails a request. Expired subscriptions get no grace period.
package subscription
