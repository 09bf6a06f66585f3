// Package limits decides whether the current tenant may perform a gated
// action under its subscription plan.
//
// Counting actions (create_cantera, add_cliente, register_produccion,
// register_venta, add_user) compare a live usage count with the plan cap:
// the action is allowed while current < max, or always when the cap is
// subscription.Unlimited. Production and sales are counted for the current
// calendar month in the configured location. Export actions (export_pdf,
// export_excel) are plan feature flags.
//
// A request without an organization is denied with a reason; it is never
// treated as uncapped. A failing usage count is returned as an error
// wrapping ErrFailedToCountUsage so that callers can tell "not permitted"
// apart from "could not determine".
//
// Checks are advisory: two concurrent requests may both pass at max-1.
//
//	checker := limits.NewChecker(tenants, plans, store,
//		limits.WithLocation(loc),
//		limits.WithMetrics(limits.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	d, err := checker.CanCreateCantera(ctx)
package limits
