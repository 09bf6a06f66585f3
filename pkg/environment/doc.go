// Package environment carries the deployment environment (development,
// staging, production) through context.Context so handlers can switch off
// diagnostics in production without global state.
//
// Attach it once at the router:
//
//	r.Use(environment.Middleware(environment.Parse(cfg.AppEnv)))
//
// and query it anywhere downstream:
//
//	if environment.IsProduction(r.Context()) {
//		// hide diagnostics
//	}
package environment
