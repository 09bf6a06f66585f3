package limits

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cantera/pkg/logger"
)

// RouterOptions configures the limits module. Checker and Plans are
// required.
type RouterOptions struct {
	Checker Checker
	Plans   PlanResolver
	Logger  *slog.Logger
}

// Router creates the limits gate. Authentication, tenant and plan
// resolution are expected to run as middleware in front of it.
//
// Example:
//
//	r := chi.NewRouter()
//	r.With(auth.Middleware(verifier), tenant.Middleware, subscription.Middleware).
//		Mount("/limits", limits.Router(limits.RouterOptions{
//			Checker: checker,
//			Plans:   plans,
//			Logger:  log,
//		}))
func Router(opts RouterOptions) chi.Router {
	if opts.Checker == nil || opts.Plans == nil {
		panic("limits.Router: Checker and Plans are required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	h := &handler{
		checker: opts.Checker,
		plans:   opts.Plans,
		logger:  opts.Logger.With(logger.Component("limits")),
	}

	r := chi.NewRouter()
	r.Post("/check", h.check)
	r.Get("/test", h.test)
	return r
}
