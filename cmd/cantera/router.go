package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gate "github.com/dmitrymomot/cantera/modules/limits"
	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/clientip"
	"github.com/dmitrymomot/cantera/pkg/environment"
	"github.com/dmitrymomot/cantera/pkg/httpserver"
	"github.com/dmitrymomot/cantera/pkg/limits"
	"github.com/dmitrymomot/cantera/pkg/ratelimit"
	"github.com/dmitrymomot/cantera/pkg/requestid"
	"github.com/dmitrymomot/cantera/pkg/subscription"
	"github.com/dmitrymomot/cantera/pkg/tenant"
)

// routerDeps are the wired services behind the HTTP surface.
type routerDeps struct {
	Env            environment.Environment
	TrustProxy     bool
	Logger         *slog.Logger
	RequestTimeout time.Duration
	Verifier       *auth.Verifier
	Plans          *subscription.PlanResolver
	Checker        *limits.Checker
	Limiter        *ratelimit.Limiter
	Gatherer       prometheus.Gatherer
	Ready          []httpserver.Check
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		environment.Middleware(d.Env),
		clientip.Middleware(d.TrustProxy),
		middleware.Recoverer,
	)

	r.Get("/health/live", httpserver.HealthCheckHandler(d.Logger))
	r.Get("/health/ready", httpserver.HealthCheckHandler(d.Logger, d.Ready...))
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.RequestTimeout))
		}
		r.Use(
			auth.Middleware(d.Verifier),
			// Throttle before the tenant and plan lookups hit the database.
			ratelimit.Middleware(d.Limiter, ratelimit.PrincipalKey, ratelimit.WithMiddlewareLogger(d.Logger)),
			tenant.Middleware,
			subscription.Middleware,
		)
		r.Mount("/limits", gate.Router(gate.RouterOptions{
			Checker: d.Checker,
			Plans:   d.Plans,
			Logger:  d.Logger,
		}))
	})

	return r
}
