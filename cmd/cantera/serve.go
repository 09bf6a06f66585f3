package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	_ "time/tzdata" // LIMITS_TIMEZONE must resolve in minimal containers.

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/clientip"
	"github.com/dmitrymomot/cantera/pkg/environment"
	"github.com/dmitrymomot/cantera/pkg/httpserver"
	"github.com/dmitrymomot/cantera/pkg/limits"
	"github.com/dmitrymomot/cantera/pkg/logger"
	"github.com/dmitrymomot/cantera/pkg/pg"
	"github.com/dmitrymomot/cantera/pkg/ratelimit"
	"github.com/dmitrymomot/cantera/pkg/redis"
	"github.com/dmitrymomot/cantera/pkg/requestid"
	"github.com/dmitrymomot/cantera/pkg/store"
	"github.com/dmitrymomot/cantera/pkg/subscription"
	"github.com/dmitrymomot/cantera/pkg/tenant"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the limits HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	env := environment.Parse(cfg.App.Env)
	logOpts := []logger.Option{
		logger.WithEnvironment(env, cfg.App.Name),
		logger.WithOutput(os.Stdout),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			auth.LoggerExtractor(),
			tenant.LoggerExtractor(),
			subscription.LoggerExtractor(),
		),
	}
	lvl, ok, err := cfg.App.logLevel()
	if err != nil {
		return err
	}
	if ok {
		logOpts = append(logOpts, logger.WithLevel(lvl))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	loc, err := cfg.Limits.Location()
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifierFromConfig(cfg.Auth)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	ready := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	var rdb goredis.UniversalClient
	if cfg.RateLimit.Backend == ratelimit.BackendRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		rdb = client
		ready = append(ready, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	limiter, err := ratelimit.NewFromConfig(cfg.RateLimit, rdb)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db := store.NewPostgres(pool)
	tenants := tenant.NewResolver(db, log.With(logger.Component("tenant")))
	plans := subscription.NewPlanResolver(tenants, db, db,
		subscription.WithLogger(log.With(logger.Component("subscription"))),
	)
	checker := limits.NewChecker(tenants, plans, db,
		limits.WithLocation(loc),
		limits.WithLogger(log.With(logger.Component("limits"))),
		limits.WithMetrics(limits.NewMetrics(reg)),
	)

	handler := newRouter(routerDeps{
		Env:            env,
		TrustProxy:     cfg.App.TrustProxy,
		Logger:         log,
		RequestTimeout: cfg.App.RequestTimeout,
		Verifier:       verifier,
		Plans:          plans,
		Checker:        checker,
		Limiter:        limiter,
		Gatherer:       reg,
		Ready:          ready,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("cantera started",
				slog.String("version", Version),
				slog.String("timezone", loc.String()),
				slog.String("ratelimit", cfg.RateLimit.Backend),
			)
		}),
	)
	if err := srv.Run(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
