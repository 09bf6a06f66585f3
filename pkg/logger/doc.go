// Package logger builds log/slog loggers for the service.
//
// New returns a *slog.Logger configured through functional options. The
// handler is wrapped in LogHandlerDecorator, which runs the registered
// ContextExtractor functions on every record; that is how request ids,
// environment, principal and tenant ids end up on log lines without being
// passed around explicitly:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "cantera"),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			tenant.LoggerExtractor(),
//		),
//	)
//	log.InfoContext(ctx, "limit checked", logger.Action("create_cantera"))
//
// The attr helpers (Error, OrganizationID, Plan, ...) keep attribute keys
// consistent across packages.
package logger
