// Package logger builds log/slog loggers and provides attribute helpers for
// the request pipeline.
//
//	log := logger.New(logger.WithProduction("api"))
//	log.InfoContext(ctx, "request completed",
//		logger.Method("GET"),
//		logger.Path("/users/42"),
//		logger.StatusCode(200),
//		logger.LatencyMS(elapsed),
//	)
//
// Loggers created by New wrap their handler in a ContextHandler, so a
// request id stored with WithRequestID is added to every record logged
// through the *Context methods. Additional extractors can be supplied with
// WithContextExtractors.
//
// Config carries env tags (LOG_LEVEL, LOG_FORMAT, SERVICE_NAME,
// LOG_ADD_SOURCE) for use with core/config and is applied with WithConfig.
//
// Attribute helpers return the empty slog.Attr for missing values, which
// slog omits from output.
package logger
