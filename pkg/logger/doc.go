// Package logger builds the structured loggers used by the uploader and its
// command line tools.
//
// Loggers are plain *slog.Logger values. Two additions sit on top of log/slog:
// context extractors, which copy request- or batch-scoped values from the
// context into every record, and optional Sentry fan-out for warnings and
// errors.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"})
//
//	ctx = logger.WithBatch(ctx, batchID)
//	log.InfoContext(ctx, "batch started", slog.Int("files", 3))
//	// level=INFO msg="batch started" files=3 batch_id=0190...
//
// BatchExtractor is always installed by New; pass more extractors to add
// other context values.
//
// # Sentry
//
// When Config.SentryDSN is set, records at warn and above are also sent to
// Sentry (errors become issues). An empty DSN or a failed Sentry init falls
// back to stdout only, so the same code path works locally.
//
// # Discarding
//
// NewNope returns a logger that drops everything; components use it when no
// logger is configured.
package logger
