// Package logger builds slog loggers and provides attribute helpers that keep
// key names consistent across the queue, its storage backends and the CLI.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or JSON), minimum level, destination and static attributes.
// WithEnvironment picks sensible defaults for development (text, debug) and
// production (JSON, info).
//
//	log := logger.New(logger.WithEnvironment("production", "offlineq"))
//	log.Info("operation dispatched",
//	    logger.Queue("uploads"),
//	    logger.OperationID("upload_photo"),
//	)
//
// Helpers such as Error return an empty attribute for nil input, which slog
// drops, so callers need no nil checks:
//
//	log.Warn("save finished", logger.Error(err))
package logger
