// Package logger provides structured logging for the vectorbroker service.
//
// The package wraps Uber's zap behind a small, stable surface so that the
// rest of the broker never imports zap directly.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Logger interface: the contract other packages depend on
//   - LoggerClient struct: the zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient
//   - FXModule: provides both *LoggerClient and the Logger interface
//
// # Direct Usage (Without FX)
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "vectorbroker",
//	})
//
//	log.Info("query received", nil, map[string]interface{}{
//		"namespace": "docs",
//		"top_k":     5,
//	})
//
// # Context-Aware Logging
//
// When EnableTracing is set, the *WithContext methods extract the active
// OpenTelemetry span from the context and add trace_id and span_id fields:
//
//	log.ErrorWithContext(ctx, "search failed", err, map[string]interface{}{
//		"stage": "search",
//	})
//
// # Secrets
//
// Never pass credential values as fields. Configuration is reported with
// presence booleans only (see the config package).
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true      # attach trace/span ids to context logs
//	LOGGER_SERVICE_NAME=vectorbroker
//
// All methods on Logger are safe for concurrent use.
package logger
