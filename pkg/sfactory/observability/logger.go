// Package observability provides opt-in observability for sfactory:
// structured logging via slog and metrics via OpenTelemetry.
//
// All features have no-op behavior when disabled: every logging helper
// tolerates a nil logger, and NoopRecorder satisfies Recorder without
// touching any metrics pipeline.
package observability

import (
	"log/slog"
	"time"
)

// LogRegistration logs a successful constructor registration.
func LogRegistration(logger *slog.Logger, mode, key string) {
	if logger == nil {
		return
	}
	logger.Debug("constructor registered",
		slog.String("mode", mode),
		slog.String("key", key),
	)
}

// LogRegistrationError logs a rejected registration.
func LogRegistrationError(logger *slog.Logger, mode, key string, err error) {
	if logger == nil {
		return
	}
	logger.Error("registration rejected",
		slog.String("mode", mode),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// LogCreation logs a successful creation call.
func LogCreation(logger *slog.Logger, mode, key string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("instance created",
		slog.String("mode", mode),
		slog.String("key", key),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCreationError logs a failed creation call.
func LogCreationError(logger *slog.Logger, mode, key string, err error) {
	if logger == nil {
		return
	}
	logger.Error("creation failed",
		slog.String("mode", mode),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// LogFallback logs the outcome of a fallback (try-all) creation call.
func LogFallback(logger *slog.Logger, mode string, attempts int, success bool, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("fallback creation finished",
		slog.String("mode", mode),
		slog.Int("attempts", attempts),
		slog.Bool("success", success),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000.0
	}
}
