package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records factory metrics.
// Use NewRecorder() for OTel metrics or NoopRecorder{} when disabled.
type Recorder interface {
	// RecordRegistration records a constructor registration for an ownership mode.
	RecordRegistration(ctx context.Context, mode string)

	// RecordCreation records a direct creation call with its duration and error status.
	RecordCreation(ctx context.Context, mode string, duration time.Duration, err error)

	// RecordFallback records a fallback (try-all) creation call.
	RecordFallback(ctx context.Context, mode string, attempts int, success bool)
}

// otelRecorder implements Recorder using OpenTelemetry.
type otelRecorder struct {
	registrations    metric.Int64Counter
	creations        metric.Int64Counter
	creationLatency  metric.Float64Histogram
	creationErrors   metric.Int64Counter
	fallbackAttempts metric.Int64Histogram
}

var (
	defaultRecorder     *otelRecorder
	defaultRecorderOnce sync.Once
	defaultRecorderErr  error
)

// getDefaultRecorder returns the default OTel recorder instance.
// Lazily initializes the instruments on first call.
func getDefaultRecorder() (*otelRecorder, error) {
	defaultRecorderOnce.Do(func() {
		defaultRecorder, defaultRecorderErr = newOtelRecorder()
	})
	return defaultRecorder, defaultRecorderErr
}

// newOtelRecorder creates a new OTel recorder instance.
func newOtelRecorder() (*otelRecorder, error) {
	meter := otel.Meter("sfactory")

	registrations, err := meter.Int64Counter("sfactory.registrations",
		metric.WithDescription("Number of constructor registrations"),
	)
	if err != nil {
		return nil, err
	}

	creations, err := meter.Int64Counter("sfactory.creations",
		metric.WithDescription("Number of direct creation calls"),
	)
	if err != nil {
		return nil, err
	}

	creationLatency, err := meter.Float64Histogram("sfactory.creation.latency_ms",
		metric.WithDescription("Creation call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	creationErrors, err := meter.Int64Counter("sfactory.creation.errors",
		metric.WithDescription("Number of failed creation calls"),
	)
	if err != nil {
		return nil, err
	}

	fallbackAttempts, err := meter.Int64Histogram("sfactory.fallback.attempts",
		metric.WithDescription("Constructors attempted per fallback creation call"),
	)
	if err != nil {
		return nil, err
	}

	return &otelRecorder{
		registrations:    registrations,
		creations:        creations,
		creationLatency:  creationLatency,
		creationErrors:   creationErrors,
		fallbackAttempts: fallbackAttempts,
	}, nil
}

// NewRecorder returns a Recorder that uses OpenTelemetry.
// If instrument initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewRecorder() Recorder {
	r, err := getDefaultRecorder()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopRecorder{}
	}
	return r
}

// RecordRegistration records a constructor registration.
func (r *otelRecorder) RecordRegistration(ctx context.Context, mode string) {
	r.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

// RecordCreation records a direct creation call.
func (r *otelRecorder) RecordCreation(ctx context.Context, mode string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("mode", mode),
	}

	r.creations.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.creationLatency.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))

	if err != nil {
		r.creationErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordFallback records a fallback creation call.
func (r *otelRecorder) RecordFallback(ctx context.Context, mode string, attempts int, success bool) {
	r.fallbackAttempts.Record(ctx, int64(attempts), metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("success", success),
	))
}
