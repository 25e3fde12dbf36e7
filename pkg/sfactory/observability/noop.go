package observability

import (
	"context"
	"time"
)

// NoopRecorder is a Recorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopRecorder struct{}

// Compile-time interface check.
var _ Recorder = NoopRecorder{}

// RecordRegistration does nothing.
func (NoopRecorder) RecordRegistration(_ context.Context, _ string) {}

// RecordCreation does nothing.
func (NoopRecorder) RecordCreation(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordFallback does nothing.
func (NoopRecorder) RecordFallback(_ context.Context, _ string, _ int, _ bool) {}
