package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler { return h }

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestLogRegistration(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogRegistration(logger, "shared", "postgres")

	rec := h.getLastRecord()
	require.NotNil(t, rec)
	assert.Equal(t, "constructor registered", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "shared", rec["mode"])
	assert.Equal(t, "postgres", rec["key"])
}

func TestLogRegistrationError(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogRegistrationError(logger, "value", "bad", errors.New("type not convertible"))

	rec := h.getLastRecord()
	require.NotNil(t, rec)
	assert.Equal(t, "registration rejected", rec["msg"])
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "type not convertible", rec["error"])
}

func TestLogCreation(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCreation(logger, "ptr", "circle", 1.25)

	rec := h.getLastRecord()
	require.NotNil(t, rec)
	assert.Equal(t, "instance created", rec["msg"])
	assert.Equal(t, "ptr", rec["mode"])
	assert.Equal(t, "circle", rec["key"])
	assert.Equal(t, 1.25, rec["duration_ms"])
}

func TestLogCreationError(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCreationError(logger, "unique", "conn", errors.New("dial failed"))

	rec := h.getLastRecord()
	require.NotNil(t, rec)
	assert.Equal(t, "creation failed", rec["msg"])
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "dial failed", rec["error"])
}

func TestLogFallback(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogFallback(logger, "shared", 4, true, 0.5)

	rec := h.getLastRecord()
	require.NotNil(t, rec)
	assert.Equal(t, "fallback creation finished", rec["msg"])
	assert.Equal(t, "shared", rec["mode"])
	assert.Equal(t, float64(4), rec["attempts"])
	assert.Equal(t, true, rec["success"])
}

func TestLoggingHelpers_NilLogger(t *testing.T) {
	// Every helper must tolerate a nil logger.
	assert.NotPanics(t, func() {
		LogRegistration(nil, "value", "k")
		LogRegistrationError(nil, "value", "k", errors.New("e"))
		LogCreation(nil, "value", "k", 1.0)
		LogCreationError(nil, "value", "k", errors.New("e"))
		LogFallback(nil, "value", 0, false, 0)
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, 0.0)

	// Each call reports elapsed time since the same start.
	assert.GreaterOrEqual(t, done(), elapsed)
}
