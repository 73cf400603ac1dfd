package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, zapcore.AddSync(&buf))

	logger.Warn("room lookup failed", "room_num", "123", "error", errors.New("boom"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "room lookup failed", entry["msg"])
	assert.Equal(t, "123", entry["room_num"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelWarn, zapcore.AddSync(&buf))

	logger.Info("ignored")
	assert.Zero(t, buf.Len())
}

func TestLogger_AddsTraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, zapcore.AddSync(&buf))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "http request")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestLogger_OddArgsAndNilReceiver(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, zapcore.AddSync(&buf))
	logger.Info("odd", "dangling")

	entry := decodeLine(t, &buf)
	_, ok := entry["dangling"]
	assert.True(t, ok)

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Info("no-op") })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLogger_MirrorReceivesEnabledEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, zapcore.AddSync(&buf))

	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.Debug("dropped")
	logger.Info("kept", "date", "20250115")

	assert.Equal(t, []string{"info:kept"}, got)
}
