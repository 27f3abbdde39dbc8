package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInitWithWriter_JSONCarriesServiceAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("inventory-test", false, &buf)
	SetLevel("info")
	defer SetLevel("info")

	Info(context.Background()).Str("product_id", "7").Msg("stock adjusted")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inventory-test", entry["service"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "stock adjusted", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestSetLevel_FiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("inventory-test", false, &buf)
	SetLevel("warn")
	defer SetLevel("info")

	Info(context.Background()).Msg("hidden")
	assert.Zero(t, buf.Len())

	Warn(context.Background()).Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetLevel_ParsesNamesAndFallsBackToInfo(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" ERROR ", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SetLevel(tt.in), tt.in)
		assert.Equal(t, tt.want, zerolog.GlobalLevel(), tt.in)
	}
}

func TestWithContext_AddsRequestAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("inventory-test", false, &buf)
	SetLevel("info")

	traceID := trace.TraceID{0x01, 0x02, 0x03}
	spanID := trace.SpanID{0x0a}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	ctx = ContextWithRequestID(ctx, "req-42")

	Error(ctx).Msg("sale failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, traceID.String(), entry["trace_id"])
	assert.Equal(t, spanID.String(), entry["span_id"])
}

func TestWithContext_PlainContextHasNoIDs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("inventory-test", false, &buf)
	SetLevel("info")

	Info(context.Background()).Msg("startup")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "trace_id")
	assert.Empty(t, RequestID(context.Background()))
}
