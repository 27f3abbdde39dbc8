package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitTracer_InstallsGlobalProvider(t *testing.T) {
	ctx := context.Background()
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, err := InitTracer(ctx, "inventory-test", "http://127.0.0.1:1/api/traces")
	require.NoError(t, err)

	_, ok := tp.(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.Same(t, tp, otel.GetTracerProvider())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	// nothing was recorded, so shutdown does not need the collector
	require.NoError(t, Shutdown(ctx, tp))
}

func TestShutdown_IgnoresForeignProviders(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background(), noop.NewTracerProvider()))
}
