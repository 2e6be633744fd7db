package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// createContextWithSpan starts a recording span on a throwaway SDK provider
func createContextWithSpan(t *testing.T) (context.Context, trace.Span) {
	t.Helper()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return tp.Tracer("test-tracer").Start(context.Background(), "statistics.pass")
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-123")
	enriched.Info("served")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "req-123", recorded.All()[0].ContextMap()["request_id"])
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestWithTraceContext(t *testing.T) {
	t.Run("no span returns the same logger", func(t *testing.T) {
		l := zap.NewNop()

		assert.Same(t, l, WithTraceContext(context.Background(), l))
	})

	t.Run("invalid span context returns the same logger", func(t *testing.T) {
		l := zap.NewNop()
		ctx := trace.ContextWithSpanContext(context.Background(), trace.SpanContext{})

		assert.Same(t, l, WithTraceContext(ctx, l))
	})

	t.Run("span adds trace and span IDs", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx, span := createContextWithSpan(t)
		defer span.End()

		WithTraceContext(ctx, zap.New(core)).Info("pass published")

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
		assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("WithLogger tags every level with the request ID", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")

		cl := WithLogger(ctx, zap.New(core))
		cl.Debug("debug")
		cl.Info("info")
		cl.Error("error")

		logs := recorded.All()
		require.Len(t, logs, 3)
		for _, entry := range logs {
			assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
		}
	})

	t.Run("WithLogger tags request and trace IDs", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx, span := createContextWithSpan(t)
		defer span.End()
		ctx, _ = WithRequestID(ctx, zap.NewNop(), "req-2")

		WithLogger(ctx, zap.New(core)).Info("statistics served", zap.Int("sales", 3))

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "req-2", fields["request_id"])
		assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
		assert.Equal(t, int64(3), fields["sales"])
	})

	t.Run("without a request ID no field is added", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		WithLogger(context.Background(), zap.New(core)).Info("pass started")

		_, ok := recorded.All()[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})

	t.Run("WithLogger accepts nil", func(t *testing.T) {
		assert.NotPanics(t, func() {
			WithLogger(context.Background(), nil).Info("dropped")
		})
	})
}
