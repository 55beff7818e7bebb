package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestProviderRecordsSampledSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewProvider(1, sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = Shutdown(context.Background(), tp) })

	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := Tracer(tp).Start(context.Background(), "tmdb GET /trending/movie/week")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tmdb GET /trending/movie/week", ended[0].Name())
	assert.Equal(t, InstrumentationName, ended[0].InstrumentationScope().Name)
}

func TestZeroRatioDropsRootSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewProvider(0, sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = Shutdown(context.Background(), tp) })

	_, span := Tracer(tp).Start(context.Background(), "deezer GET /chart/0/tracks")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	assert.Empty(t, recorder.Ended())
}

func TestShutdownStopsRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewProvider(1, sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, Shutdown(context.Background(), tp))

	_, span := Tracer(tp).Start(context.Background(), "after shutdown")
	span.End()

	assert.Empty(t, recorder.Ended())
}
