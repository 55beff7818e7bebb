package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used by the catalog clients
const InstrumentationName = "github.com/amaumene/mediagate"

// NewProvider creates a tracer provider sampling the given ratio of root
// spans and installs it as the global provider
func NewProvider(sampleRatio float64, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	}, opts...)

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}

// Tracer returns the catalog tracer from tp
func Tracer(tp trace.TracerProvider) trace.Tracer {
	return tp.Tracer(InstrumentationName)
}

// Shutdown flushes and stops tp
func Shutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	return tp.Shutdown(ctx)
}
