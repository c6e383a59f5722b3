package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/geo/internal/logging"
)

const tracerName = "github.com/annel0/geo"

// Shutdown flushes and stops a tracer provider.
type Shutdown func(context.Context) error

// InitTelemetry exports spans over OTLP/HTTP to endpoint and installs the
// global TracerProvider.
func InitTelemetry(ctx context.Context, serviceName, endpoint string) (Shutdown, error) {
	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	shutdown, err := InitWithExporter(ctx, serviceName, sdktrace.WithBatcher(exp))
	if err != nil {
		return nil, err
	}
	logging.Info("OpenTelemetry initialized (OTLP -> %s, service=%s)", endpoint, serviceName)
	return shutdown, nil
}

// InitWithExporter installs a TracerProvider using the given span processor
// option, for example sdktrace.WithSyncer in tests.
func InitWithExporter(ctx context.Context, serviceName string, processor sdktrace.TracerProviderOption) (Shutdown, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// Tracer returns the tracer of the module from the global provider. Without
// InitTelemetry it is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Start opens a span on the module tracer.
func Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}
