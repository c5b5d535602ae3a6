package otel

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/contrib/detectors/aws/ecs"
	otelxray "go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// SetupTracer installs a global tracer provider that exports to the local
// OTLP collector with X-Ray compatible ids and propagation. The returned
// function flushes and stops the provider.
func SetupTracer(ctx context.Context, svcName string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure(), otlptracegrpc.WithDialOption(grpc.WithBlock()))
	if err != nil {
		return nil, fmt.Errorf("create otel trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(serviceResource(ctx, svcName)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithIDGenerator(otelxray.NewIDGenerator()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(otelxray.Propagator{})
	return tp.Shutdown, nil
}

// serviceResource names the service and, when running on ECS, adds the
// task and container attributes.
func serviceResource(ctx context.Context, svcName string) *resource.Resource {
	r := resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceNameKey.String(svcName))

	detected, err := ecs.NewResourceDetector().Detect(ctx)
	if err != nil {
		log.Printf("skipping ecs resource detection: %s", err)
		return r
	}
	if detected == nil {
		return r
	}

	merged, err := resource.Merge(r, detected)
	if err != nil {
		log.Printf("merge ecs resource: %s", err)
		return r
	}
	return merged
}

// XRayTraceID formats the span's trace id the way X-Ray prints it.
func XRayTraceID(span trace.Span) string {
	id := span.SpanContext().TraceID().String()
	if len(id) < 9 {
		return id
	}

	return fmt.Sprintf("1-%s-%s", id[:8], id[8:])
}
