package tracer

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/vectorbroker/v1/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Tracer provides a simplified API for distributed tracing with OpenTelemetry.
// It wraps the TracerProvider and offers helpers for creating spans, recording
// errors and attaching attributes.
//
// The Tracer is safe to share across goroutines.
type Tracer struct {
	tracer *trace.TracerProvider
	logger logger.Logger
}

// NewClient creates and initializes a new Tracer instance with OpenTelemetry.
//
// If export is enabled, an OTLP HTTP exporter is attached through a batch
// span processor. The provider and a W3C TraceContext+Baggage propagator are
// installed globally so that otelhttp and outbound requests pick them up.
//
// Example:
//
//	tr, err := tracer.NewClient(tracer.Config{ServiceName: "vectorbroker"}, log)
//	ctx, span := tr.StartSpan(ctx, "broker.query")
//	defer span.End()
func NewClient(cfg Config, log logger.Logger) (*Tracer, error) {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if err != nil {
			return nil, fmt.Errorf("cannot initiate tracer exporter: %w", err)
		}
		options = append(options, trace.WithBatcher(exporter))
		log.Info("OTLP trace export enabled", nil, nil)
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Tracer{tracer: tp, logger: log}, nil
}

// Shutdown flushes pending spans and releases exporter resources.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.tracer == nil {
		return nil
	}
	return t.tracer.Shutdown(ctx)
}
