package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/config"
)

const serviceVersion = "1.0.0"

func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.GetEnv("SERVICE_NAME", serviceName)),
			semconv.ServiceVersion(serviceVersion),
		),
	)
}

// InitTracer configura o TracerProvider global exportando via OTLP/HTTP
func InitTracer(ctx context.Context, serviceName string) (*sdktrace.TracerProvider, error) {
	otlpEndpoint := config.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(otlpEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otel.SetTracerProvider(tp)

	return tp, nil
}

// InitMetrics configura o MeterProvider global exportando via OTLP/HTTP
func InitMetrics(ctx context.Context, serviceName string) (*sdkmetric.MeterProvider, error) {
	otlpEndpoint := config.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(otlpEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// TraceIDs extrai os identificadores do span corrente para propagação manual no payload
func TraceIDs(ctx context.Context) (traceID, spanID string) {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.TraceID().String(), sc.SpanID().String()
	}
	return "", ""
}

// StartSpanFromPayload cria um span filho do contexto propagado no payload.
// Se a requisição já chegou com um span válido (otelgin), ele é usado como pai.
func StartSpanFromPayload(ctx context.Context, tracerName, operationName, traceID, spanID string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() && traceID != "" && spanID != "" {
		parsedTraceID, errTrace := trace.TraceIDFromHex(traceID)
		parsedSpanID, errSpan := trace.SpanIDFromHex(spanID)

		if errTrace == nil && errSpan == nil {
			spanContext := trace.NewSpanContext(trace.SpanContextConfig{
				TraceID:    parsedTraceID,
				SpanID:     parsedSpanID,
				TraceFlags: trace.FlagsSampled,
				Remote:     true,
			})
			ctx = trace.ContextWithSpanContext(ctx, spanContext)
		}
	}

	return otel.Tracer(tracerName).Start(ctx, operationName)
}
