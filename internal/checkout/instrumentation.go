package checkout

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/pricing"
)

const instrumentationName = "checkout-saga"

// startSagaSpan cria o span raiz de uma execução da saga de compra
func startSagaSpan(ctx context.Context, operationName string, reference string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	ctx, span := tracer.Start(ctx, "checkout."+operationName)

	span.SetAttributes(
		attribute.String("checkout.reference", reference),
		attribute.String("checkout.operation", operationName),
		attribute.String("component", "checkout-orchestrator"),
	)

	return ctx, span
}

// startStepSpan cria um span para um estado da saga
func startStepSpan(ctx context.Context, state checkoutState, reference string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	ctx, span := tracer.Start(ctx, "checkout.step."+string(state))

	span.SetAttributes(
		attribute.String("checkout.reference", reference),
		attribute.String("checkout.state", string(state)),
		attribute.String("component", "checkout-orchestrator"),
	)

	return ctx, span
}

// sagaMetrics agrupa os instrumentos OpenTelemetry da saga
type sagaMetrics struct {
	outcomes      metric.Int64Counter
	compensations metric.Int64Counter
}

func newSagaMetrics(logger *zap.Logger) *sagaMetrics {
	meter := otel.Meter(instrumentationName)

	outcomes, err := meter.Int64Counter(
		"checkout.purchases",
		metric.WithDescription("Finished checkout attempts by outcome"),
	)
	if err != nil {
		logger.Warn("failed to create checkout outcome counter", zap.Error(err))
	}

	compensations, err := meter.Int64Counter(
		"checkout.compensations",
		metric.WithDescription("Payment cancellations issued after a failed stock debit"),
	)
	if err != nil {
		logger.Warn("failed to create checkout compensation counter", zap.Error(err))
	}

	return &sagaMetrics{outcomes: outcomes, compensations: compensations}
}

func (m *sagaMetrics) recordOutcome(ctx context.Context, err error) {
	if m.outcomes == nil {
		return
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcomeLabel(err))))
}

func (m *sagaMetrics) recordCompensation(ctx context.Context, cancelled bool) {
	if m.compensations == nil {
		return
	}
	m.compensations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cancelled", cancelled)))
}

// outcomeLabel reduz um erro da saga a um rótulo de baixa cardinalidade
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}

	var ce *CheckoutError
	if errors.As(err, &ce) {
		return string(ce.Reason)
	}

	var ve *pricing.ValidationError
	switch {
	case errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrCartNotFound):
		return "not_found"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}
