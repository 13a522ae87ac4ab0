package main

import (
	"errors"
	"net/http"

	"github.com/dtm-labs/client/dtmcli"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/external"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/telemetry"
)

// PaymentHandler contém os handlers HTTP para pagamentos
type PaymentHandler struct {
	useCase *PaymentUseCase
	logger  *zap.Logger
}

// NewPaymentHandler cria uma nova instância de PaymentHandler
func NewPaymentHandler(useCase *PaymentUseCase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// Authorize é o endpoint de autorização. Recusa responde 409.
func (h *PaymentHandler) Authorize(c *gin.Context) {
	var req external.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := telemetry.StartSpanFromPayload(c.Request.Context(), serviceName, "authorize_payment", req.TraceID, req.SpanID)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("customer_id", req.CustomerID),
		attribute.String("amount", req.Amount.StringFixed(2)),
	)

	result, err := h.useCase.Authorize(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, "authorize", err)
		return
	}

	span.SetAttributes(attribute.Int64("transaction_id", result.TransactionID))
	c.JSON(http.StatusOK, result)
}

// Cancel é o endpoint de compensação do pagamento
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req external.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := telemetry.StartSpanFromPayload(c.Request.Context(), serviceName, "cancel_payment", req.TraceID, req.SpanID)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("customer_id", req.CustomerID),
		attribute.Int64("transaction_id", req.TransactionID),
	)

	if err := h.useCase.Cancel(ctx, req); err != nil {
		span.RecordError(err)
		h.writeError(c, "cancel", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "success"})
}

// HealthCheck é o endpoint de health check
func (h *PaymentHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *PaymentHandler) writeError(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnknownTransaction):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		if !errors.Is(err, dtmcli.ErrFailure) {
			h.logger.Error("ℹ️ [PAYMENT] request failed", zap.String("operation", operation), zap.Error(err))
		}
		c.JSON(dtmcli.Result2HttpJSON(err))
	}
}
