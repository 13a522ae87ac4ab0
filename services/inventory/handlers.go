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

// StockHandler contém os handlers HTTP para estoque
type StockHandler struct {
	useCase *StockUseCase
	logger  *zap.Logger
}

// NewStockHandler cria uma nova instância de StockHandler
func NewStockHandler(useCase *StockUseCase, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// CheckAvailability é o endpoint de consulta de disponibilidade
func (h *StockHandler) CheckAvailability(c *gin.Context) {
	var req external.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := telemetry.StartSpanFromPayload(c.Request.Context(), serviceName, "check_availability", req.TraceID, req.SpanID)
	defer span.End()
	span.SetAttributes(attribute.Int64Slice("product_ids", req.ProductIDs))

	result, err := h.useCase.CheckAvailability(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, "availability", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Debit é o endpoint de baixa de estoque. Estoque insuficiente responde 409.
func (h *StockHandler) Debit(c *gin.Context) {
	var req external.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := telemetry.StartSpanFromPayload(c.Request.Context(), serviceName, "debit_stock", req.TraceID, req.SpanID)
	defer span.End()
	span.SetAttributes(
		attribute.Int64Slice("product_ids", req.ProductIDs),
		attribute.Int64Slice("quantities", req.Quantities),
	)

	result, err := h.useCase.Debit(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, "debit", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HealthCheck é o endpoint de health check
func (h *StockHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// writeError usa a convenção do dtm: ErrFailure vira 409, demais erros 500
func (h *StockHandler) writeError(c *gin.Context, operation string, err error) {
	if errors.Is(err, ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !errors.Is(err, dtmcli.ErrFailure) {
		h.logger.Error("ℹ️ [STOCK] request failed", zap.String("operation", operation), zap.Error(err))
	}
	c.JSON(dtmcli.Result2HttpJSON(err))
}
