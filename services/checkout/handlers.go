package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/checkout"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/pricing"
)

// CheckoutUseCaseInterface define a interface para o use case
type CheckoutUseCaseInterface interface {
	FinalizePurchase(ctx context.Context, cartID, customerID int64) (domain.PurchaseResult, error)
	CartTotal(ctx context.Context, cartID, customerID int64) (decimal.Decimal, error)
	CalculateTotal(cart *domain.Cart, customer *domain.Customer) (decimal.Decimal, error)
}

// QuoteCalculator calcula o detalhamento do custo de um carrinho avulso
type QuoteCalculator interface {
	Quote(cart *domain.Cart, customer *domain.Customer) (pricing.Quote, error)
}

// FinalizePurchaseRequest representa a requisição para finalizar a compra
type FinalizePurchaseRequest struct {
	CartID     int64 `json:"cart_id" binding:"required"`
	CustomerID int64 `json:"customer_id" binding:"required"`
}

// QuoteRequest representa a requisição de cotação de um carrinho
type QuoteRequest struct {
	Cart     *domain.Cart     `json:"cart"`
	Customer *domain.Customer `json:"customer"`
}

// PurchaseResponse é o resultado da compra com os detalhes de falha, quando houver
type PurchaseResponse struct {
	domain.PurchaseResult
	Reason                string  `json:"reason,omitempty"`
	UnavailableProductIDs []int64 `json:"unavailable_product_ids,omitempty"`
	Compensated           bool    `json:"compensated,omitempty"`
}

// CheckoutHandler contém os handlers HTTP
type CheckoutHandler struct {
	useCase    CheckoutUseCaseInterface
	calculator QuoteCalculator
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewCheckoutHandler cria uma nova instância de CheckoutHandler
func NewCheckoutHandler(useCase CheckoutUseCaseInterface, calculator QuoteCalculator, tracer trace.Tracer, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		useCase:    useCase,
		calculator: calculator,
		tracer:     tracer,
		logger:     logger,
	}
}

// FinalizePurchase executa a saga de compra para um carrinho salvo
func (h *CheckoutHandler) FinalizePurchase(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "finalize_purchase")
	defer span.End()

	var req FinalizePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.Int64("cart_id", req.CartID),
		attribute.Int64("customer_id", req.CustomerID),
	)

	result, err := h.useCase.FinalizePurchase(ctx, req.CartID, req.CustomerID)
	if err != nil {
		span.RecordError(err)
		h.writePurchaseFailure(c, result, err)
		return
	}

	span.SetAttributes(attribute.Int64("transaction_id", result.TransactionID))
	c.JSON(http.StatusOK, PurchaseResponse{PurchaseResult: result})
}

// Quote calcula o custo de um carrinho enviado no corpo, sem efeitos colaterais
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.calculator.Quote(req.Cart, req.Customer)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_subtotal": q.ProductSubtotal.String(),
		"freight":          q.Freight.String(),
		"total":            q.Total.StringFixed(2),
	})
}

// CalculateTotal calcula apenas o total arredondado de um carrinho enviado no corpo
func (h *CheckoutHandler) CalculateTotal(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	total, err := h.useCase.CalculateTotal(req.Cart, req.Customer)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total.StringFixed(2)})
}

// CartTotal calcula o total de um carrinho salvo
func (h *CheckoutHandler) CartTotal(c *gin.Context) {
	cartID, err := strconv.ParseInt(c.Param("cartID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart id"})
		return
	}
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
		return
	}

	total, err := h.useCase.CartTotal(c.Request.Context(), cartID, customerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_id":     cartID,
		"customer_id": customerID,
		"total":       total.StringFixed(2),
	})
}

// HealthCheck verifica a saúde do serviço
func (h *CheckoutHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "checkout-service",
	})
}

func (h *CheckoutHandler) writePurchaseFailure(c *gin.Context, result domain.PurchaseResult, err error) {
	var ce *checkout.CheckoutError
	if !errors.As(err, &ce) {
		h.writeError(c, err)
		return
	}

	status := http.StatusConflict
	if ce.Reason == checkout.ReasonCompensationFailed {
		status = http.StatusInternalServerError
		h.logger.Error("❌ Compensation failed, payment left authorized",
			zap.Int64("transaction_id", ce.TransactionID),
			zap.Error(err))
	}

	c.JSON(status, PurchaseResponse{
		PurchaseResult:        result,
		Reason:                string(ce.Reason),
		UnavailableProductIDs: ce.UnavailableProductIDs,
		Compensated:           ce.Compensated,
	})
}

// writeError traduz erros de validação, busca e infraestrutura para HTTP
func (h *CheckoutHandler) writeError(c *gin.Context, err error) {
	var ve *pricing.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrCustomerNotFound), errors.Is(err, checkout.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
