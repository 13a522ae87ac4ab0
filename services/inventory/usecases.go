package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtm-labs/client/dtmcli"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/external"
)

var (
	ErrInvalidRequest = errors.New("product ids and quantities must match and quantities must be positive")

	// ErrInsufficientStock é a recusa de negócio da baixa, respondida com 409
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", dtmcli.ErrFailure)
)

// StockUseCase contém a lógica de negócio do estoque
type StockUseCase struct {
	repository   StockRepository
	logger       *zap.Logger
	debitCounter metric.Int64Counter
}

// NewStockUseCase cria uma nova instância de StockUseCase
func NewStockUseCase(
	repository StockRepository,
	logger *zap.Logger,
) *StockUseCase {
	counter, err := otel.Meter(serviceName).Int64Counter("stock.debits",
		metric.WithDescription("Stock debits by outcome"))
	if err != nil {
		logger.Warn("failed to create stock debit counter", zap.Error(err))
	}

	return &StockUseCase{
		repository:   repository,
		logger:       logger,
		debitCounter: counter,
	}
}

// CheckAvailability compara as quantidades pedidas com o estoque, sem reservar nada
func (uc *StockUseCase) CheckAvailability(ctx context.Context, req external.StockRequest) (domain.AvailabilityResult, error) {
	order, err := newStockOrder(req.ProductIDs, req.Quantities)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	levels, err := uc.repository.GetStockLevels(ctx, order.productIDs)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	unavailable := order.unavailable(levels)
	uc.logger.Info("➡️ [AVAILABILITY] Stock checked",
		zap.String("trace_id", req.TraceID),
		zap.Int64s("product_ids", order.productIDs),
		zap.Int64s("unavailable", unavailable))

	return domain.AvailabilityResult{
		Available:             len(unavailable) == 0,
		UnavailableProductIDs: unavailable,
	}, nil
}

// Debit baixa todas as quantidades em uma única transação usando Lock Pessimista.
// Os locks são tomados em ordem crescente de produto; se faltar qualquer item nada é baixado.
func (uc *StockUseCase) Debit(ctx context.Context, req external.StockRequest) (domain.DebitResult, error) {
	reference := uuid.New().String()
	log := uc.logger.With(zap.String("trace_id", req.TraceID), zap.String("reference", reference))
	log.Info("➡️ [DEBIT STOCK] Debiting", zap.Int64s("product_ids", req.ProductIDs), zap.Int64s("quantities", req.Quantities))

	order, err := newStockOrder(req.ProductIDs, req.Quantities)
	if err != nil {
		return domain.DebitResult{}, err
	}

	// 1. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return domain.DebitResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 2. Trava cada produto (SELECT FOR UPDATE) e verifica o estoque
	lines := order.lockOrder()
	levels := make(map[int64]int64, len(lines))
	for _, line := range lines {
		stock, err := uc.repository.GetStockForUpdate(ctx, tx, line.ProductID)
		if err != nil {
			log.Error("❌ DEBIT FAILED: GetStockForUpdate", zap.Int64("product_id", line.ProductID), zap.Error(err))
			return domain.DebitResult{}, err
		}
		if stock != nil {
			levels[line.ProductID] = stock.CurrentStock
		}
	}

	if short := order.unavailable(levels); len(short) > 0 {
		log.Info("❌ DEBIT FAILED: Insufficient stock", zap.Int64s("product_ids", short))
		uc.recordDebit(ctx, "insufficient_stock")
		return domain.DebitResult{}, fmt.Errorf("%w for products %v", ErrInsufficientStock, short)
	}

	// 3. Baixa o estoque e cria os registros de movimento
	for _, line := range lines {
		if err := uc.repository.DecreaseStock(ctx, tx, line.ProductID, line.Quantity, reference); err != nil {
			log.Error("❌ [DEBIT STOCK] Failed to update", zap.Int64("product_id", line.ProductID), zap.Error(err))
			return domain.DebitResult{}, err
		}
	}

	// 4. Commit da transação
	if err := tx.Commit(); err != nil {
		return domain.DebitResult{}, fmt.Errorf("failed to commit debit: %w", err)
	}

	uc.recordDebit(ctx, "success")
	log.Info("✅ [DEBIT STOCK] Success")
	return domain.DebitResult{Success: true}, nil
}

func (uc *StockUseCase) recordDebit(ctx context.Context, outcome string) {
	if uc.debitCounter == nil {
		return
	}
	uc.debitCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
