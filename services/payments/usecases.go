package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtm-labs/client/dtmcli"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/external"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than or equal to zero")
	ErrUnknownTransaction = errors.New("unknown transaction")

	// Recusas de negócio, respondidas com 409
	ErrWalletNotFound    = fmt.Errorf("%w: wallet not found", dtmcli.ErrFailure)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", dtmcli.ErrFailure)
)

// PaymentUseCase contém a lógica de negócio de pagamentos
type PaymentUseCase struct {
	repository                 PaymentRepository
	logger                     *zap.Logger
	paymentAuthorizeCounter    metric.Int64Counter
	paymentCancellationCounter metric.Int64Counter
}

// NewPaymentUseCase cria uma nova instância de PaymentUseCase
func NewPaymentUseCase(
	repository PaymentRepository,
	logger *zap.Logger,
) *PaymentUseCase {
	meter := otel.Meter(serviceName)
	authorizeCounter, err := meter.Int64Counter("payments.authorizations",
		metric.WithDescription("Payment authorizations by outcome"))
	if err != nil {
		logger.Warn("failed to create authorization counter", zap.Error(err))
	}
	cancelCounter, err := meter.Int64Counter("payments.cancellations",
		metric.WithDescription("Payment cancellations"))
	if err != nil {
		logger.Warn("failed to create cancellation counter", zap.Error(err))
	}

	return &PaymentUseCase{
		repository:                 repository,
		logger:                     logger,
		paymentAuthorizeCounter:    authorizeCounter,
		paymentCancellationCounter: cancelCounter,
	}
}

// Authorize debita o valor da carteira do cliente usando Lock Pessimista
func (uc *PaymentUseCase) Authorize(ctx context.Context, req external.AuthorizeRequest) (domain.PaymentResult, error) {
	log := uc.logger.With(
		zap.String("trace_id", req.TraceID),
		zap.Int64("customer_id", req.CustomerID),
		zap.String("amount", req.Amount.StringFixed(2)),
	)
	log.Info("➡️ [AUTHORIZE PAYMENT] Authorizing")

	if req.Amount.IsNegative() {
		return domain.PaymentResult{}, ErrInvalidAmount
	}

	// 1. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 2. Obtém a carteira com LOCK PESSIMISTA (SELECT FOR UPDATE)
	wallet, err := uc.repository.GetWalletForUpdate(ctx, tx, req.CustomerID)
	if err != nil {
		log.Error("❌ AUTHORIZE FAILED: GetWalletForUpdate", zap.Error(err))
		return domain.PaymentResult{}, err
	}
	if wallet == nil {
		uc.recordAuthorization(ctx, "wallet_not_found")
		return domain.PaymentResult{}, ErrWalletNotFound
	}

	// 3. Regra de Negócio: Verifica saldo
	if !wallet.CanPay(req.Amount) {
		log.Info("❌ AUTHORIZE FAILED: Insufficient funds", zap.String("balance", wallet.Balance.StringFixed(2)))
		uc.recordAuthorization(ctx, "insufficient_funds")
		return domain.PaymentResult{}, ErrInsufficientFunds
	}

	// 4. Debita a carteira e cria o registro de pagamento
	transactionID, err := uc.repository.AuthorizePayment(ctx, tx, wallet, req.Amount)
	if err != nil {
		log.Error("❌ [AUTHORIZE] Failed to update", zap.Error(err))
		return domain.PaymentResult{}, err
	}

	// 5. Commit da transação
	if err := tx.Commit(); err != nil {
		return domain.PaymentResult{}, fmt.Errorf("failed to commit authorization: %w", err)
	}

	uc.recordAuthorization(ctx, "authorized")
	log.Info("✅ [AUTHORIZE] Success", zap.Int64("transaction_id", transactionID))
	return domain.PaymentResult{Authorized: true, TransactionID: transactionID}, nil
}

// Cancel devolve o valor de uma autorização (compensação). Cancelar duas vezes não é erro.
func (uc *PaymentUseCase) Cancel(ctx context.Context, req external.CancelRequest) error {
	log := uc.logger.With(
		zap.String("trace_id", req.TraceID),
		zap.Int64("customer_id", req.CustomerID),
		zap.Int64("transaction_id", req.TransactionID),
	)
	log.Info("↩️ [CANCEL PAYMENT] Cancelling")

	// 1. Inicia a transação
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 2. Obtém o pagamento com LOCK PESSIMISTA
	payment, err := uc.repository.GetPaymentForUpdate(ctx, tx, req.TransactionID)
	if err != nil {
		log.Error("❌ CANCEL FAILED: GetPaymentForUpdate", zap.Error(err))
		return err
	}
	if payment == nil || payment.CustomerID != req.CustomerID {
		return fmt.Errorf("cancel transaction %d for customer %d: %w", req.TransactionID, req.CustomerID, ErrUnknownTransaction)
	}

	// 3. Idempotência
	if payment.Cancelled() {
		log.Info("ℹ️ [IDEMPOTENCY] Payment already cancelled")
		return nil
	}

	// 4. Devolve o valor e marca o pagamento
	if err := uc.repository.CancelPayment(ctx, tx, payment); err != nil {
		log.Error("❌ [CANCEL] Failed to update", zap.Error(err))
		return err
	}

	// 5. Commit da transação
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	if uc.paymentCancellationCounter != nil {
		uc.paymentCancellationCounter.Add(ctx, 1)
	}
	log.Info("✅ [CANCEL] Success")
	return nil
}

func (uc *PaymentUseCase) recordAuthorization(ctx context.Context, outcome string) {
	if uc.paymentAuthorizeCounter == nil {
		return
	}
	uc.paymentAuthorizeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
