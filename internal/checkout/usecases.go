package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/pricing"
)

// PurchaseSucceededMessage é a mensagem devolvida em uma compra concluída
const PurchaseSucceededMessage = "purchase completed successfully"

// checkoutState é um estado da saga de finalização de compra:
//
//	FETCH -> AVAIL_CHECK -> PRICE -> AUTHORIZE -> DEBIT -> DONE
//	FETCH (ausente ou inválido) -> FAILED
//	AVAIL_CHECK (indisponível) -> FAILED
//	AUTHORIZE (recusado)       -> FAILED
//	DEBIT (falha)              -> CANCEL_PAYMENT -> FAILED
type checkoutState string

const (
	stateFetch         checkoutState = "FETCH"
	stateAvailability  checkoutState = "AVAIL_CHECK"
	statePrice         checkoutState = "PRICE"
	stateAuthorize     checkoutState = "AUTHORIZE"
	stateDebit         checkoutState = "DEBIT"
	stateCancelPayment checkoutState = "CANCEL_PAYMENT"
	stateDone          checkoutState = "DONE"
	stateFailed        checkoutState = "FAILED"
)

// attempt guarda os dados de uma única tentativa de compra
type attempt struct {
	reference  string
	cartID     int64
	customerID int64

	customer   *domain.Customer
	cart       *domain.Cart
	productIDs []int64
	quantities []int64
	total      decimal.Decimal
	payment    domain.PaymentResult
	debitErr   error

	err error
}

// CheckoutUseCase orquestra a finalização da compra contra estoque e pagamento externos.
// Não guarda estado entre chamadas além das referências aos colaboradores.
type CheckoutUseCase struct {
	customers  CustomerLookup
	carts      CartLookup
	stock      StockService
	payment    PaymentService
	calculator TotalCalculator
	logger     *zap.Logger
	metrics    *sagaMetrics
}

// NewCheckoutUseCase cria uma nova instância de CheckoutUseCase
func NewCheckoutUseCase(
	customers CustomerLookup,
	carts CartLookup,
	stock StockService,
	payment PaymentService,
	calculator TotalCalculator,
	logger *zap.Logger,
) *CheckoutUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutUseCase{
		customers:  customers,
		carts:      carts,
		stock:      stock,
		payment:    payment,
		calculator: calculator,
		logger:     logger,
		metrics:    newSagaMetrics(logger),
	}
}

// CalculateTotal expõe o cálculo do custo total sem efeitos colaterais
func (uc *CheckoutUseCase) CalculateTotal(cart *domain.Cart, customer *domain.Customer) (decimal.Decimal, error) {
	return uc.calculator.CalculateTotal(cart, customer)
}

// CartTotal busca carrinho e cliente e calcula o total, sem consultar estoque nem pagamento
func (uc *CheckoutUseCase) CartTotal(ctx context.Context, cartID, customerID int64) (decimal.Decimal, error) {
	a := &attempt{cartID: cartID, customerID: customerID}
	if uc.fetch(ctx, a) == stateFailed {
		return decimal.Zero, a.err
	}
	return uc.calculator.CalculateTotal(a.cart, a.customer)
}

// FinalizePurchase executa a saga de compra. Em caso de falha o erro é não nulo e o
// resultado vem com Success=false e a mensagem do motivo.
func (uc *CheckoutUseCase) FinalizePurchase(ctx context.Context, cartID, customerID int64) (domain.PurchaseResult, error) {
	a := &attempt{
		reference:  uuid.New().String(),
		cartID:     cartID,
		customerID: customerID,
	}

	ctx, span := startSagaSpan(ctx, "finalize_purchase", a.reference)
	defer span.End()
	span.SetAttributes(
		attribute.Int64("cart_id", cartID),
		attribute.Int64("customer_id", customerID),
	)

	log := uc.logger.With(
		zap.String("reference", a.reference),
		zap.Int64("cart_id", cartID),
		zap.Int64("customer_id", customerID),
	)
	log.Info("🚀 Starting checkout saga")

	state := stateFetch
	for state != stateDone && state != stateFailed {
		next := uc.step(ctx, state, a, log)
		log.Debug("saga transition", zap.String("from", string(state)), zap.String("to", string(next)))
		state = next
	}

	uc.metrics.recordOutcome(ctx, a.err)

	if state == stateFailed {
		span.RecordError(a.err)
		span.SetStatus(codes.Error, "checkout failed")
		log.Warn("❌ Checkout failed", zap.Error(a.err))
		return domain.PurchaseResult{
			Success:       false,
			TransactionID: a.payment.TransactionID,
			Message:       failureMessage(a.err),
		}, a.err
	}

	span.SetAttributes(attribute.Int64("transaction_id", a.payment.TransactionID))
	span.SetStatus(codes.Ok, "checkout completed")
	log.Info("✅ Checkout completed", zap.Int64("transaction_id", a.payment.TransactionID))
	return domain.PurchaseResult{
		Success:       true,
		TransactionID: a.payment.TransactionID,
		Message:       PurchaseSucceededMessage,
	}, nil
}

func (uc *CheckoutUseCase) step(ctx context.Context, state checkoutState, a *attempt, log *zap.Logger) checkoutState {
	ctx, span := startStepSpan(ctx, state, a.reference)
	defer span.End()

	var next checkoutState
	switch state {
	case stateFetch:
		next = uc.fetch(ctx, a)
	case stateAvailability:
		next = uc.checkAvailability(ctx, a, log)
	case statePrice:
		next = uc.price(a, log)
	case stateAuthorize:
		next = uc.authorize(ctx, a, log)
	case stateDebit:
		next = uc.debit(ctx, a, log)
	case stateCancelPayment:
		next = uc.cancelPayment(ctx, a, log)
	default:
		a.err = fmt.Errorf("unknown checkout state %q", state)
		next = stateFailed
	}

	if next == stateFailed && a.err != nil {
		span.RecordError(a.err)
		span.SetStatus(codes.Error, string(state)+" failed")
	}
	return next
}

func (uc *CheckoutUseCase) fetch(ctx context.Context, a *attempt) checkoutState {
	customer, err := uc.customers.FindByID(ctx, a.customerID)
	if err == nil && customer == nil {
		err = ErrCustomerNotFound
	}
	if err != nil {
		a.err = fmt.Errorf("fetching customer %d: %w", a.customerID, err)
		return stateFailed
	}

	cart, err := uc.carts.FindByIDForCustomer(ctx, a.cartID, customer)
	if err == nil && cart == nil {
		err = ErrCartNotFound
	}
	if err != nil {
		a.err = fmt.Errorf("fetching cart %d: %w", a.cartID, err)
		return stateFailed
	}

	// carrinho salvo inválido não chega ao estoque
	if err := pricing.Validate(cart, customer); err != nil {
		a.err = err
		return stateFailed
	}

	a.customer = customer
	a.cart = cart
	a.productIDs, a.quantities = cart.ProductIDsAndQuantities()
	return stateAvailability
}

func (uc *CheckoutUseCase) checkAvailability(ctx context.Context, a *attempt, log *zap.Logger) checkoutState {
	log.Info("➡️ [AVAILABILITY] Checking stock", zap.Int64s("product_ids", a.productIDs))

	res, err := uc.stock.CheckAvailability(ctx, a.productIDs, a.quantities)
	if err != nil {
		a.err = fmt.Errorf("checking stock availability: %w", err)
		return stateFailed
	}
	if !res.Available {
		e := newCheckoutError(ErrOutOfStock)
		e.UnavailableProductIDs = res.UnavailableProductIDs
		a.err = e
		log.Info("ℹ️ [AVAILABILITY] Items out of stock", zap.Int64s("unavailable", res.UnavailableProductIDs))
		return stateFailed
	}
	return statePrice
}

func (uc *CheckoutUseCase) price(a *attempt, log *zap.Logger) checkoutState {
	total, err := uc.calculator.CalculateTotal(a.cart, a.customer)
	if err != nil {
		a.err = err
		return stateFailed
	}

	a.total = total
	log.Info("💰 [PRICE] Total calculated", zap.String("total", total.StringFixed(2)))
	return stateAuthorize
}

func (uc *CheckoutUseCase) authorize(ctx context.Context, a *attempt, log *zap.Logger) checkoutState {
	log.Info("➡️ [AUTHORIZE] Requesting payment authorization", zap.String("amount", a.total.StringFixed(2)))

	res, err := uc.payment.Authorize(ctx, a.customer.ID, a.total)
	if err != nil {
		// o pagamento pode ter sido autorizado do outro lado; fica para conciliação
		log.Warn("⚠️ [AUTHORIZE] outcome unknown",
			zap.Int64("customer_id", a.customer.ID),
			zap.String("amount", a.total.StringFixed(2)),
			zap.Error(err))
		a.err = fmt.Errorf("authorizing payment: %w", err)
		return stateFailed
	}
	if !res.Authorized {
		e := newCheckoutError(ErrPaymentDeclined)
		e.TransactionID = res.TransactionID
		a.err = e
		log.Info("ℹ️ [AUTHORIZE] Payment declined")
		return stateFailed
	}

	a.payment = res
	return stateDebit
}

func (uc *CheckoutUseCase) debit(ctx context.Context, a *attempt, log *zap.Logger) checkoutState {
	log.Info("➡️ [DEBIT] Debiting stock", zap.Int64("transaction_id", a.payment.TransactionID))

	res, err := uc.stock.Debit(ctx, a.productIDs, a.quantities)
	if err != nil {
		// o resultado da baixa é desconhecido; o pagamento autorizado precisa ser desfeito
		a.debitErr = fmt.Errorf("debiting stock: %w", err)
		log.Warn("❌ [DEBIT] Stock service error", zap.Error(err))
		return stateCancelPayment
	}
	if !res.Success {
		log.Warn("❌ [DEBIT] Stock debit rejected")
		return stateCancelPayment
	}
	return stateDone
}

func (uc *CheckoutUseCase) cancelPayment(ctx context.Context, a *attempt, log *zap.Logger) checkoutState {
	log.Info("↩️ [COMPENSATE] Cancelling payment", zap.Int64("transaction_id", a.payment.TransactionID))

	cancelErr := uc.payment.Cancel(ctx, a.customer.ID, a.payment.TransactionID)
	uc.metrics.recordCompensation(ctx, cancelErr == nil)

	if cancelErr != nil {
		e := newCheckoutError(ErrCompensationFailed)
		e.TransactionID = a.payment.TransactionID
		e.Cause = errors.Join(cancelErr, a.debitErr)
		a.err = e
		log.Error("❌ [COMPENSATE] Payment cancellation failed", zap.Error(cancelErr))
		return stateFailed
	}

	e := newCheckoutError(ErrDebitFailed)
	e.TransactionID = a.payment.TransactionID
	e.Compensated = true
	e.Cause = a.debitErr
	a.err = e
	log.Info("♻️ [COMPENSATE] Payment cancelled")
	return stateFailed
}

func failureMessage(err error) string {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
