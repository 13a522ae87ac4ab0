package checkout

import (
	"errors"
	"fmt"
)

// Erros de busca: fatais para a requisição, sem compensação
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCartNotFound     = errors.New("cart not found")
)

// Reason identifica o motivo de falha de uma compra
type Reason string

const (
	ReasonOutOfStock         Reason = "out_of_stock"
	ReasonPaymentDeclined    Reason = "payment_declined"
	ReasonDebitFailed        Reason = "debit_failed"
	ReasonCompensationFailed Reason = "compensation_failed"
)

// Sentinelas para uso com errors.Is; a comparação é feita pelo Reason
var (
	ErrOutOfStock         = &CheckoutError{Reason: ReasonOutOfStock, Message: "items out of stock"}
	ErrPaymentDeclined    = &CheckoutError{Reason: ReasonPaymentDeclined, Message: "payment not authorized"}
	ErrDebitFailed        = &CheckoutError{Reason: ReasonDebitFailed, Message: "failed to debit stock"}
	ErrCompensationFailed = &CheckoutError{Reason: ReasonCompensationFailed, Message: "failed to debit stock and to cancel payment"}
)

// CheckoutError é uma falha de negócio ou falha parcial da compra
type CheckoutError struct {
	Reason                Reason
	Message               string
	TransactionID         int64
	UnavailableProductIDs []int64
	Compensated           bool
	Cause                 error
}

func (e *CheckoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CheckoutError) Unwrap() error {
	return e.Cause
}

// Is compara apenas o motivo, para que errors.Is(err, ErrOutOfStock) funcione com instâncias detalhadas
func (e *CheckoutError) Is(target error) bool {
	t, ok := target.(*CheckoutError)
	return ok && t.Reason == e.Reason
}

func newCheckoutError(sentinel *CheckoutError) *CheckoutError {
	return &CheckoutError{Reason: sentinel.Reason, Message: sentinel.Message}
}
