package main

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet representa a carteira de um cliente
type Wallet struct {
	ID         string          `json:"id" db:"id"`
	CustomerID int64           `json:"customer_id" db:"customer_id"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// CanPay informa se o saldo cobre o valor
func (w *Wallet) CanPay(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Payment representa uma autorização de pagamento.
// TransactionID é gerado pelo banco e devolvido ao checkout.
type Payment struct {
	TransactionID int64           `json:"transaction_id" db:"transaction_id"`
	WalletID      string          `json:"wallet_id" db:"wallet_id"`
	CustomerID    int64           `json:"customer_id" db:"customer_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// PaymentStatus representa os estados de um pagamento
const (
	PaymentStatusAuthorized = "authorized"
	PaymentStatusCancelled  = "cancelled"
)

// Cancelled informa se o pagamento já foi desfeito
func (p *Payment) Cancelled() bool {
	return p.Status == PaymentStatusCancelled
}
