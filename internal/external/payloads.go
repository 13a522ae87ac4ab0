package external

import (
	"github.com/shopspring/decimal"
)

// StockRequest é o corpo das chamadas ao serviço de estoque.
// ProductIDs e Quantities são listas paralelas, na ordem do carrinho.
type StockRequest struct {
	ProductIDs []int64 `json:"product_ids" binding:"required,min=1"`
	Quantities []int64 `json:"quantities" binding:"required,min=1"`
	// Propagação manual do contexto de trace
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`
}

// AuthorizeRequest é o corpo da autorização de pagamento
type AuthorizeRequest struct {
	CustomerID int64           `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	TraceID    string          `json:"trace_id,omitempty"`
	SpanID     string          `json:"span_id,omitempty"`
}

// CancelRequest é o corpo do cancelamento de pagamento (compensação)
type CancelRequest struct {
	CustomerID    int64  `json:"customer_id" binding:"required"`
	TransactionID int64  `json:"transaction_id" binding:"required"`
	TraceID       string `json:"trace_id,omitempty"`
	SpanID        string `json:"span_id,omitempty"`
}
