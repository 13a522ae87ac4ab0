package external

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// firstTransactionID é o primeiro id emitido pelo PaymentStub
const firstTransactionID = 1_000_000

var (
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrCancelUnavailable  = errors.New("payment cancellation unavailable")
)

// StockStub é um estoque em memória, seguro para uso concorrente
type StockStub struct {
	mu          sync.Mutex
	levels      map[int64]int64
	rejectDebit bool
}

// NewStockStub cria um estoque com os níveis iniciais por produto
func NewStockStub(levels map[int64]int64) *StockStub {
	s := &StockStub{levels: make(map[int64]int64, len(levels))}
	for id, qty := range levels {
		s.levels[id] = qty
	}
	return s
}

// SetLevel define o estoque de um produto
func (s *StockStub) SetLevel(productID, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[productID] = quantity
}

// Level devolve o estoque atual de um produto
func (s *StockStub) Level(productID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[productID]
}

// RejectDebits faz toda baixa seguinte falhar, mesmo com estoque disponível
func (s *StockStub) RejectDebits(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectDebit = reject
}

// CheckAvailability soma as quantidades pedidas por produto e compara com o estoque
func (s *StockStub) CheckAvailability(_ context.Context, productIDs, quantities []int64) (domain.AvailabilityResult, error) {
	requested, err := requestedByProduct(productIDs, quantities)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unavailable := s.unavailable(productIDs, requested)
	return domain.AvailabilityResult{
		Available:             len(unavailable) == 0,
		UnavailableProductIDs: unavailable,
	}, nil
}

// Debit baixa todas as quantidades ou nenhuma
func (s *StockStub) Debit(_ context.Context, productIDs, quantities []int64) (domain.DebitResult, error) {
	requested, err := requestedByProduct(productIDs, quantities)
	if err != nil {
		return domain.DebitResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rejectDebit || len(s.unavailable(productIDs, requested)) > 0 {
		return domain.DebitResult{Success: false}, nil
	}

	for id, qty := range requested {
		s.levels[id] -= qty
	}
	return domain.DebitResult{Success: true}, nil
}

// unavailable devolve os produtos sem estoque suficiente, na ordem do pedido e sem repetição
func (s *StockStub) unavailable(productIDs []int64, requested map[int64]int64) []int64 {
	var ids []int64
	seen := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s.levels[id] < requested[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func requestedByProduct(productIDs, quantities []int64) (map[int64]int64, error) {
	if len(productIDs) != len(quantities) {
		return nil, fmt.Errorf("product ids and quantities differ in length: %d != %d", len(productIDs), len(quantities))
	}

	requested := make(map[int64]int64, len(productIDs))
	for i, id := range productIDs {
		requested[id] += quantities[i]
	}
	return requested, nil
}

// Authorization é um pagamento autorizado pelo PaymentStub
type Authorization struct {
	CustomerID    int64
	TransactionID int64
	Amount        decimal.Decimal
	Cancelled     bool
}

// PaymentStub é um gateway de pagamento em memória.
// Os ids de transação são sequenciais e nunca se repetem entre chamadas concorrentes.
type PaymentStub struct {
	nextID atomic.Int64

	mu             sync.Mutex
	declined       map[int64]bool
	authorizations map[int64]*Authorization
	failCancel     bool
}

// NewPaymentStub cria um gateway que autoriza todos os clientes
func NewPaymentStub() *PaymentStub {
	p := &PaymentStub{
		declined:       make(map[int64]bool),
		authorizations: make(map[int64]*Authorization),
	}
	p.nextID.Store(firstTransactionID - 1)
	return p
}

// Decline faz as autorizações do cliente serem recusadas
func (p *PaymentStub) Decline(customerID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.declined[customerID] = true
}

// FailCancellations faz todo cancelamento seguinte devolver ErrCancelUnavailable
func (p *PaymentStub) FailCancellations(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failCancel = fail
}

// Authorization devolve uma cópia da autorização registrada
func (p *PaymentStub) Authorization(transactionID int64) (Authorization, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, ok := p.authorizations[transactionID]
	if !ok {
		return Authorization{}, false
	}
	return *a, true
}

// Authorize autoriza o valor para o cliente, a menos que ele tenha sido recusado
func (p *PaymentStub) Authorize(_ context.Context, customerID int64, amount decimal.Decimal) (domain.PaymentResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.declined[customerID] {
		return domain.PaymentResult{Authorized: false}, nil
	}

	id := p.nextID.Add(1)
	p.authorizations[id] = &Authorization{
		CustomerID:    customerID,
		TransactionID: id,
		Amount:        amount,
	}
	return domain.PaymentResult{Authorized: true, TransactionID: id}, nil
}

// Cancel desfaz uma autorização. Cancelar duas vezes não é erro.
func (p *PaymentStub) Cancel(_ context.Context, customerID, transactionID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failCancel {
		return ErrCancelUnavailable
	}

	a, ok := p.authorizations[transactionID]
	if !ok || a.CustomerID != customerID {
		return fmt.Errorf("cancel transaction %d for customer %d: %w", transactionID, customerID, ErrUnknownTransaction)
	}

	a.Cancelled = true
	return nil
}
