package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// CustomerLookup busca clientes; devolve ErrCustomerNotFound quando não existe
type CustomerLookup interface {
	FindByID(ctx context.Context, customerID int64) (*domain.Customer, error)
}

// CartLookup busca o carrinho de um cliente; devolve ErrCartNotFound quando não existe
type CartLookup interface {
	FindByIDForCustomer(ctx context.Context, cartID int64, customer *domain.Customer) (*domain.Cart, error)
}

// StockService é o serviço externo de estoque.
// productIDs e quantities são listas paralelas, na ordem do carrinho.
type StockService interface {
	CheckAvailability(ctx context.Context, productIDs, quantities []int64) (domain.AvailabilityResult, error)
	Debit(ctx context.Context, productIDs, quantities []int64) (domain.DebitResult, error)
}

// PaymentService é o serviço externo de pagamento
type PaymentService interface {
	Authorize(ctx context.Context, customerID int64, amount decimal.Decimal) (domain.PaymentResult, error)
	Cancel(ctx context.Context, customerID, transactionID int64) error
}

// TotalCalculator calcula o custo total da compra
type TotalCalculator interface {
	CalculateTotal(cart *domain.Cart, customer *domain.Customer) (decimal.Decimal, error)
}
