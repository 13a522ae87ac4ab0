package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// MockCustomerLookup simula a busca de clientes
type MockCustomerLookup struct {
	mock.Mock
}

func (m *MockCustomerLookup) FindByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	customer, _ := args.Get(0).(*domain.Customer)
	return customer, args.Error(1)
}

// MockCartLookup simula a busca de carrinhos
type MockCartLookup struct {
	mock.Mock
}

func (m *MockCartLookup) FindByIDForCustomer(ctx context.Context, cartID int64, customer *domain.Customer) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, customer)
	cart, _ := args.Get(0).(*domain.Cart)
	return cart, args.Error(1)
}

// MockStockService simula o serviço de estoque
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) CheckAvailability(ctx context.Context, productIDs, quantities []int64) (domain.AvailabilityResult, error) {
	args := m.Called(ctx, productIDs, quantities)
	return args.Get(0).(domain.AvailabilityResult), args.Error(1)
}

func (m *MockStockService) Debit(ctx context.Context, productIDs, quantities []int64) (domain.DebitResult, error) {
	args := m.Called(ctx, productIDs, quantities)
	return args.Get(0).(domain.DebitResult), args.Error(1)
}

// MockPaymentService simula o serviço de pagamento
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Authorize(ctx context.Context, customerID int64, amount decimal.Decimal) (domain.PaymentResult, error) {
	args := m.Called(ctx, customerID, amount)
	return args.Get(0).(domain.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) Cancel(ctx context.Context, customerID, transactionID int64) error {
	args := m.Called(ctx, customerID, transactionID)
	return args.Error(0)
}

// MockTotalCalculator simula o cálculo do total
type MockTotalCalculator struct {
	mock.Mock
}

func (m *MockTotalCalculator) CalculateTotal(cart *domain.Cart, customer *domain.Customer) (decimal.Decimal, error) {
	args := m.Called(cart, customer)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// amountEq casa um decimal pelo valor, ignorando a escala
func amountEq(want string) interface{} {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(got decimal.Decimal) bool {
		return expected.Equal(got)
	})
}
