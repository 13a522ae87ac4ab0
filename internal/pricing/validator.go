package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// ValidationError indica dados de carrinho ou cliente inválidos para o cálculo
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Erros de validação, na ordem em que são verificados
var (
	ErrNilCart           = &ValidationError{Message: "cart must not be nil"}
	ErrEmptyCart         = &ValidationError{Message: "cart must have at least one item"}
	ErrNilItem           = &ValidationError{Message: "cart item must not be nil"}
	ErrNilQuantity       = &ValidationError{Message: "item quantity must not be nil"}
	ErrInvalidQuantity   = &ValidationError{Message: "item quantity must be greater than zero"}
	ErrNilProduct        = &ValidationError{Message: "item product must not be nil"}
	ErrNilProductType    = &ValidationError{Message: "product type must not be nil"}
	ErrInvalidPrice      = &ValidationError{Message: "product price must be greater than or equal to zero"}
	ErrInvalidWeight     = &ValidationError{Message: "product physical weight must be greater than or equal to zero"}
	ErrNilDimension      = &ValidationError{Message: "product dimensions must not be nil"}
	ErrNegativeDimension = &ValidationError{Message: "product dimensions must be greater than or equal to zero"}
	ErrNilFragile        = &ValidationError{Message: "product fragile flag must not be nil"}
	ErrNilCustomer       = &ValidationError{Message: "customer must not be nil"}
	ErrNilRegion         = &ValidationError{Message: "customer region must not be nil"}
	ErrNilLoyaltyTier    = &ValidationError{Message: "customer loyalty tier must not be nil"}
)

// Validate verifica todos os invariantes de carrinho e cliente antes de qualquer cálculo.
// Retorna o primeiro erro encontrado; erros de item vêm embrulhados com a posição do item.
func Validate(cart *domain.Cart, customer *domain.Customer) error {
	if err := ValidateCart(cart); err != nil {
		return err
	}
	return ValidateCustomer(customer)
}

// ValidateCart verifica apenas o carrinho
func ValidateCart(cart *domain.Cart) error {
	if cart == nil {
		return ErrNilCart
	}
	if len(cart.Items) == 0 {
		return ErrEmptyCart
	}

	for i, item := range cart.Items {
		if err := validateItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ValidateCustomer verifica apenas o cliente
func ValidateCustomer(customer *domain.Customer) error {
	if customer == nil {
		return ErrNilCustomer
	}
	if customer.Region == "" {
		return ErrNilRegion
	}
	if customer.LoyaltyTier == "" {
		return ErrNilLoyaltyTier
	}
	return nil
}

func validateItem(item *domain.CartItem) error {
	if item == nil {
		return ErrNilItem
	}
	if item.Quantity == nil {
		return ErrNilQuantity
	}
	if *item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	p := item.Product
	if p == nil {
		return ErrNilProduct
	}
	if p.Type == "" {
		return ErrNilProductType
	}
	if isNilOrNegative(p.Price) {
		return ErrInvalidPrice
	}
	if isNilOrNegative(p.PhysicalWeight) {
		return ErrInvalidWeight
	}
	if p.Length == nil || p.Width == nil || p.Height == nil {
		return ErrNilDimension
	}

	dimensions := []struct {
		name  string
		value decimal.Decimal
	}{
		{"length", *p.Length},
		{"width", *p.Width},
		{"height", *p.Height},
	}
	for _, d := range dimensions {
		if d.value.IsNegative() {
			return fmt.Errorf("%s: %w", d.name, ErrNegativeDimension)
		}
	}

	if p.Fragile == nil {
		return ErrNilFragile
	}
	return nil
}

func isNilOrNegative(v *decimal.Decimal) bool {
	return v == nil || v.IsNegative()
}
