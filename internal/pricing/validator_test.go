package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

func TestValidate_AcceptsWellFormedInput(t *testing.T) {
	cart := cartOf(item(product("10.00", "1.0", false, domain.ProductTypeFood), 1))

	err := Validate(cart, defaultCustomer())

	assert.NoError(t, err)
}

func TestValidate_Violations(t *testing.T) {
	valid := func() *domain.Product { return product("10.00", "1.0", false, domain.ProductTypeFood) }

	tests := []struct {
		name     string
		cart     *domain.Cart
		customer *domain.Customer
		want     error
	}{
		{
			name:     "nil cart",
			cart:     nil,
			customer: defaultCustomer(),
			want:     ErrNilCart,
		},
		{
			name:     "nil item list",
			cart:     &domain.Cart{ID: 1},
			customer: defaultCustomer(),
			want:     ErrEmptyCart,
		},
		{
			name:     "empty item list",
			cart:     &domain.Cart{ID: 1, Items: []*domain.CartItem{}},
			customer: defaultCustomer(),
			want:     ErrEmptyCart,
		},
		{
			name:     "nil item",
			cart:     cartOf(item(valid(), 1), nil),
			customer: defaultCustomer(),
			want:     ErrNilItem,
		},
		{
			name:     "nil quantity",
			cart:     cartOf(&domain.CartItem{Product: valid()}),
			customer: defaultCustomer(),
			want:     ErrNilQuantity,
		},
		{
			name:     "zero quantity",
			cart:     cartOf(item(valid(), 0)),
			customer: defaultCustomer(),
			want:     ErrInvalidQuantity,
		},
		{
			name:     "negative quantity",
			cart:     cartOf(item(valid(), -1)),
			customer: defaultCustomer(),
			want:     ErrInvalidQuantity,
		},
		{
			name:     "nil product",
			cart:     cartOf(&domain.CartItem{Quantity: qty(1)}),
			customer: defaultCustomer(),
			want:     ErrNilProduct,
		},
		{
			name: "empty product type",
			cart: func() *domain.Cart {
				p := valid()
				p.Type = ""
				return cartOf(item(p, 1))
			}(),
			customer: defaultCustomer(),
			want:     ErrNilProductType,
		},
		{
			name: "nil price",
			cart: func() *domain.Cart {
				p := valid()
				p.Price = nil
				return cartOf(item(p, 1))
			}(),
			customer: defaultCustomer(),
			want:     ErrInvalidPrice,
		},
		{
			name:     "negative price",
			cart:     cartOf(item(product("-0.01", "1.0", false, domain.ProductTypeFood), 1)),
			customer: defaultCustomer(),
			want:     ErrInvalidPrice,
		},
		{
			name: "nil weight",
			cart: func() *domain.Cart {
				p := valid()
				p.PhysicalWeight = nil
				return cartOf(item(p, 1))
			}(),
			customer: defaultCustomer(),
			want:     ErrInvalidWeight,
		},
		{
			name:     "negative weight",
			cart:     cartOf(item(product("10.00", "-1", false, domain.ProductTypeFood), 1)),
			customer: defaultCustomer(),
			want:     ErrInvalidWeight,
		},
		{
			name: "nil height",
			cart: func() *domain.Cart {
				p := valid()
				p.Height = nil
				return cartOf(item(p, 1))
			}(),
			customer: defaultCustomer(),
			want:     ErrNilDimension,
		},
		{
			name: "negative width",
			cart: func() *domain.Cart {
				p := valid()
				p.Width = dec("-3")
				return cartOf(item(p, 1))
			}(),
			customer: defaultCustomer(),
			want:     ErrNegativeDimension,
		},
		{
			name: "nil fragile flag",
			cart: func() *domain.Cart {
				p := valid()
				p.Fragile = nil
				return cartOf(item(p, 1))
			}(),
			customer: defaultCustomer(),
			want:     ErrNilFragile,
		},
		{
			name:     "nil customer",
			cart:     cartOf(item(valid(), 1)),
			customer: nil,
			want:     ErrNilCustomer,
		},
		{
			name:     "empty region",
			cart:     cartOf(item(valid(), 1)),
			customer: customer("", domain.LoyaltyGold),
			want:     ErrNilRegion,
		},
		{
			name:     "empty loyalty tier",
			cart:     cartOf(item(valid(), 1)),
			customer: customer(domain.RegionNorth, ""),
			want:     ErrNilLoyaltyTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cart, tt.customer)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestValidate_ReportsFirstViolationOnly(t *testing.T) {
	// Arrange: quantidade nula e produto nulo no mesmo item, cliente nulo
	cart := cartOf(&domain.CartItem{})

	// Act
	err := Validate(cart, nil)

	// Assert
	assert.ErrorIs(t, err, ErrNilQuantity)
	assert.NotErrorIs(t, err, ErrNilProduct)
	assert.NotErrorIs(t, err, ErrNilCustomer)
}

func TestValidate_CartIsCheckedBeforeCustomer(t *testing.T) {
	err := Validate(nil, nil)

	assert.ErrorIs(t, err, ErrNilCart)
}

func TestValidate_ItemErrorsCarryPosition(t *testing.T) {
	p := product("10.00", "1.0", false, domain.ProductTypeFood)
	bad := product("10.00", "1.0", false, domain.ProductTypeFood)
	bad.Length = dec("-1")

	err := Validate(cartOf(item(p, 1), item(bad, 1)), defaultCustomer())

	require.Error(t, err)
	assert.Equal(t, "item 1: length: product dimensions must be greater than or equal to zero", err.Error())
}

func TestValidationErrorsHaveDistinctMessages(t *testing.T) {
	all := []*ValidationError{
		ErrNilCart, ErrEmptyCart, ErrNilItem, ErrNilQuantity, ErrInvalidQuantity,
		ErrNilProduct, ErrNilProductType, ErrInvalidPrice, ErrInvalidWeight,
		ErrNilDimension, ErrNegativeDimension, ErrNilFragile, ErrNilCustomer,
		ErrNilRegion, ErrNilLoyaltyTier,
	}

	seen := make(map[string]bool)
	for _, e := range all {
		assert.Falsef(t, seen[e.Message], "duplicated message %q", e.Message)
		seen[e.Message] = true
	}
}
