package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func qty(n int64) *int64 {
	return &n
}

func flag(b bool) *bool {
	return &b
}

// product monta um produto com dimensões zeradas, de modo que o peso físico sempre domina
func product(price, weight string, fragile bool, t domain.ProductType) *domain.Product {
	return &domain.Product{
		ID:             1,
		Name:           "Produto",
		Description:    "Desc",
		Price:          dec(price),
		PhysicalWeight: dec(weight),
		Length:         dec("0"),
		Width:          dec("0"),
		Height:         dec("0"),
		Fragile:        flag(fragile),
		Type:           t,
	}
}

func cartOf(items ...*domain.CartItem) *domain.Cart {
	return &domain.Cart{ID: 1, CustomerID: 1, Items: items}
}

func item(p *domain.Product, n int64) *domain.CartItem {
	return &domain.CartItem{Product: p, Quantity: qty(n)}
}

func customer(region domain.Region, tier domain.LoyaltyTier) *domain.Customer {
	return &domain.Customer{ID: 1, Name: "Cliente", Region: region, LoyaltyTier: tier}
}

func defaultCustomer() *domain.Customer {
	return customer(domain.RegionSoutheast, domain.LoyaltyBronze)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got.String())
}
