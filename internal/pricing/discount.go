package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

var (
	rateNone    = decimal.Zero
	rate5       = decimal.RequireFromString("0.05")
	rate10      = decimal.RequireFromString("0.10")
	rate15      = decimal.RequireFromString("0.15")
	rate20      = decimal.RequireFromString("0.20")
	fiveHundred = decimal.RequireFromString("500.00")
	oneThousand = decimal.RequireFromString("1000.00")
)

// typeTotals acumula subtotal e quantidade de um tipo de produto
type typeTotals struct {
	subtotal decimal.Decimal
	units    int64
}

// ProductSubtotal calcula o custo dos produtos com desconto por tipo e depois por valor total.
// O resultado não é arredondado. O carrinho precisa ter sido validado antes.
func ProductSubtotal(cart *domain.Cart) decimal.Decimal {
	total := typeDiscountedTotal(cart)
	return applyDiscount(total, totalValueDiscountRate(total))
}

func typeDiscountedTotal(cart *domain.Cart) decimal.Decimal {
	order, totals := accumulateByType(cart)

	total := decimal.Zero
	for _, t := range order {
		acc := totals[t]
		total = total.Add(applyDiscount(acc.subtotal, quantityDiscountRate(acc.units)))
	}
	return total
}

// accumulateByType agrupa os itens por tipo, preservando a ordem de aparição
func accumulateByType(cart *domain.Cart) ([]domain.ProductType, map[domain.ProductType]typeTotals) {
	var order []domain.ProductType
	totals := make(map[domain.ProductType]typeTotals)

	for _, item := range cart.Items {
		p := item.Product
		qty := *item.Quantity

		acc, seen := totals[p.Type]
		if !seen {
			order = append(order, p.Type)
		}
		acc.subtotal = acc.subtotal.Add(p.Price.Mul(decimal.NewFromInt(qty)))
		acc.units += qty
		totals[p.Type] = acc
	}
	return order, totals
}

// quantityDiscountRate devolve a maior faixa aplicável, sem acumular faixas
func quantityDiscountRate(units int64) decimal.Decimal {
	switch {
	case units >= 8:
		return rate15
	case units >= 5:
		return rate10
	case units >= 3:
		return rate5
	default:
		return rateNone
	}
}

// totalValueDiscountRate: (500, 1000] -> 10%, > 1000 -> 20%
func totalValueDiscountRate(total decimal.Decimal) decimal.Decimal {
	switch {
	case total.GreaterThan(oneThousand):
		return rate20
	case total.GreaterThan(fiveHundred):
		return rate10
	default:
		return rateNone
	}
}

func applyDiscount(value, rate decimal.Decimal) decimal.Decimal {
	return value.Sub(value.Mul(rate))
}
