package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// totalScale é a escala monetária do total final
const totalScale = 2

// Quote detalha as parcelas do custo total
type Quote struct {
	ProductSubtotal decimal.Decimal `json:"product_subtotal"`
	Freight         decimal.Decimal `json:"freight"`
	Total           decimal.Decimal `json:"total"`
}

// Calculator compõe o custo dos produtos e o frete no total da compra
type Calculator struct{}

// NewCalculator cria uma nova instância de Calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateTotal valida as entradas e devolve subtotal + frete arredondado para 2 casas (half-up).
// Este é o único ponto de arredondamento do cálculo.
func (c *Calculator) CalculateTotal(cart *domain.Cart, customer *domain.Customer) (decimal.Decimal, error) {
	q, err := c.Quote(cart, customer)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Total, nil
}

// Quote faz o mesmo cálculo de CalculateTotal, mantendo as parcelas sem arredondar
func (c *Calculator) Quote(cart *domain.Cart, customer *domain.Customer) (Quote, error) {
	if err := Validate(cart, customer); err != nil {
		return Quote{}, err
	}

	subtotal := ProductSubtotal(cart)
	freight := Freight(cart, customer)

	return Quote{
		ProductSubtotal: subtotal,
		Freight:         freight,
		Total:           roundHalfUp(subtotal.Add(freight)),
	}, nil
}

// roundHalfUp arredonda para a escala monetária. decimal.Round arredonda "half away from zero",
// que coincide com half-up para os valores não negativos produzidos aqui.
func roundHalfUp(v decimal.Decimal) decimal.Decimal {
	return v.Round(totalScale)
}
