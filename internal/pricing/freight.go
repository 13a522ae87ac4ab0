package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// cubicWeightPrecision é o número de casas mantidas na divisão do peso cúbico
const cubicWeightPrecision = 10

var (
	cubicDivisor        = decimal.NewFromInt(6000)
	minimumFreightFee   = decimal.RequireFromString("12.00")
	fragileFeePerUnit   = decimal.RequireFromString("5.00")
	bracketFreeLimit    = decimal.RequireFromString("5.00")
	bracketLightLimit   = decimal.RequireFromString("10.00")
	bracketMediumLimit  = decimal.RequireFromString("50.00")
	ratePerKgLight      = decimal.RequireFromString("2.00")
	ratePerKgMedium     = decimal.RequireFromString("4.00")
	ratePerKgHeavy      = decimal.RequireFromString("7.00")
	silverFreightFactor = decimal.RequireFromString("0.50")
	multiplierSoutheast = decimal.RequireFromString("1.00")
	multiplierSouth     = decimal.RequireFromString("1.05")
	multiplierNortheast = decimal.RequireFromString("1.10")
	multiplierMidwest   = decimal.RequireFromString("1.20")
	multiplierNorth     = decimal.RequireFromString("1.30")
)

// Freight calcula o frete final: faixa de peso, taxa de frágeis, região e fidelidade, nessa ordem.
// Carrinho e cliente precisam ter sido validados antes.
func Freight(cart *domain.Cart, customer *domain.Customer) decimal.Decimal {
	base := BaseFreight(TotalTaxableWeight(cart))
	withFees := base.Add(FragileSurcharge(cart))
	regional := withFees.Mul(RegionMultiplier(customer.Region))
	return ApplyLoyalty(regional, customer.LoyaltyTier)
}

// CubicWeight é (comprimento x largura x altura) / 6000, com 10 casas decimais (half-up)
func CubicWeight(p *domain.Product) decimal.Decimal {
	volume := p.Length.Mul(*p.Width).Mul(*p.Height)
	return volume.DivRound(cubicDivisor, cubicWeightPrecision)
}

// TaxableWeight é o maior entre o peso físico e o peso cúbico
func TaxableWeight(p *domain.Product) decimal.Decimal {
	return decimal.Max(*p.PhysicalWeight, CubicWeight(p))
}

// TotalTaxableWeight soma peso tributável x quantidade de todos os itens
func TotalTaxableWeight(cart *domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(TaxableWeight(item.Product).Mul(decimal.NewFromInt(*item.Quantity)))
	}
	return total
}

// BaseFreight aplica a tabela de faixas de peso. Até 5 kg não há frete nem taxa mínima.
func BaseFreight(weight decimal.Decimal) decimal.Decimal {
	switch {
	case weight.LessThanOrEqual(bracketFreeLimit):
		return decimal.Zero
	case weight.LessThanOrEqual(bracketLightLimit):
		return weight.Mul(ratePerKgLight).Add(minimumFreightFee)
	case weight.LessThanOrEqual(bracketMediumLimit):
		return weight.Mul(ratePerKgMedium).Add(minimumFreightFee)
	default:
		return weight.Mul(ratePerKgHeavy).Add(minimumFreightFee)
	}
}

// FragileSurcharge cobra 5.00 por unidade de produto frágil
func FragileSurcharge(cart *domain.Cart) decimal.Decimal {
	var units int64
	for _, item := range cart.Items {
		if f := item.Product.Fragile; f != nil && *f {
			units += *item.Quantity
		}
	}
	return fragileFeePerUnit.Mul(decimal.NewFromInt(units))
}

// RegionMultiplier devolve o multiplicador regional; região desconhecida ou vazia vale 1.00
func RegionMultiplier(region domain.Region) decimal.Decimal {
	switch region {
	case domain.RegionSoutheast:
		return multiplierSoutheast
	case domain.RegionSouth:
		return multiplierSouth
	case domain.RegionNortheast:
		return multiplierNortheast
	case domain.RegionMidwest:
		return multiplierMidwest
	case domain.RegionNorth:
		return multiplierNorth
	default:
		return multiplierSoutheast
	}
}

// ApplyLoyalty aplica o benefício de fidelidade sobre o frete
func ApplyLoyalty(freight decimal.Decimal, tier domain.LoyaltyTier) decimal.Decimal {
	switch tier {
	case domain.LoyaltyGold:
		return decimal.Zero
	case domain.LoyaltySilver:
		return freight.Mul(silverFreightFactor)
	case domain.LoyaltyBronze:
		return freight
	default:
		return freight
	}
}
