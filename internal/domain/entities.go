package domain

import (
	"github.com/shopspring/decimal"
)

// ProductType classifica o produto para o desconto por quantidade.
// O conjunto é aberto: qualquer valor não vazio é aceito.
type ProductType string

const (
	ProductTypeFood       ProductType = "FOOD"
	ProductTypeElectronic ProductType = "ELECTRONIC"
	ProductTypeBook       ProductType = "BOOK"
)

// Region representa a região de entrega do cliente
type Region string

const (
	RegionSoutheast Region = "SOUTHEAST"
	RegionSouth     Region = "SOUTH"
	RegionNortheast Region = "NORTHEAST"
	RegionMidwest   Region = "MIDWEST"
	RegionNorth     Region = "NORTH"
)

// LoyaltyTier representa o nível de fidelidade do cliente
type LoyaltyTier string

const (
	LoyaltyGold   LoyaltyTier = "GOLD"
	LoyaltySilver LoyaltyTier = "SILVER"
	LoyaltyBronze LoyaltyTier = "BRONZE"
)

// Product representa um produto do catálogo.
// Campos ponteiro podem vir nulos do banco ou do JSON e são checados pelo validador.
type Product struct {
	ID             int64            `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	Description    string           `json:"description" db:"description"`
	Price          *decimal.Decimal `json:"price" db:"price"`
	PhysicalWeight *decimal.Decimal `json:"physical_weight" db:"physical_weight"`
	Length         *decimal.Decimal `json:"length" db:"length"`
	Width          *decimal.Decimal `json:"width" db:"width"`
	Height         *decimal.Decimal `json:"height" db:"height"`
	Fragile        *bool            `json:"fragile" db:"fragile"`
	Type           ProductType      `json:"type" db:"type"`
}

// CartItem representa um item do carrinho
type CartItem struct {
	ID       int64    `json:"id" db:"id"`
	Product  *Product `json:"product"`
	Quantity *int64   `json:"quantity" db:"quantity"`
}

// Cart representa o carrinho de compras, com itens na ordem de inserção
type Cart struct {
	ID         int64       `json:"id" db:"id"`
	CustomerID int64       `json:"customer_id" db:"customer_id"`
	Items      []*CartItem `json:"items"`
}

// Customer representa o cliente que finaliza a compra
type Customer struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Region      Region      `json:"region" db:"region"`
	LoyaltyTier LoyaltyTier `json:"loyalty_tier" db:"loyalty_tier"`
}

// ProductIDsAndQuantities devolve listas paralelas na ordem do carrinho.
// Itens ou campos nulos contribuem com zero.
func (c *Cart) ProductIDsAndQuantities() ([]int64, []int64) {
	ids := make([]int64, 0, len(c.Items))
	quantities := make([]int64, 0, len(c.Items))
	for _, item := range c.Items {
		var id, qty int64
		if item != nil {
			if item.Product != nil {
				id = item.Product.ID
			}
			if item.Quantity != nil {
				qty = *item.Quantity
			}
		}
		ids = append(ids, id)
		quantities = append(quantities, qty)
	}
	return ids, quantities
}
