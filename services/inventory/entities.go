package main

import (
	"sort"
	"time"
)

// ProductStock representa o estoque atual de um produto
type ProductStock struct {
	ProductID    int64     `json:"product_id" db:"product_id"`
	CurrentStock int64     `json:"current_stock" db:"current_stock"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// StockMovement representa uma movimentação de estoque
type StockMovement struct {
	ID             string    `json:"id" db:"id"`
	ProductID      int64     `json:"product_id" db:"product_id"`
	Reference      string    `json:"reference" db:"reference"`
	ChangeQuantity int64     `json:"change_quantity" db:"change_quantity"`
	MovementType   string    `json:"movement_type" db:"movement_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// MovementType representa os tipos de movimentação de estoque
const (
	MovementTypeDebited = "debited"
)

// stockLine é a quantidade total pedida de um produto
type stockLine struct {
	ProductID int64
	Quantity  int64
}

// stockOrder agrega as listas paralelas do pedido por produto
type stockOrder struct {
	// ids distintos na ordem em que aparecem no pedido
	productIDs []int64
	requested  map[int64]int64
}

func newStockOrder(productIDs, quantities []int64) (*stockOrder, error) {
	if len(productIDs) != len(quantities) {
		return nil, ErrInvalidRequest
	}

	o := &stockOrder{requested: make(map[int64]int64, len(productIDs))}
	for i, id := range productIDs {
		if quantities[i] <= 0 {
			return nil, ErrInvalidRequest
		}
		if _, seen := o.requested[id]; !seen {
			o.productIDs = append(o.productIDs, id)
		}
		o.requested[id] += quantities[i]
	}
	return o, nil
}

// lockOrder devolve as linhas em ordem crescente de produto, a ordem em que os locks são tomados
func (o *stockOrder) lockOrder() []stockLine {
	lines := make([]stockLine, 0, len(o.productIDs))
	for _, id := range o.productIDs {
		lines = append(lines, stockLine{ProductID: id, Quantity: o.requested[id]})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// unavailable devolve os produtos sem estoque suficiente, na ordem do pedido
func (o *stockOrder) unavailable(levels map[int64]int64) []int64 {
	var ids []int64
	for _, id := range o.productIDs {
		if levels[id] < o.requested[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
