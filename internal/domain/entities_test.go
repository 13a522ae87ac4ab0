package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_ProductIDsAndQuantities(t *testing.T) {
	// Arrange
	two, five := int64(2), int64(5)
	cart := &Cart{
		ID: 1,
		Items: []*CartItem{
			{ID: 10, Product: &Product{ID: 7}, Quantity: &two},
			{ID: 11, Product: &Product{ID: 3}, Quantity: &five},
		},
	}

	// Act
	ids, quantities := cart.ProductIDsAndQuantities()

	// Assert
	assert.Equal(t, []int64{7, 3}, ids)
	assert.Equal(t, []int64{2, 5}, quantities)
}

func TestCart_ProductIDsAndQuantities_KeepsPositionsForIncompleteItems(t *testing.T) {
	cart := &Cart{Items: []*CartItem{nil, {Product: nil}}}

	ids, quantities := cart.ProductIDsAndQuantities()

	assert.Equal(t, []int64{0, 0}, ids)
	assert.Equal(t, []int64{0, 0}, quantities)
}
