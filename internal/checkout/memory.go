package checkout

import (
	"context"
	"sync"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// MemoryStore implementa CustomerLookup e CartLookup em memória
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	carts     map[int64]*domain.Cart
}

// NewMemoryStore cria um repositório em memória vazio
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[int64]*domain.Customer),
		carts:     make(map[int64]*domain.Cart),
	}
}

// SaveCustomer grava ou substitui um cliente
func (s *MemoryStore) SaveCustomer(customer *domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[customer.ID] = customer
}

// SaveCart grava ou substitui um carrinho
func (s *MemoryStore) SaveCart(cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID] = cart
}

// FindByID busca um cliente pelo ID
func (s *MemoryStore) FindByID(_ context.Context, customerID int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// FindByIDForCustomer busca um carrinho que pertença ao cliente
func (s *MemoryStore) FindByIDForCustomer(_ context.Context, cartID int64, customer *domain.Customer) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[cartID]
	if !ok || customer == nil || cart.CustomerID != customer.ID {
		return nil, ErrCartNotFound
	}
	return cart, nil
}
