package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// Querier é o subconjunto de *pgxpool.Pool usado pelos repositórios
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CustomerRepository implementa CustomerLookup usando PostgreSQL
type CustomerRepository struct {
	db Querier
}

// NewCustomerRepository cria uma nova instância de CustomerRepository
func NewCustomerRepository(db Querier) *CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

// FindByID busca um cliente pelo ID
func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	var (
		customer domain.Customer
		region   *string
		tier     *string
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, name, region, loyalty_tier
		FROM customers WHERE id = $1
	`, customerID).Scan(&customer.ID, &customer.Name, &region, &tier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Region = domain.Region(deref(region))
	customer.LoyaltyTier = domain.LoyaltyTier(deref(tier))
	return &customer, nil
}

// CartRepository implementa CartLookup usando PostgreSQL
type CartRepository struct {
	db Querier
}

// NewCartRepository cria uma nova instância de CartRepository
func NewCartRepository(db Querier) *CartRepository {
	return &CartRepository{
		db: db,
	}
}

// FindByIDForCustomer busca o carrinho com seus itens, na ordem em que foram adicionados.
// Um carrinho de outro cliente é tratado como inexistente.
func (r *CartRepository) FindByIDForCustomer(ctx context.Context, cartID int64, customer *domain.Customer) (*domain.Cart, error) {
	if customer == nil {
		return nil, ErrCartNotFound
	}

	var cart domain.Cart
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id
		FROM carts WHERE id = $1 AND customer_id = $2
	`, cartID, customer.ID).Scan(&cart.ID, &cart.CustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items, err := r.findItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return &cart, nil
}

func (r *CartRepository) findItems(ctx context.Context, cartID int64) ([]*domain.CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.quantity,
		       p.id, p.name, p.description, p.price, p.physical_weight,
		       p.length, p.width, p.height, p.fragile, p.type
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.position, ci.id
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []*domain.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return items, nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var (
		item        domain.CartItem
		productID   *int64
		name        *string
		description *string
		productType *string
		price       decimal.NullDecimal
		weight      decimal.NullDecimal
		length      decimal.NullDecimal
		width       decimal.NullDecimal
		height      decimal.NullDecimal
		fragile     *bool
	)

	err := row.Scan(
		&item.ID, &item.Quantity,
		&productID, &name, &description, &price, &weight,
		&length, &width, &height, &fragile, &productType,
	)
	if err != nil {
		return nil, err
	}

	if productID != nil {
		item.Product = &domain.Product{
			ID:             *productID,
			Name:           deref(name),
			Description:    deref(description),
			Price:          decimalPtr(price),
			PhysicalWeight: decimalPtr(weight),
			Length:         decimalPtr(length),
			Width:          decimalPtr(width),
			Height:         decimalPtr(height),
			Fragile:        fragile,
			Type:           domain.ProductType(deref(productType)),
		}
	}

	return &item, nil
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
