package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockRepository define a interface para operações de banco de dados de estoque
type StockRepository interface {
	GetStockLevels(ctx context.Context, productIDs []int64) (map[int64]int64, error)
	GetStockForUpdate(ctx context.Context, tx Tx, productID int64) (*ProductStock, error)
	DecreaseStock(ctx context.Context, tx Tx, productID, quantity int64, reference string) error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx interface para transações
type Tx interface {
	Commit() error
	Rollback() error
}

// PostgresStockRepository implementa StockRepository usando PostgreSQL
type PostgresStockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository cria uma nova instância de PostgresStockRepository
func NewStockRepository(db *pgxpool.Pool) StockRepository {
	return &PostgresStockRepository{
		db: db,
	}
}

// PostgresTx implementa a interface Tx
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit() error {
	return t.tx.Commit(context.Background())
}

func (t *PostgresTx) Rollback() error {
	return t.tx.Rollback(context.Background())
}

// BeginTx inicia uma nova transação
func (r *PostgresStockRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PostgresTx{tx: tx}, nil
}

// GetStockLevels lê o estoque dos produtos sem lock. Produtos sem registro ficam fora do mapa.
func (r *PostgresStockRepository) GetStockLevels(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, current_stock
		FROM products_stock
		WHERE product_id = ANY($1)
	`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	levels := make(map[int64]int64, len(productIDs))
	for rows.Next() {
		var id, stock int64
		if err := rows.Scan(&id, &stock); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels[id] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stock levels: %w", err)
	}

	return levels, nil
}

// GetStockForUpdate obtém o estoque do produto com lock pessimista (FOR UPDATE).
// Retorna nil sem erro quando o produto não tem registro de estoque.
func (r *PostgresStockRepository) GetStockForUpdate(ctx context.Context, tx Tx, productID int64) (*ProductStock, error) {
	pgTx := tx.(*PostgresTx).tx

	query := `
		SELECT product_id, current_stock, updated_at
		FROM products_stock
		WHERE product_id = $1
		FOR UPDATE
	`

	var stock ProductStock
	err := pgTx.QueryRow(ctx, query, productID).Scan(
		&stock.ProductID,
		&stock.CurrentStock,
		&stock.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product stock with lock: %w", err)
	}

	return &stock, nil
}

// DecreaseStock diminui o estoque e registra o movimento
func (r *PostgresStockRepository) DecreaseStock(ctx context.Context, tx Tx, productID, quantity int64, reference string) error {
	pgTx := tx.(*PostgresTx).tx

	// 1. Atualiza o estoque do produto
	updateQuery := `
		UPDATE products_stock
		SET current_stock = current_stock - $1,
		    updated_at = NOW()
		WHERE product_id = $2
	`

	_, err := pgTx.Exec(ctx, updateQuery, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to decrease stock: %w", err)
	}

	// 2. Insere o registro de movimentação
	movementID := uuid.New().String()
	insertQuery := `
		INSERT INTO stock_movements (id, product_id, reference, change_quantity, movement_type)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = pgTx.Exec(ctx, insertQuery, movementID, productID, reference, -quantity, MovementTypeDebited)
	if err != nil {
		return fmt.Errorf("failed to insert movement record: %w", err)
	}

	return nil
}
