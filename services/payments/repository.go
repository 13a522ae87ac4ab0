package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentRepository define a interface para operações de banco de dados de pagamentos
type PaymentRepository interface {
	GetWalletForUpdate(ctx context.Context, tx Tx, customerID int64) (*Wallet, error)
	AuthorizePayment(ctx context.Context, tx Tx, wallet *Wallet, amount decimal.Decimal) (int64, error)
	GetPaymentForUpdate(ctx context.Context, tx Tx, transactionID int64) (*Payment, error)
	CancelPayment(ctx context.Context, tx Tx, payment *Payment) error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx interface para transações
type Tx interface {
	Commit() error
	Rollback() error
}

// PostgresPaymentRepository implementa PaymentRepository usando PostgreSQL
type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository cria uma nova instância de PostgresPaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PostgresPaymentRepository{
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
func (r *PostgresPaymentRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PostgresTx{tx: tx}, nil
}

// GetWalletForUpdate obtém a carteira com lock pessimista (FOR UPDATE).
// Retorna nil sem erro quando o cliente não tem carteira.
func (r *PostgresPaymentRepository) GetWalletForUpdate(ctx context.Context, tx Tx, customerID int64) (*Wallet, error) {
	pgTx := tx.(*PostgresTx).tx

	query := `
		SELECT id, customer_id, balance, updated_at
		FROM wallets
		WHERE customer_id = $1
		FOR UPDATE
	`

	var wallet Wallet
	err := pgTx.QueryRow(ctx, query, customerID).Scan(
		&wallet.ID,
		&wallet.CustomerID,
		&wallet.Balance,
		&wallet.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet with lock: %w", err)
	}

	return &wallet, nil
}

// AuthorizePayment debita a carteira e registra o pagamento, devolvendo o id da transação
func (r *PostgresPaymentRepository) AuthorizePayment(ctx context.Context, tx Tx, wallet *Wallet, amount decimal.Decimal) (int64, error) {
	pgTx := tx.(*PostgresTx).tx

	// 1. Atualiza o saldo da carteira
	_, err := pgTx.Exec(ctx, `
		UPDATE wallets
		SET balance = balance - $1,
		    updated_at = NOW()
		WHERE id = $2
	`, amount, wallet.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to debit wallet: %w", err)
	}

	// 2. Insere o registro de pagamento
	var transactionID int64
	err = pgTx.QueryRow(ctx, `
		INSERT INTO payments (wallet_id, customer_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING transaction_id
	`, wallet.ID, wallet.CustomerID, amount, PaymentStatusAuthorized).Scan(&transactionID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payment record: %w", err)
	}

	return transactionID, nil
}

// GetPaymentForUpdate obtém o pagamento com lock pessimista. Retorna nil sem erro se não existir.
func (r *PostgresPaymentRepository) GetPaymentForUpdate(ctx context.Context, tx Tx, transactionID int64) (*Payment, error) {
	pgTx := tx.(*PostgresTx).tx

	query := `
		SELECT transaction_id, wallet_id, customer_id, amount, status, created_at
		FROM payments
		WHERE transaction_id = $1
		FOR UPDATE
	`

	var payment Payment
	err := pgTx.QueryRow(ctx, query, transactionID).Scan(
		&payment.TransactionID,
		&payment.WalletID,
		&payment.CustomerID,
		&payment.Amount,
		&payment.Status,
		&payment.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment with lock: %w", err)
	}

	return &payment, nil
}

// CancelPayment credita o valor de volta na carteira e marca o pagamento como cancelado
func (r *PostgresPaymentRepository) CancelPayment(ctx context.Context, tx Tx, payment *Payment) error {
	pgTx := tx.(*PostgresTx).tx

	// 1. Devolve o valor à carteira
	_, err := pgTx.Exec(ctx, `
		UPDATE wallets
		SET balance = balance + $1,
		    updated_at = NOW()
		WHERE id = $2
	`, payment.Amount, payment.WalletID)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	// 2. Marca o pagamento
	_, err = pgTx.Exec(ctx, `
		UPDATE payments
		SET status = $1,
		    cancelled_at = NOW()
		WHERE transaction_id = $2
	`, PaymentStatusCancelled, payment.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return nil
}
