package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// PaymentRepository encapsulates payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]domain.Payment, error)
}

// TransactionRepository encapsulates transaction persistence.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]domain.Transaction, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (identity_id, amount_cents, due_date, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		payment.IdentityID,
		payment.AmountCents,
		payment.DueDate,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	return mapPgError(err)
}

func (r *paymentRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]domain.Payment, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, identity_id, amount_cents, due_date, status, created_at
        FROM payments WHERE identity_id=$1
        ORDER BY due_date DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.IdentityID, &p.AmountCents, &p.DueDate, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository instantiates repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (identity_id, amount_cents)
        VALUES ($1,$2)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, txn.IdentityID, txn.AmountCents).Scan(&txn.ID, &txn.CreatedAt)
	return mapPgError(err)
}

func (r *transactionRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]domain.Transaction, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, identity_id, amount_cents, created_at
        FROM transactions WHERE identity_id=$1
        ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.IdentityID, &t.AmountCents, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
