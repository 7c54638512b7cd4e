package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// ClientRepository encapsulates client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]domain.Client, error)
	Count(ctx context.Context) (int, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

const clientSelect = `
        SELECT id, first_name, last_name, email, phone_number, address, created_by, created_at, updated_at
        FROM clients`

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (first_name, last_name, email, phone_number, address, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Address,
		client.CreatedBy,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	return mapPgError(err)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET first_name=$1, last_name=$2, email=$3, phone_number=$4, address=$5, updated_at=NOW()
        WHERE id=$6`
	return requireAffected(r.pool.Exec(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.Phone,
		client.Address,
		client.ID,
	))
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id))
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	client, err := scanClient(r.pool.QueryRow(ctx, clientSelect+` WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return client, nil
}

func (r *clientRepository) ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]domain.Client, error) {
	limit, offset = normalizePage(limit, offset)
	query := clientSelect + fmt.Sprintf(` WHERE created_by=$1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.CreatedBy,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}
