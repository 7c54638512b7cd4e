package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// ServiceRepository encapsulates persistence of bookable services.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, createdBy *string, limit, offset int) ([]domain.Service, error)
}

// SpecialistRepository encapsulates specialist persistence.
type SpecialistRepository interface {
	Create(ctx context.Context, specialist *domain.Specialist) error
	GetByID(ctx context.Context, id string) (*domain.Specialist, error)
	List(ctx context.Context, limit, offset int) ([]domain.Specialist, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

const serviceSelect = `
        SELECT id, name, description, price_cents, created_by, owner_id, created_at, updated_at
        FROM services`

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (name, description, price_cents, created_by, owner_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		service.Name,
		service.Description,
		service.PriceCents,
		service.CreatedBy,
		service.OwnerID,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
	return mapPgError(err)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET name=$1, description=$2, price_cents=$3, owner_id=$4, updated_at=NOW()
        WHERE id=$5`
	return requireAffected(r.pool.Exec(ctx, query,
		service.Name,
		service.Description,
		service.PriceCents,
		service.OwnerID,
		service.ID,
	))
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id))
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	service, err := scanService(r.pool.QueryRow(ctx, serviceSelect+` WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return service, nil
}

func (r *serviceRepository) List(ctx context.Context, createdBy *string, limit, offset int) ([]domain.Service, error) {
	limit, offset = normalizePage(limit, offset)
	query := serviceSelect
	args := []any{}
	if createdBy != nil {
		args = append(args, *createdBy)
		query += " WHERE created_by=$1"
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *service)
	}
	return result, rows.Err()
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var service domain.Service
	if err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.PriceCents,
		&service.CreatedBy,
		&service.OwnerID,
		&service.CreatedAt,
		&service.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &service, nil
}

type specialistRepository struct {
	pool *pgxpool.Pool
}

// NewSpecialistRepository instantiates repository.
func NewSpecialistRepository(pool *pgxpool.Pool) SpecialistRepository {
	return &specialistRepository{pool: pool}
}

func (r *specialistRepository) Create(ctx context.Context, specialist *domain.Specialist) error {
	const query = `
        INSERT INTO specialists (identity_id, description, speciality)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		specialist.IdentityID,
		specialist.Description,
		specialist.Speciality,
	).Scan(&specialist.ID, &specialist.CreatedAt)
	return mapPgError(err)
}

func (r *specialistRepository) GetByID(ctx context.Context, id string) (*domain.Specialist, error) {
	const query = `
        SELECT id, identity_id, description, speciality, created_at
        FROM specialists WHERE id=$1`
	var s domain.Specialist
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.IdentityID,
		&s.Description,
		&s.Speciality,
		&s.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &s, nil
}

func (r *specialistRepository) List(ctx context.Context, limit, offset int) ([]domain.Specialist, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, identity_id, description, speciality, created_at
        FROM specialists ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Specialist
	for rows.Next() {
		var s domain.Specialist
		if err := rows.Scan(&s.ID, &s.IdentityID, &s.Description, &s.Speciality, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
