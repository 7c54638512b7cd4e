package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// AppointmentRepository encapsulates appointment persistence.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]domain.Appointment, error)
}

type appointmentRepository struct {
	pool *pgxpool.Pool
}

// NewAppointmentRepository instantiates repository.
func NewAppointmentRepository(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepository{pool: pool}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) error {
	const query = `
        INSERT INTO appointments (identity_id, service_id, specialist_id, scheduled_at, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		appointment.IdentityID,
		appointment.ServiceID,
		appointment.SpecialistID,
		appointment.ScheduledAt,
		appointment.CreatedBy,
	).Scan(&appointment.ID, &appointment.CreatedAt)
	return mapPgError(err)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.pool.Exec(ctx, `DELETE FROM appointments WHERE id=$1`, id))
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	const query = `
        SELECT id, identity_id, service_id, specialist_id, scheduled_at, created_by, created_at
        FROM appointments WHERE id=$1`
	var a domain.Appointment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.IdentityID,
		&a.ServiceID,
		&a.SpecialistID,
		&a.ScheduledAt,
		&a.CreatedBy,
		&a.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &a, nil
}

func (r *appointmentRepository) ListByIdentity(ctx context.Context, identityID string, limit, offset int) ([]domain.Appointment, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, identity_id, service_id, specialist_id, scheduled_at, created_by, created_at
        FROM appointments WHERE identity_id=$1
        ORDER BY scheduled_at ASC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.IdentityID, &a.ServiceID, &a.SpecialistID, &a.ScheduledAt, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
