package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// EventRepository encapsulates calendar event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)
}

// EventRegistrationRepository encapsulates event sign-ups.
type EventRegistrationRepository interface {
	Create(ctx context.Context, registration *domain.EventRegistration) error
	ListByIdentity(ctx context.Context, identityID string) ([]domain.EventRegistration, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (identity_id, title, description, event_date)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		event.IdentityID,
		event.Title,
		event.Description,
		event.EventDate,
	).Scan(&event.ID, &event.CreatedAt)
	return mapPgError(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `
        SELECT id, identity_id, title, description, event_date, created_at
        FROM events WHERE id=$1`
	var e domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.IdentityID,
		&e.Title,
		&e.Description,
		&e.EventDate,
		&e.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &e, nil
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, identity_id, title, description, event_date, created_at
        FROM events ORDER BY event_date ASC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.IdentityID, &e.Title, &e.Description, &e.EventDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

type eventRegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewEventRegistrationRepository instantiates repository.
func NewEventRegistrationRepository(pool *pgxpool.Pool) EventRegistrationRepository {
	return &eventRegistrationRepository{pool: pool}
}

// Create fails with ErrConflict when the identity is already registered.
func (r *eventRegistrationRepository) Create(ctx context.Context, registration *domain.EventRegistration) error {
	const query = `
        INSERT INTO event_registrations (identity_id, event_id)
        VALUES ($1,$2)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		registration.IdentityID,
		registration.EventID,
	).Scan(&registration.ID, &registration.CreatedAt)
	return mapPgError(err)
}

func (r *eventRegistrationRepository) ListByIdentity(ctx context.Context, identityID string) ([]domain.EventRegistration, error) {
	const query = `
        SELECT id, identity_id, event_id, created_at
        FROM event_registrations WHERE identity_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.EventRegistration
	for rows.Next() {
		var reg domain.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.IdentityID, &reg.EventID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	return result, rows.Err()
}
