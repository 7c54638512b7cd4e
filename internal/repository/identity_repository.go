package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// IdentityRepository defines persistence access for identities and their
// role memberships.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Update(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	List(ctx context.Context, filter IdentityFilter) ([]domain.Identity, error)
	Count(ctx context.Context) (int, error)
}

// IdentityFilter defines query params for identity listing.
type IdentityFilter struct {
	Role      *domain.Role
	ExcludeID *string
	Active    *bool
	Limit     int
	Offset    int
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

const identityColumns = `
        i.id, i.username, i.email, i.first_name, i.last_name, i.phone_number, i.password_hash,
        i.is_staff, i.is_superuser, i.is_proprietor, i.is_active, i.created_at, i.updated_at,
        COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')`

const identitySelect = `
        SELECT ` + identityColumns + `
        FROM identities i
        LEFT JOIN identity_roles r ON r.identity_id = i.id`

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (username, email, first_name, last_name, phone_number, password_hash,
            is_staff, is_superuser, is_proprietor, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			identity.Username,
			identity.Email,
			identity.FirstName,
			identity.LastName,
			identity.Phone,
			identity.PasswordHash,
			identity.IsStaff,
			identity.IsSuperuser,
			identity.IsProprietor,
			identity.IsActive,
		).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt); err != nil {
			return err
		}
		return replaceRoles(ctx, tx, identity.ID, identity.Roles)
	})
	return mapPgError(err)
}

// Update writes the identity row and replaces its role set in one transaction.
func (r *identityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	const query = `
        UPDATE identities
        SET username=$1, email=$2, first_name=$3, last_name=$4, phone_number=$5, password_hash=$6,
            is_staff=$7, is_superuser=$8, is_proprietor=$9, is_active=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			identity.Username,
			identity.Email,
			identity.FirstName,
			identity.LastName,
			identity.Phone,
			identity.PasswordHash,
			identity.IsStaff,
			identity.IsSuperuser,
			identity.IsProprietor,
			identity.IsActive,
			identity.ID,
		).Scan(&identity.UpdatedAt); err != nil {
			return err
		}
		return replaceRoles(ctx, tx, identity.ID, identity.Roles)
	})
	return mapPgError(err)
}

func replaceRoles(ctx context.Context, tx pgx.Tx, identityID string, roles []domain.Role) error {
	if _, err := tx.Exec(ctx, `DELETE FROM identity_roles WHERE identity_id=$1`, identityID); err != nil {
		return err
	}
	for _, role := range roles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO identity_roles (identity_id, role) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			identityID, role,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.pool.Exec(ctx, `DELETE FROM identities WHERE id=$1`, id))
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.fetchSingle(ctx, identitySelect+` WHERE i.id=$1 GROUP BY i.id`, id)
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.fetchSingle(ctx, identitySelect+` WHERE lower(i.email)=lower($1) GROUP BY i.id`, email)
}

func (r *identityRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.fetchSingle(ctx, identitySelect+` WHERE i.username=$1 GROUP BY i.id`, username)
}

func (r *identityRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	identity, err := scanIdentity(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapPgError(err)
	}
	return identity, nil
}

func (r *identityRepository) List(ctx context.Context, filter IdentityFilter) ([]domain.Identity, error) {
	query := identitySelect
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM identity_roles x WHERE x.identity_id=i.id AND x.role=$%d)", len(args)))
	}
	if filter.ExcludeID != nil {
		args = append(args, *filter.ExcludeID)
		clauses = append(clauses, fmt.Sprintf("i.id<>$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("i.is_active=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit, offset := normalizePage(filter.Limit, filter.Offset)
	query += fmt.Sprintf(" GROUP BY i.id ORDER BY i.created_at DESC LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *identity)
	}
	return result, rows.Err()
}

func (r *identityRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var (
		identity domain.Identity
		roles    []string
	)
	if err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.FirstName,
		&identity.LastName,
		&identity.Phone,
		&identity.PasswordHash,
		&identity.IsStaff,
		&identity.IsSuperuser,
		&identity.IsProprietor,
		&identity.IsActive,
		&identity.CreatedAt,
		&identity.UpdatedAt,
		&roles,
	); err != nil {
		return nil, err
	}
	identity.Roles = make([]domain.Role, 0, len(roles))
	for _, role := range roles {
		identity.Roles = append(identity.Roles, domain.Role(role))
	}
	return &identity, nil
}
