package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// MessageRepository encapsulates direct message persistence.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListForRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Message, error)
}

// NotificationRepository encapsulates the in-app inbox.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListUnread(ctx context.Context, identityID string, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (sender_id, recipient_id, subject, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		msg.SenderID,
		msg.RecipientID,
		msg.Subject,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
	return mapPgError(err)
}

func (r *messageRepository) ListForRecipient(ctx context.Context, recipientID string, limit, offset int) ([]domain.Message, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, sender_id, recipient_id, subject, body, created_at
        FROM messages WHERE recipient_id=$1
        ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (identity_id, message, is_read)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, n.IdentityID, n.Message, n.IsRead).Scan(&n.ID, &n.CreatedAt)
	return mapPgError(err)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	const query = `
        SELECT id, identity_id, message, is_read, created_at
        FROM notifications WHERE id=$1`
	var n domain.Notification
	if err := r.pool.QueryRow(ctx, query, id).Scan(&n.ID, &n.IdentityID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &n, nil
}

func (r *notificationRepository) ListUnread(ctx context.Context, identityID string, limit, offset int) ([]domain.Notification, error) {
	limit, offset = normalizePage(limit, offset)
	query := fmt.Sprintf(`
        SELECT id, identity_id, message, is_read, created_at
        FROM notifications WHERE identity_id=$1 AND is_read=FALSE
        ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.IdentityID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	return requireAffected(r.pool.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE id=$1`, id))
}
