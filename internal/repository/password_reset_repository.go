package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

const resetKeyPrefix = "password_reset:"

// PasswordResetRepository keeps short-lived reset tokens mapped to identity ids.
type PasswordResetRepository interface {
	Create(ctx context.Context, token, identityID string, ttl time.Duration) error
	// Consume returns the identity id and deletes the token. Unknown or
	// expired tokens yield sentinel.ErrExpired.
	Consume(ctx context.Context, token string) (string, error)
}

type passwordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository constructs a Redis-backed token store.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

func (r *passwordResetRepository) Create(ctx context.Context, token, identityID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetKeyPrefix+token, identityID, ttl).Err(); err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	return nil
}

func (r *passwordResetRepository) Consume(ctx context.Context, token string) (string, error) {
	identityID, err := r.client.GetDel(ctx, resetKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrExpired
	}
	if err != nil {
		return "", errors.Join(sentinel.ErrUnavailable, err)
	}
	return identityID, nil
}
