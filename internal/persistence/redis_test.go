package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/config"
)

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedis(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestNilRedisPingReportsMissingClient(t *testing.T) {
	var r *Redis
	assert.EqualError(t, r.Ping(context.Background()), "redis client not configured")
	assert.NotPanics(t, r.Close)
}
