package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)

	token, exp, err := tm.GenerateToken("id-1", "ana", []string{"Proprietor"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "id-1", claims.IdentityID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, []string{"Proprietor"}, claims.Roles)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.ttl = -time.Minute

	token, _, err := tm.GenerateToken("id-1", "ana", nil)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "correct-horse"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrInvalidCredentials)
}
