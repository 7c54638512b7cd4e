package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

func TestNewAuthorizationError(t *testing.T) {
	err := NewAuthorizationError("block_user", ReasonNotAuthenticated)
	assert.True(t, HasCode(err, CodeUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(err).HTTPStatus)

	err = NewAuthorizationError("block_user", "insufficient_capability")
	de := ToDomainError(err)
	assert.Equal(t, CodeForbidden, de.Code)
	assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	assert.Equal(t, "insufficient_capability", de.Details["reason"])
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "not found sentinel", err: fmt.Errorf("client: %w", sentinel.ErrNotFound), code: CodeNotFound},
		{name: "pgx no rows", err: pgx.ErrNoRows, code: CodeNotFound},
		{name: "conflict sentinel", err: sentinel.ErrConflict, code: CodeConflict},
		{name: "unknown failure", err: errors.New("connection reset"), code: CodeStorage},
		{name: "domain error passes through", err: NewValidationError("bad", nil), code: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			require.Error(t, mapped)
			assert.True(t, HasCode(mapped, tt.code), "got %v", mapped)
		})
	}

	assert.NoError(t, MapError(nil))
}

func TestWrapKeepsSentinel(t *testing.T) {
	target := errors.New("role not found")
	err := Wrap(CodeRoleNotFound, "unknown role", http.StatusBadRequest, target)
	assert.ErrorIs(t, err, target)
	assert.True(t, HasCode(err, CodeRoleNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeRoleNotFound))
}
