package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository/memory"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

func testApp(t *testing.T) (*fiber.App, *TokenManager, *memory.IdentityStore) {
	t.Helper()
	tokens := NewTokenManager("test-secret", 5)
	store := memory.NewIdentityStore()
	policy := NewPolicy(nil, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var domainErr *errorutil.DomainError
			if errors.As(err, &domainErr) {
				return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Use(NewAuthMiddleware(tokens, store).Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		idc := IdentityFromContext(c)
		return c.JSON(fiber.Map{"authenticated": idc.Authenticated, "id": idc.ID()})
	})
	app.Get("/admin", RequireAction(policy, ActionViewAdminDashboard), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/me", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, tokens, store
}

func seedIdentity(t *testing.T, store *memory.IdentityStore, staff, active bool) *domain.Identity {
	t.Helper()
	identity := &domain.Identity{Username: "u", Email: "u@example.com", IsStaff: staff, IsActive: active}
	require.NoError(t, store.Create(context.Background(), identity))
	return identity
}

func bearer(t *testing.T, tokens *TokenManager, identity *domain.Identity) string {
	t.Helper()
	token, _, err := tokens.GenerateToken(identity.ID, identity.Username, nil)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAnonymousRequestsContinue(t *testing.T) {
	app, _, _ := testApp(t)

	assert.Equal(t, http.StatusOK, doRequest(t, app, "/whoami", ""))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/admin", ""))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/me", ""))
}

func TestRequireActionForbidsNonAdmin(t *testing.T) {
	app, tokens, store := testApp(t)
	user := seedIdentity(t, store, false, true)

	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "/admin", bearer(t, tokens, user)))
	assert.Equal(t, http.StatusOK, doRequest(t, app, "/me", bearer(t, tokens, user)))
}

func TestRequireActionAllowsStaff(t *testing.T) {
	app, tokens, store := testApp(t)
	admin := seedIdentity(t, store, true, true)

	assert.Equal(t, http.StatusOK, doRequest(t, app, "/admin", bearer(t, tokens, admin)))
}

func TestBlockedIdentityIsRejected(t *testing.T) {
	app, tokens, store := testApp(t)
	blocked := seedIdentity(t, store, true, false)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/whoami", bearer(t, tokens, blocked)))
}

func TestInvalidCredentials(t *testing.T) {
	app, tokens, _ := testApp(t)
	ghost := &domain.Identity{ID: "00000000-0000-0000-0000-000000000000", Username: "ghost"}

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/whoami", "Token abc"))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/whoami", "Bearer not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/whoami", bearer(t, tokens, ghost)))

	other := NewTokenManager("other-secret", 5)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, app, "/whoami", bearer(t, other, ghost)))
}
