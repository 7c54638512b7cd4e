package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/repository"
	apperrors "github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

const identityKey = "auth_identity"

// AuthMiddleware validates bearer tokens and loads the acting identity.
type AuthMiddleware struct {
	tokens     *TokenManager
	identities repository.IdentityRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, identities repository.IdentityRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, identities: identities}
}

// Handle attaches an IdentityContext to every request. Requests without an
// Authorization header continue as anonymous and are denied by the policy;
// malformed or invalid credentials are rejected here.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		c.Locals(identityKey, Anonymous())
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	identity, err := m.identities.GetByID(c.UserContext(), claims.IdentityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return apperrors.NewUnauthorized("identity not found")
		}
		return apperrors.MapError(err)
	}
	if !identity.IsActive {
		return apperrors.NewUnauthorized("account blocked")
	}

	c.Locals(identityKey, NewIdentityContext(identity))
	return c.Next()
}

// IdentityFromContext returns the request identity, anonymous when absent.
func IdentityFromContext(c *fiber.Ctx) IdentityContext {
	if idc, ok := c.Locals(identityKey).(IdentityContext); ok {
		return idc
	}
	return Anonymous()
}
