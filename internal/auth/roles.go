package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

// RequireAction gates a route on the policy decision for action. Denials
// surface as explicit 401/403 errors, never as redirects.
func RequireAction(policy *Policy, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idc := IdentityFromContext(c)
		decision := policy.Authorize(idc, action)
		if !decision.Allowed {
			return apperrors.NewAuthorizationError(string(action), decision.Reason)
		}
		return c.Next()
	}
}

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IdentityFromContext(c).Authenticated {
			return apperrors.NewAuthorizationError("", ReasonNotAuthenticated)
		}
		return c.Next()
	}
}
