package auth

import "github.com/spec-kit/appointment-service/internal/domain"

// IdentityContext is the request-scoped view of the acting identity. It is
// built once per request and passed by value into the policy.
type IdentityContext struct {
	Authenticated bool
	Identity      domain.Identity
}

// Anonymous returns the context of a caller without credentials.
func Anonymous() IdentityContext {
	return IdentityContext{}
}

// NewIdentityContext snapshots an authenticated identity. A nil identity
// yields the anonymous context.
func NewIdentityContext(identity *domain.Identity) IdentityContext {
	if identity == nil {
		return Anonymous()
	}
	return IdentityContext{Authenticated: true, Identity: *identity.Clone()}
}

// ID returns the acting identity id, empty for anonymous callers.
func (c IdentityContext) ID() string {
	if !c.Authenticated {
		return ""
	}
	return c.Identity.ID
}

// HasRole reports whether the role set contains role.
func (c IdentityContext) HasRole(role domain.Role) bool {
	return c.Identity.HasRole(role)
}

// IsAdmin reports the admin capability: staff or superuser.
func (c IdentityContext) IsAdmin() bool {
	return c.Authenticated && (c.Identity.IsStaff || c.Identity.IsSuperuser)
}
