package domain

import "strings"

// Role enumerates the fixed set of roles an identity can hold.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleProprietor Role = "Proprietor"
	RoleUser       Role = "User"
)

// KnownRoles lists every role the registry may store.
var KnownRoles = []Role{RoleAdmin, RoleProprietor, RoleUser}

// ParseRole resolves a role name against the enumeration. Matching is
// case-insensitive and "Guest" is accepted as the legacy name of User.
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "guest") {
		return RoleUser, true
	}
	for _, role := range KnownRoles {
		if strings.EqualFold(name, string(role)) {
			return role, true
		}
	}
	return "", false
}

// Valid reports whether r is part of the enumeration.
func (r Role) Valid() bool {
	for _, role := range KnownRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
