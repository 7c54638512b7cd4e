package domain

import (
	"strings"
	"time"
)

// Identity is an account holder: admin, proprietor or regular user.
type Identity struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Phone        *string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	IsProprietor bool
	IsActive     bool
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether role is part of the identity's role set.
func (i *Identity) HasRole(role Role) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PrimaryRole resolves the role business logic treats as dominant:
// superuser > staff > proprietor > user.
func (i *Identity) PrimaryRole() Role {
	switch {
	case i == nil:
		return RoleUser
	case i.IsSuperuser, i.IsStaff:
		return RoleAdmin
	case i.IsProprietor, i.HasRole(RoleProprietor):
		return RoleProprietor
	default:
		return RoleUser
	}
}

// PhoneNumber returns the trimmed phone number or "" when none is set.
func (i *Identity) PhoneNumber() string {
	if i == nil || i.Phone == nil {
		return ""
	}
	return strings.TrimSpace(*i.Phone)
}

// DisplayName prefers the first name and falls back to the username.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if name := strings.TrimSpace(i.FirstName); name != "" {
		return name
	}
	return i.Username
}

// Clone returns a deep copy so callers can mutate roles without aliasing.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.Roles = append([]Role(nil), i.Roles...)
	if i.Phone != nil {
		phone := *i.Phone
		out.Phone = &phone
	}
	return &out
}
