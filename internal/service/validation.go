package service

import (
	"net/mail"
	"strings"

	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

const minPasswordLength = 8

// fieldErrors collects per-field validation failures.
type fieldErrors map[string]any

func (f fieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "required"
	}
}

func (f fieldErrors) email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		f[field] = "required"
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		f[field] = "invalid email address"
	}
}

func (f fieldErrors) password(field, value string) {
	if len(value) < minPasswordLength {
		f[field] = "must be at least 8 characters"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return errorutil.NewValidationError("invalid input", map[string]any(f))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional trims s and returns nil for blank values.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
