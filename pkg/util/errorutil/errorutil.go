package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// Error codes surfaced to API callers.
const (
	CodeValidation       = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeRoleNotFound     = "ROLE_NOT_FOUND"
	CodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	CodeStorage          = "STORAGE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// ReasonNotAuthenticated mirrors the policy reason for anonymous callers.
const ReasonNotAuthenticated = "not_authenticated"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// Wrap builds a DomainError around a sentinel so errors.Is keeps working.
func Wrap(code, message string, status int, err error) error {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
		Err:        sentinel.ErrNotFound,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewAuthorizationError converts a policy denial into an API error. Anonymous
// callers get 401, everyone else 403.
func NewAuthorizationError(action, reason string) error {
	details := map[string]any{"action": action, "reason": reason}
	if reason == ReasonNotAuthenticated {
		return NewDomainError(CodeUnauthorized, "authentication required", http.StatusUnauthorized, details)
	}
	return NewDomainError(CodeForbidden, "action not permitted", http.StatusForbidden, details)
}

func NewConflict(message string, details map[string]any) error {
	return &DomainError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Details:    details,
		Err:        sentinel.ErrConflict,
	}
}

func NewStorageError(err error) error {
	return &DomainError{
		Code:       CodeStorage,
		Message:    "record store unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return NewNotFound("resource", nil).(*DomainError)
	case errors.Is(err, sentinel.ErrConflict):
		return NewConflict("resource already exists", nil).(*DomainError)
	case errors.Is(err, sentinel.ErrUnavailable):
		return NewStorageError(err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts store and infrastructure errors into DomainErrors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	de := ToDomainError(err)
	if de.Code == CodeInternal {
		return NewStorageError(err)
	}
	return de
}

// HasCode reports whether err carries the given DomainError code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
