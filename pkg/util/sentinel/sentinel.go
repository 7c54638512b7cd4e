package sentinel

import "errors"

// Sentinel errors for record store facts. Repositories return these (optionally
// wrapped) so services can translate them into domain errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
