package domain

import "time"

// Notification is an in-app inbox entry for an identity.
type Notification struct {
	ID         string
	IdentityID string
	Message    string
	IsRead     bool
	CreatedAt  time.Time
}
