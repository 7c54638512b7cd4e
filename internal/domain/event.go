package domain

import "time"

// Event is a scheduled happening identities can register for.
type Event struct {
	ID          string
	IdentityID  string
	Title       string
	Description string
	EventDate   time.Time
	CreatedAt   time.Time
}

// EventRegistration records an identity signing up for an event.
type EventRegistration struct {
	ID         string
	IdentityID string
	EventID    string
	CreatedAt  time.Time
}
