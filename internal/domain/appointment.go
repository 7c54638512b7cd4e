package domain

import "time"

// Appointment books an identity with a specialist for a service.
type Appointment struct {
	ID           string
	IdentityID   string
	ServiceID    string
	SpecialistID string
	ScheduledAt  time.Time
	CreatedBy    string
	CreatedAt    time.Time
}
