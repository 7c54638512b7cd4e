package domain

import "time"

// Service is a bookable offering priced in minor currency units.
type Service struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	CreatedBy   string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Specialist links an identity to the speciality it practices.
type Specialist struct {
	ID          string
	IdentityID  string
	Description string
	Speciality  string
	CreatedAt   time.Time
}
