package domain

import "time"

// Testimonial is a public endorsement left by an identity.
type Testimonial struct {
	ID         string
	IdentityID string
	Comment    string
	CreatedAt  time.Time
}

// Comment is a short remark shown on the dashboards.
type Comment struct {
	ID         string
	IdentityID string
	Content    string
	CreatedAt  time.Time
}
