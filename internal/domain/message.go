package domain

import "time"

// Message is a direct message between two identities.
type Message struct {
	ID          string
	SenderID    string
	RecipientID string
	Subject     string
	Body        string
	CreatedAt   time.Time
}
