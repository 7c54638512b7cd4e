package dto

import "time"

// ClientRequest payload.
type ClientRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone_number"`
	Address   string  `json:"address"`
}

// ClientResponse payload.
type ClientResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone_number,omitempty"`
	Address   string    `json:"address"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceRequest payload. Prices are in minor units.
type ServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	OwnerID     string `json:"owner_id"`
}

// ServiceResponse payload.
type ServiceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Price       string    `json:"price"`
	CreatedBy   string    `json:"created_by"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SpecialistRequest payload.
type SpecialistRequest struct {
	IdentityID  string `json:"identity_id"`
	Description string `json:"description"`
	Speciality  string `json:"speciality"`
}

// SpecialistResponse payload.
type SpecialistResponse struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	Description string    `json:"description"`
	Speciality  string    `json:"speciality"`
	CreatedAt   time.Time `json:"created_at"`
}

// AppointmentRequest payload.
type AppointmentRequest struct {
	ServiceID    string    `json:"service_id"`
	SpecialistID string    `json:"specialist_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

// AppointmentResponse payload.
type AppointmentResponse struct {
	ID           string    `json:"id"`
	IdentityID   string    `json:"identity_id"`
	ServiceID    string    `json:"service_id"`
	SpecialistID string    `json:"specialist_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentRequest payload. DueDate accepts YYYY-MM-DD or RFC 3339.
type PaymentRequest struct {
	IdentityID  string `json:"identity_id"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// PaymentResponse payload.
type PaymentResponse struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	DueDate     string    `json:"due_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionRequest payload.
type TransactionRequest struct {
	IdentityID  string `json:"identity_id"`
	AmountCents int64  `json:"amount_cents"`
}

// TransactionResponse payload.
type TransactionResponse struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventRequest payload.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	IdentityID  string    `json:"identity_id"`
}

// EventResponse payload.
type EventResponse struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegistrationResponse payload.
type RegistrationResponse struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	EventID    string    `json:"event_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// MessageRequest payload.
type MessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// MessageResponse payload.
type MessageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// TestimonialRequest payload.
type TestimonialRequest struct {
	Comment string `json:"comment"`
}

// TestimonialResponse payload.
type TestimonialResponse struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse payload.
type CommentResponse struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotificationResponse is an in-app inbox entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
