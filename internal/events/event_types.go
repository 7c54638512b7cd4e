package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/appointment-service/internal/domain"
)

// Kind enumerates supported event identifiers.
type Kind string

const (
	KindAccountCreated             Kind = "account_created"
	KindAccountUpdated             Kind = "account_updated"
	KindRoleChanged                Kind = "role_changed"
	KindAccountBlocked             Kind = "account_blocked"
	KindAccountUnblocked           Kind = "account_unblocked"
	KindMessageSent                Kind = "message_sent"
	KindEventReminder              Kind = "event_reminder"
	KindTransactionCompleted       Kind = "transaction_completed"
	KindEventRegistrationConfirmed Kind = "event_registration_confirmed"
	KindPaymentDue                 Kind = "payment_due"
	KindSecurityAlert              Kind = "security_alert"
	KindPasswordResetRequested     Kind = "password_reset_requested"
)

// AllKinds lists every kind in declaration order.
var AllKinds = []Kind{
	KindAccountCreated,
	KindAccountUpdated,
	KindRoleChanged,
	KindAccountBlocked,
	KindAccountUnblocked,
	KindMessageSent,
	KindEventReminder,
	KindTransactionCompleted,
	KindEventRegistrationConfirmed,
	KindPaymentDue,
	KindSecurityAlert,
	KindPasswordResetRequested,
}

// Recipient is a snapshot of the identity an event notifies.
type Recipient struct {
	IdentityID string `json:"identity_id"`
	FirstName  string `json:"first_name,omitempty"`
	Username   string `json:"username"`
	Email      string `json:"-"`
	Phone      string `json:"-"`
}

// RecipientFrom snapshots the contact details of identity.
func RecipientFrom(identity *domain.Identity) Recipient {
	if identity == nil {
		return Recipient{}
	}
	return Recipient{
		IdentityID: identity.ID,
		FirstName:  identity.FirstName,
		Username:   identity.Username,
		Email:      identity.Email,
		Phone:      identity.PhoneNumber(),
	}
}

// Name is the greeting used in templates.
func (r Recipient) Name() string {
	if r.FirstName != "" {
		return r.FirstName
	}
	return r.Username
}

// Event represents a completed domain mutation. Values are immutable once
// built; pass them by value.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Recipient Recipient `json:"recipient"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current UTC time.
func New(kind Kind, recipient Recipient, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	Username string `json:"username"`
}

// AccountUpdatedPayload payload.
type AccountUpdatedPayload struct {
	Fields []string `json:"fields,omitempty"`
}

// RoleChangedPayload payload.
type RoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// AccountStatusPayload is shared by blocked and unblocked events.
type AccountStatusPayload struct {
	Active bool `json:"active"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID  string `json:"message_id"`
	SenderName string `json:"sender_name"`
	Subject    string `json:"subject"`
}

// EventReminderPayload payload.
type EventReminderPayload struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
}

// TransactionCompletedPayload payload.
type TransactionCompletedPayload struct {
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
}

// EventRegistrationConfirmedPayload payload.
type EventRegistrationConfirmedPayload struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
}

// PaymentDuePayload payload.
type PaymentDuePayload struct {
	PaymentID   string    `json:"payment_id"`
	AmountCents int64     `json:"amount_cents"`
	DueDate     time.Time `json:"due_date"`
}

// SecurityAlertPayload payload.
type SecurityAlertPayload struct {
	Detail string `json:"detail,omitempty"`
}

// PasswordResetRequestedPayload payload. The token never leaves the process
// in serialized form.
type PasswordResetRequestedPayload struct {
	Token     string `json:"-"`
	ResetLink string `json:"-"`
}
