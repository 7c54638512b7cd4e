package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
)

func TestRenderIsDeterministic(t *testing.T) {
	recipient := events.Recipient{IdentityID: "i-1", FirstName: "Ana", Username: "ana", Email: "ana@example.com"}
	date := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	payloads := map[events.Kind]any{
		events.KindAccountCreated:             events.AccountCreatedPayload{Username: "ana"},
		events.KindAccountUpdated:             events.AccountUpdatedPayload{},
		events.KindRoleChanged:                events.RoleChangedPayload{OldRole: domain.RoleUser, NewRole: domain.RoleAdmin},
		events.KindAccountBlocked:             events.AccountStatusPayload{},
		events.KindAccountUnblocked:           events.AccountStatusPayload{Active: true},
		events.KindMessageSent:                events.MessageSentPayload{SenderName: "Bo", Subject: "Hi"},
		events.KindEventReminder:              events.EventReminderPayload{Title: "Open day", Description: "Tour", EventDate: date},
		events.KindTransactionCompleted:       events.TransactionCompletedPayload{AmountCents: 1250},
		events.KindEventRegistrationConfirmed: events.EventRegistrationConfirmedPayload{EventTitle: "Open day"},
		events.KindPaymentDue:                 events.PaymentDuePayload{AmountCents: 9900, DueDate: date},
		events.KindSecurityAlert:              events.SecurityAlertPayload{},
		events.KindPasswordResetRequested:     events.PasswordResetRequestedPayload{Token: "tok", ResetLink: "https://x/reset?token=tok"},
	}

	for _, kind := range events.AllKinds {
		t.Run(string(kind), func(t *testing.T) {
			first := Render(events.New(kind, recipient, "actor", payloads[kind]))
			second := Render(events.New(kind, recipient, "other-actor", payloads[kind]))

			assert.Equal(t, first, second)
			assert.NotEmpty(t, first.Subject)
			assert.NotEmpty(t, first.HTMLBody)
			assert.NotEmpty(t, first.SMSBody)
		})
	}
}

func TestRenderIncludesPayloadFields(t *testing.T) {
	recipient := events.Recipient{FirstName: "Ana"}
	date := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	role := Render(events.New(events.KindRoleChanged, recipient, "", events.RoleChangedPayload{OldRole: domain.RoleUser, NewRole: domain.RoleProprietor}))
	assert.Contains(t, role.SMSBody, "User")
	assert.Contains(t, role.SMSBody, "Proprietor")

	txn := Render(events.New(events.KindTransactionCompleted, recipient, "", events.TransactionCompletedPayload{AmountCents: 1250}))
	assert.Contains(t, txn.HTMLBody, "12.50")

	due := Render(events.New(events.KindPaymentDue, recipient, "", events.PaymentDuePayload{AmountCents: 500, DueDate: date}))
	assert.Contains(t, due.SMSBody, "5.00")
	assert.Contains(t, due.SMSBody, "2026-03-04")

	reset := Render(events.New(events.KindPasswordResetRequested, recipient, "", events.PasswordResetRequestedPayload{ResetLink: "https://x/r?token=abc"}))
	assert.Contains(t, reset.SMSBody, "https://x/r?token=abc")
}

func TestRenderEscapesHTML(t *testing.T) {
	msg := Render(events.New(events.KindMessageSent, events.Recipient{FirstName: "<b>"}, "", events.MessageSentPayload{SenderName: "x", Subject: "<script>"}))

	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
}

func TestRenderFallsBackToUsername(t *testing.T) {
	msg := Render(events.New(events.KindAccountCreated, events.Recipient{Username: "zed"}, "", events.AccountCreatedPayload{}))
	assert.Contains(t, msg.HTMLBody, "Hello zed")
}
