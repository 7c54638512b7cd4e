package notification

import (
	"fmt"
	"html"
	"time"

	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
)

// Message is the rendered form of an event.
type Message struct {
	Subject  string
	HTMLBody string
	SMSBody  string
}

const dateLayout = "2006-01-02 15:04 MST"

// Render builds the email and SMS payloads for event. The result depends
// only on the event kind, recipient and payload.
func Render(event events.Event) Message {
	name := html.EscapeString(event.Recipient.Name())

	switch event.Kind {
	case events.KindAccountCreated:
		return Message{
			Subject:  "Welcome to our platform",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Your account has been created successfully.</p>", name),
			SMSBody:  fmt.Sprintf("Hello %s, your account has been created successfully.", event.Recipient.Name()),
		}
	case events.KindAccountUpdated:
		return Message{
			Subject:  "Account information updated",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Your account information has been updated.</p>", name),
			SMSBody:  "Your account information has been updated.",
		}
	case events.KindRoleChanged:
		p, _ := event.Payload.(events.RoleChangedPayload)
		return Message{
			Subject: "Your role has changed",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Your role changed from <b>%s</b> to <b>%s</b>.</p>",
				name, roleLabel(p.OldRole), roleLabel(p.NewRole)),
			SMSBody: fmt.Sprintf("Your role changed from %s to %s.", roleLabel(p.OldRole), roleLabel(p.NewRole)),
		}
	case events.KindAccountBlocked:
		return Message{
			Subject:  "Account blocked",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Your account has been blocked. Contact support if you think this is a mistake.</p>", name),
			SMSBody:  "Your account has been blocked. Contact support if you think this is a mistake.",
		}
	case events.KindAccountUnblocked:
		return Message{
			Subject:  "Account reactivated",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Your account has been reactivated.</p>", name),
			SMSBody:  "Your account has been reactivated.",
		}
	case events.KindMessageSent:
		p, _ := event.Payload.(events.MessageSentPayload)
		return Message{
			Subject: "New message: " + p.Subject,
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>You have a new message from %s: <b>%s</b></p>",
				name, html.EscapeString(p.SenderName), html.EscapeString(p.Subject)),
			SMSBody: fmt.Sprintf("New message from %s: %s", p.SenderName, p.Subject),
		}
	case events.KindEventReminder:
		p, _ := event.Payload.(events.EventReminderPayload)
		return Message{
			Subject: "Event reminder: " + p.Title,
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Reminder: <b>%s</b> on %s.</p><p>%s</p>",
				name, html.EscapeString(p.Title), formatDate(p.EventDate), html.EscapeString(p.Description)),
			SMSBody: fmt.Sprintf("Reminder: %s on %s.", p.Title, formatDate(p.EventDate)),
		}
	case events.KindTransactionCompleted:
		p, _ := event.Payload.(events.TransactionCompletedPayload)
		amount := domain.FormatAmount(p.AmountCents)
		return Message{
			Subject:  "Transaction confirmation",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Your transaction of <b>%s</b> has been completed.</p>", name, amount),
			SMSBody:  fmt.Sprintf("Your transaction of %s has been completed.", amount),
		}
	case events.KindEventRegistrationConfirmed:
		p, _ := event.Payload.(events.EventRegistrationConfirmedPayload)
		return Message{
			Subject:  "Event registration confirmed",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>You are registered for <b>%s</b>.</p>", name, html.EscapeString(p.EventTitle)),
			SMSBody:  fmt.Sprintf("You are registered for %s.", p.EventTitle),
		}
	case events.KindPaymentDue:
		p, _ := event.Payload.(events.PaymentDuePayload)
		amount := domain.FormatAmount(p.AmountCents)
		return Message{
			Subject: "Payment reminder",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>A payment of <b>%s</b> is due on %s.</p>",
				name, amount, p.DueDate.UTC().Format("2006-01-02")),
			SMSBody: fmt.Sprintf("A payment of %s is due on %s.", amount, p.DueDate.UTC().Format("2006-01-02")),
		}
	case events.KindSecurityAlert:
		p, _ := event.Payload.(events.SecurityAlertPayload)
		detail := "Suspicious activity was detected on your account."
		if p.Detail != "" {
			detail = p.Detail
		}
		return Message{
			Subject:  "Security alert",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>%s</p>", name, html.EscapeString(detail)),
			SMSBody:  "Security alert: " + detail,
		}
	case events.KindPasswordResetRequested:
		p, _ := event.Payload.(events.PasswordResetRequestedPayload)
		return Message{
			Subject: "Password reset request",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Use the link below to reset your password:</p><p><a href=\"%s\">%s</a></p>",
				name, html.EscapeString(p.ResetLink), html.EscapeString(p.ResetLink)),
			SMSBody: "Reset your password: " + p.ResetLink,
		}
	default:
		return Message{
			Subject:  "Account notification",
			HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>There is new activity on your account.</p>", name),
			SMSBody:  "There is new activity on your account.",
		}
	}
}

func roleLabel(role domain.Role) string {
	if role == "" {
		return "none"
	}
	return role.String()
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
