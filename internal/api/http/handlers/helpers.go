package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/notification"
	apperrors "github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}

// withOutcomes wraps data and attaches delivery outcomes when any were attempted.
func withOutcomes(data any, outcomes []notification.Outcome) fiber.Map {
	body := fiber.Map{"data": data}
	if len(outcomes) > 0 {
		body["notifications"] = outcomes
	}
	return body
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return defaultVal
	}
	return parsed
}

func parsePaging(c *fiber.Ctx) (limit, offset int) {
	return parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0)
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(val string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func identityResponse(identity *domain.Identity) dto.IdentityResponse {
	roles := make([]string, 0, len(identity.Roles))
	for _, role := range identity.Roles {
		roles = append(roles, role.String())
	}
	return dto.IdentityResponse{
		ID:           identity.ID,
		Username:     identity.Username,
		Email:        identity.Email,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		Phone:        identity.Phone,
		IsStaff:      identity.IsStaff,
		IsSuperuser:  identity.IsSuperuser,
		IsProprietor: identity.IsProprietor,
		IsActive:     identity.IsActive,
		Roles:        roles,
		PrimaryRole:  identity.PrimaryRole().String(),
		CreatedAt:    identity.CreatedAt,
	}
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Email:     client.Email,
		Phone:     client.Phone,
		Address:   client.Address,
		CreatedBy: client.CreatedBy,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

func serviceResponse(svc *domain.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		PriceCents:  svc.PriceCents,
		Price:       domain.FormatAmount(svc.PriceCents),
		CreatedBy:   svc.CreatedBy,
		OwnerID:     svc.OwnerID,
		CreatedAt:   svc.CreatedAt,
	}
}

func specialistResponse(s *domain.Specialist) dto.SpecialistResponse {
	return dto.SpecialistResponse{
		ID:          s.ID,
		IdentityID:  s.IdentityID,
		Description: s.Description,
		Speciality:  s.Speciality,
		CreatedAt:   s.CreatedAt,
	}
}

func appointmentResponse(a *domain.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:           a.ID,
		IdentityID:   a.IdentityID,
		ServiceID:    a.ServiceID,
		SpecialistID: a.SpecialistID,
		ScheduledAt:  a.ScheduledAt,
		CreatedAt:    a.CreatedAt,
	}
}

func paymentResponse(p *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		IdentityID:  p.IdentityID,
		AmountCents: p.AmountCents,
		Amount:      domain.FormatAmount(p.AmountCents),
		DueDate:     p.DueDate.Format("2006-01-02"),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}

func transactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		IdentityID:  t.IdentityID,
		AmountCents: t.AmountCents,
		Amount:      domain.FormatAmount(t.AmountCents),
		CreatedAt:   t.CreatedAt,
	}
}

func eventResponse(e *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:          e.ID,
		IdentityID:  e.IdentityID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		CreatedAt:   e.CreatedAt,
	}
}

func registrationResponse(r *domain.EventRegistration) dto.RegistrationResponse {
	return dto.RegistrationResponse{ID: r.ID, IdentityID: r.IdentityID, EventID: r.EventID, CreatedAt: r.CreatedAt}
}

func messageResponse(m *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Subject:     m.Subject,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{ID: n.ID, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt}
}

func testimonialResponse(t *domain.Testimonial) dto.TestimonialResponse {
	return dto.TestimonialResponse{ID: t.ID, IdentityID: t.IdentityID, Comment: t.Comment, CreatedAt: t.CreatedAt}
}

func commentResponse(c *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{ID: c.ID, IdentityID: c.IdentityID, Content: c.Content, CreatedAt: c.CreatedAt}
}

// mapList converts a slice of records with the given mapper.
func mapList[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
