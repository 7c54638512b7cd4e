package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/service"
)

// AccountHandler serves the signed-in identity: profile, dashboards, inbox,
// direct messages and feedback.
type AccountHandler struct {
	services *service.Services
}

// NewAccountHandler constructs handler.
func NewAccountHandler(services *service.Services) *AccountHandler {
	return &AccountHandler{services: services}
}

// Profile handles GET /me.
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	identity, err := h.services.Accounts.Profile(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": identityResponse(identity)})
}

// UpdateProfile handles PATCH /me.
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, outcomes, err := h.services.Accounts.UpdateProfile(c.UserContext(), auth.IdentityFromContext(c), identityUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(withOutcomes(identityResponse(identity), outcomes))
}

// UserDashboard handles GET /me/dashboard.
func (h *AccountHandler) UserDashboard(c *fiber.Ctx) error {
	dashboard, err := h.services.Dashboards.User(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserDashboardResponse{
		Appointments:  mapList(dashboard.Appointments, appointmentResponse),
		Payments:      mapList(dashboard.Payments, paymentResponse),
		Transactions:  mapList(dashboard.Transactions, transactionResponse),
		Registrations: mapList(dashboard.Registrations, registrationResponse),
		Notifications: mapList(dashboard.Notifications, notificationResponse),
		Proprietors:   mapList(dashboard.Proprietors, identityResponse),
		Testimonials:  mapList(dashboard.Testimonials, testimonialResponse),
		Comments:      mapList(dashboard.Comments, commentResponse),
	}})
}

// ProprietorDashboard handles GET /proprietor/dashboard.
func (h *AccountHandler) ProprietorDashboard(c *fiber.Ctx) error {
	dashboard, err := h.services.Dashboards.Proprietor(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProprietorDashboardResponse{
		Clients:  mapList(dashboard.Clients, clientResponse),
		Services: mapList(dashboard.Services, serviceResponse),
		Comments: mapList(dashboard.Comments, commentResponse),
	}})
}

// Notifications handles GET /notifications.
func (h *AccountHandler) Notifications(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	entries, err := h.services.Inbox.Unread(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(entries, notificationResponse)})
}

// MarkNotificationRead handles POST /notifications/:id/read.
func (h *AccountHandler) MarkNotificationRead(c *fiber.Ctx) error {
	if err := h.services.Inbox.MarkRead(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SendMessage handles POST /messages.
func (h *AccountHandler) SendMessage(c *fiber.Ctx) error {
	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	msg, outcomes, err := h.services.Messages.SendMessage(c.UserContext(), auth.IdentityFromContext(c), service.MessageInput{
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Body:        req.Body,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(withOutcomes(messageResponse(msg), outcomes))
}

// Messages handles GET /messages.
func (h *AccountHandler) Messages(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	list, err := h.services.Messages.Received(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(list, messageResponse)})
}

// AddTestimonial handles POST /me/testimonials.
func (h *AccountHandler) AddTestimonial(c *fiber.Ctx) error {
	var req dto.TestimonialRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	testimonial, err := h.services.Feedback.AddTestimonial(c.UserContext(), auth.IdentityFromContext(c), req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": testimonialResponse(testimonial)})
}

// AddComment handles POST /me/comments.
func (h *AccountHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	comment, err := h.services.Feedback.AddComment(c.UserContext(), auth.IdentityFromContext(c), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// Testimonials handles GET /testimonials.
func (h *AccountHandler) Testimonials(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	list, err := h.services.Feedback.ListTestimonials(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(list, testimonialResponse)})
}
