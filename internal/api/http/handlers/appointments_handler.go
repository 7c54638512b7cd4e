package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/service"
)

// AppointmentsHandler books appointments for the caller.
type AppointmentsHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointments *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{appointments: appointments}
}

// List handles GET /appointments.
func (h *AppointmentsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	list, err := h.appointments.ListMine(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(list, appointmentResponse)})
}

// Create handles POST /appointments.
func (h *AppointmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	appointment, err := h.appointments.Create(c.UserContext(), auth.IdentityFromContext(c), service.AppointmentInput{
		ServiceID:    req.ServiceID,
		SpecialistID: req.SpecialistID,
		ScheduledAt:  req.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": appointmentResponse(appointment)})
}
