package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/service"
	apperrors "github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

// AdminHandler exposes staff-only account, billing and scheduling endpoints.
// Every call is authorized again by the service.
type AdminHandler struct {
	services *service.Services
}

// NewAdminHandler constructs handler.
func NewAdminHandler(services *service.Services) *AdminHandler {
	return &AdminHandler{services: services}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.services.Dashboards.Admin(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminDashboardResponse{
		TotalUsers:   dashboard.TotalUsers,
		TotalClients: dashboard.TotalClients,
		RecentUsers:  mapList(dashboard.RecentUsers, identityResponse),
	}})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	users, err := h.services.Accounts.ListUsers(c.UserContext(), auth.IdentityFromContext(c), service.ListUsersFilter{
		Role:   c.Query("role"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(users, identityResponse)})
}

// CreateUser handles POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, outcomes, err := h.services.Accounts.CreateUser(c.UserContext(), auth.IdentityFromContext(c), service.CreateUserInput{
		RegisterInput: registerInput(req.RegisterRequest),
		Role:          req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(withOutcomes(identityResponse(identity), outcomes))
}

// UpdateUser handles PATCH /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateIdentityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, outcomes, err := h.services.Accounts.UpdateUser(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), identityUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(withOutcomes(identityResponse(identity), outcomes))
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.services.Accounts.DeleteUser(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// BlockUser handles POST /admin/users/:id/block.
func (h *AdminHandler) BlockUser(c *fiber.Ctx) error {
	identity, outcomes, err := h.services.Accounts.BlockUser(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(withOutcomes(identityResponse(identity), outcomes))
}

// UnblockUser handles POST /admin/users/:id/unblock.
func (h *AdminHandler) UnblockUser(c *fiber.Ctx) error {
	identity, outcomes, err := h.services.Accounts.UnblockUser(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(withOutcomes(identityResponse(identity), outcomes))
}

// ChangeRole handles PUT /admin/users/:id/role.
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, outcomes, err := h.services.Accounts.ChangeRole(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(withOutcomes(identityResponse(identity), outcomes))
}

// PromoteToProprietor handles POST /admin/users/:id/promote.
func (h *AdminHandler) PromoteToProprietor(c *fiber.Ctx) error {
	identity, outcomes, err := h.services.Accounts.PromoteToProprietor(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(withOutcomes(identityResponse(identity), outcomes))
}

// SecurityAlert handles POST /admin/users/:id/security-alert.
func (h *AdminHandler) SecurityAlert(c *fiber.Ctx) error {
	var req dto.SecurityAlertRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidPayload()
		}
	}
	outcomes, err := h.services.Accounts.SendSecurityAlert(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), req.Detail)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(withOutcomes(fiber.Map{"status": "sent"}, outcomes))
}

// RecordPayment handles POST /admin/payments.
func (h *AdminHandler) RecordPayment(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	due, ok := parseDate(req.DueDate)
	if !ok {
		return apperrors.NewValidationError("invalid input", map[string]any{"due_date": "expected YYYY-MM-DD"})
	}
	payment, outcomes, err := h.services.Billing.RecordPayment(c.UserContext(), auth.IdentityFromContext(c), service.PaymentInput{
		IdentityID:  req.IdentityID,
		AmountCents: req.AmountCents,
		DueDate:     due,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(withOutcomes(paymentResponse(payment), outcomes))
}

// RecordTransaction handles POST /admin/transactions.
func (h *AdminHandler) RecordTransaction(c *fiber.Ctx) error {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	txn, outcomes, err := h.services.Billing.RecordTransaction(c.UserContext(), auth.IdentityFromContext(c), req.IdentityID, req.AmountCents)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(withOutcomes(transactionResponse(txn), outcomes))
}

// CreateEvent handles POST /admin/events.
func (h *AdminHandler) CreateEvent(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	event, outcomes, err := h.services.Events.CreateEvent(c.UserContext(), auth.IdentityFromContext(c), service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		IdentityID:  req.IdentityID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(withOutcomes(eventResponse(event), outcomes))
}

// CreateSpecialist handles POST /admin/specialists.
func (h *AdminHandler) CreateSpecialist(c *fiber.Ctx) error {
	var req dto.SpecialistRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	specialist, err := h.services.Catalog.CreateSpecialist(c.UserContext(), auth.IdentityFromContext(c), service.SpecialistInput{
		IdentityID:  req.IdentityID,
		Description: req.Description,
		Speciality:  req.Speciality,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": specialistResponse(specialist)})
}

// DeleteAppointment handles DELETE /admin/appointments/:id.
func (h *AdminHandler) DeleteAppointment(c *fiber.Ctx) error {
	if err := h.services.Appointments.Delete(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func identityUpdate(req dto.UpdateIdentityRequest) service.IdentityUpdate {
	return service.IdentityUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
}
