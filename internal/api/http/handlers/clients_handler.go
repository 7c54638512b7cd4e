package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/service"
)

// ClientsHandler manages client records.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// List handles GET /clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	clients, err := h.clients.List(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(clients, clientResponse)})
}

// Create handles POST /clients.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	client, err := h.clients.Create(c.UserContext(), auth.IdentityFromContext(c), clientInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// Update handles PUT /clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	client, err := h.clients.Update(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), clientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// Delete handles DELETE /clients/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	if err := h.clients.Delete(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}
}
