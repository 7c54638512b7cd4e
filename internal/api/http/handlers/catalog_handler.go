package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/appointment-service/internal/api/dto"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/service"
)

// CatalogHandler serves services, specialists and events.
type CatalogHandler struct {
	catalog *service.CatalogService
	events  *service.EventService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService, events *service.EventService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, events: events}
}

// ListServices handles GET /services; ?mine=true limits to the caller's services.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	services, err := h.catalog.ListServices(c.UserContext(), auth.IdentityFromContext(c), parseBoolQuery(c, "mine", false), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(services, serviceResponse)})
}

// CreateService handles POST /services.
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	svc, err := h.catalog.CreateService(c.UserContext(), auth.IdentityFromContext(c), serviceInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": serviceResponse(svc)})
}

// UpdateService handles PUT /services/:id.
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	svc, err := h.catalog.UpdateService(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), serviceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceResponse(svc)})
}

// DeleteService handles DELETE /services/:id.
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	if err := h.catalog.DeleteService(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListSpecialists handles GET /specialists.
func (h *CatalogHandler) ListSpecialists(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	specialists, err := h.catalog.ListSpecialists(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(specialists, specialistResponse)})
}

// ListEvents handles GET /events.
func (h *CatalogHandler) ListEvents(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	list, err := h.events.ListEvents(c.UserContext(), auth.IdentityFromContext(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapList(list, eventResponse)})
}

// RegisterForEvent handles POST /events/:id/register.
func (h *CatalogHandler) RegisterForEvent(c *fiber.Ctx) error {
	registration, outcomes, err := h.events.RegisterForEvent(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(withOutcomes(registrationResponse(registration), outcomes))
}

func serviceInput(req dto.ServiceRequest) service.ServiceInput {
	return service.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		OwnerID:     req.OwnerID,
	}
}
