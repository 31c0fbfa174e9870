package merchant

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/paygs/paygs/internal/middleware"
)

// Handler exposes the registry management endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a registry handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateClient handles POST /clients.
func (h *Handler) CreateClient(c *fiber.Ctx) error {
	var req clientCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.CreateClient(c.UserContext(), middleware.CallerID(c), CreateClientInput{
		Name:               req.Name,
		Address:            req.Address,
		PAN:                req.PAN,
		Active:             req.IsActive,
		Threshold:          req.Threshold,
		RedirectURL:        req.RedirectURL,
		BankUUID:           req.BankUUID,
		SupportedCardTypes: refUUIDs(req.SupportedCardTypes),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(toClientResponse(created))
}

// UpdateClient handles PUT /clients.
func (h *Handler) UpdateClient(c *fiber.Ctx) error {
	var req clientUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.UpdateClient(c.UserContext(), middleware.CallerID(c), UpdateClientInput{
		UUID:               req.UUID,
		Name:               req.Name,
		Address:            req.Address,
		PAN:                req.PAN,
		Active:             req.IsActive,
		Threshold:          req.Threshold,
		RedirectURL:        req.RedirectURL,
		BankUUID:           req.BankUUID,
		SupportedCardTypes: refUUIDs(req.SupportedCardTypes),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(toClientResponse(updated))
}

// GetClient handles GET /clients/:uuid.
func (h *Handler) GetClient(c *fiber.Ctx) error {
	client, err := h.service.ClientByUUID(c.UserContext(), middleware.CallerID(c), c.Params("uuid"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toClientResponse(client))
}

// CreatePos handles POST /pos.
func (h *Handler) CreatePos(c *fiber.Ctx) error {
	var req posCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.CreatePos(c.UserContext(), middleware.CallerID(c), CreatePosInput{
		Active:     req.IsActive,
		ClientUUID: req.ClientUUID,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(toPosResponse(created))
}
