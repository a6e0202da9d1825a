package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-crm/internal/api/dto"
	"github.com/spec-kit/salon-crm/internal/domain"
	"github.com/spec-kit/salon-crm/internal/service"
	apperrors "github.com/spec-kit/salon-crm/pkg/util"
)

// ClientsHandler exposes the client directory endpoints.
type ClientsHandler struct {
	service *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{service: clientService}
}

// CreateClient POST /clients.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	client, err := h.service.CreateClient(c.Context(), service.ClientCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Birthday: req.Birthday,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// ListClients GET /clients.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.service.ListClients(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetClient GET /clients/:id.
func (h *ClientsHandler) GetClient(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	client, err := h.service.GetClient(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// UpdateClient PATCH /clients/:id.
func (h *ClientsHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	client, err := h.service.UpdateClient(c.Context(), id, service.ClientUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Birthday: req.Birthday,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// DeleteClient DELETE /clients/:id.
func (h *ClientsHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteClient(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Birthday:  client.Birthday,
		CreatedAt: client.CreatedAt,
	}
}
