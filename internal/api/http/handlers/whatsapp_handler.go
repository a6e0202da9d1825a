package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-crm/internal/api/dto"
	"github.com/spec-kit/salon-crm/internal/service"
	apperrors "github.com/spec-kit/salon-crm/pkg/util"
)

// WhatsAppHandler exposes templated messaging endpoints.
type WhatsAppHandler struct {
	notifications *service.NotificationService
}

// NewWhatsAppHandler constructs handler.
func NewWhatsAppHandler(notificationService *service.NotificationService) *WhatsAppHandler {
	return &WhatsAppHandler{notifications: notificationService}
}

// SendTemplate POST /whatsapp/send-template.
func (h *WhatsAppHandler) SendTemplate(c *fiber.Ctx) error {
	var req dto.SendTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.To) == "" {
		return apperrors.NewValidationError("to required", nil)
	}

	result, err := h.notifications.SendTemplate(c.Context(), req.To, req.Vars)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SendTemplateResponse{
		SID:    result.SID,
		Status: result.Status,
		To:     result.To,
	}})
}
