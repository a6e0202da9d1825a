package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-crm/internal/api/dto"
	"github.com/spec-kit/salon-crm/internal/domain"
	"github.com/spec-kit/salon-crm/internal/repository"
	"github.com/spec-kit/salon-crm/internal/service"
	apperrors "github.com/spec-kit/salon-crm/pkg/util"
)

// AppointmentsHandler exposes the appointment ledger endpoints.
type AppointmentsHandler struct {
	service *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointmentService *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{service: appointmentService}
}

// CreateAppointment POST /appointments.
func (h *AppointmentsHandler) CreateAppointment(c *fiber.Ctx) error {
	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	appointment, err := h.service.CreateAppointment(c.Context(), service.AppointmentCreateInput{
		ClientID: req.ClientID,
		Date:     req.Date,
		Service:  req.Service,
		Price:    req.Price,
		Status:   domain.AppointmentStatus(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": appointmentResponse(appointment, nil)})
}

// ListAppointments GET /appointments.
func (h *AppointmentsHandler) ListAppointments(c *fiber.Ctx) error {
	filter, err := parseAppointmentQuery(c)
	if err != nil {
		return err
	}

	appointments, err := h.service.ListAppointments(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		items = append(items, joinedResponse(&appointments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetAppointment GET /appointments/:id.
func (h *AppointmentsHandler) GetAppointment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	appointment, err := h.service.GetAppointment(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": joinedResponse(appointment)})
}

// UpdateAppointment PATCH /appointments/:id.
func (h *AppointmentsHandler) UpdateAppointment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		s := domain.AppointmentStatus(*req.Status)
		status = &s
	}

	appointment, err := h.service.UpdateAppointment(c.Context(), id, service.AppointmentUpdateInput{
		ClientID: req.ClientID,
		Date:     req.Date,
		Service:  req.Service,
		Price:    req.Price,
		Status:   status,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appointmentResponse(appointment, nil)})
}

// CheckConflict GET /appointments/conflict.
func (h *AppointmentsHandler) CheckConflict(c *fiber.Ctx) error {
	clientID, err := strconv.ParseInt(c.Query("client_id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("client_id required", nil)
	}
	at, err := time.Parse(time.RFC3339, c.Query("date"))
	if err != nil {
		return apperrors.NewValidationError("date must be RFC 3339", nil)
	}
	var excludeID int64
	if raw := c.Query("exclude_id"); raw != "" {
		excludeID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid exclude_id", nil)
		}
	}

	conflict, err := h.service.CheckConflict(c.Context(), clientID, at, excludeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ConflictCheckResponse{Conflict: conflict}})
}

// DeleteAppointment DELETE /appointments/:id.
func (h *AppointmentsHandler) DeleteAppointment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteAppointment(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseAppointmentQuery(c *fiber.Ctx) (repository.AppointmentFilter, error) {
	var filter repository.AppointmentFilter

	if raw := c.Query("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid client_id", nil)
		}
		filter.ClientID = &clientID
	}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.NewValidationError("date must be YYYY-MM-DD", nil)
		}
		filter.Day = &day
	}
	if raw := c.Query("time"); raw != "" {
		if _, err := time.Parse("15:04", raw); err != nil {
			return filter, apperrors.NewValidationError("time must be HH:MM", nil)
		}
		filter.TimeOfDay = &raw
	}
	return filter, nil
}

func joinedResponse(appointment *domain.AppointmentWithClient) dto.AppointmentResponse {
	client := clientResponse(&appointment.Client)
	return appointmentResponse(&appointment.Appointment, &client)
}

func appointmentResponse(appointment *domain.Appointment, client *dto.ClientResponse) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:        appointment.ID,
		ClientID:  appointment.ClientID,
		Date:      appointment.Date,
		Service:   appointment.Service,
		Price:     appointment.Price,
		Status:    string(appointment.Status),
		Notes:     appointment.Notes,
		CreatedAt: appointment.CreatedAt,
		Client:    client,
	}
}
