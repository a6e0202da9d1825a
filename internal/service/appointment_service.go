package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/salon-crm/internal/domain"
	"github.com/spec-kit/salon-crm/internal/events"
	"github.com/spec-kit/salon-crm/internal/repository"
	apperrors "github.com/spec-kit/salon-crm/pkg/util"
)

// AppointmentService coordinates the appointment ledger.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	clients      repository.ClientRepository
	dispatcher   events.Dispatcher
}

// AppointmentDependencies bundles repositories for appointment service.
type AppointmentDependencies struct {
	AppointmentRepo repository.AppointmentRepository
	ClientRepo      repository.ClientRepository
	Dispatcher      events.Dispatcher
}

// AppointmentCreateInput describes appointment creation payload. Date is a
// single UTC instant; there is no separate time field.
type AppointmentCreateInput struct {
	ClientID int64
	Date     time.Time
	Service  string
	Price    *float64
	Status   domain.AppointmentStatus
	Notes    *string
}

// AppointmentUpdateInput carries a partial update; nil fields keep prior values.
type AppointmentUpdateInput struct {
	ClientID *int64
	Date     *time.Time
	Service  *string
	Price    *float64
	Status   *domain.AppointmentStatus
	Notes    *string
}

// NewAppointmentService constructs the service.
func NewAppointmentService(deps AppointmentDependencies) *AppointmentService {
	return &AppointmentService{
		appointments: deps.AppointmentRepo,
		clients:      deps.ClientRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// CreateAppointment books a service for an existing client. Status defaults
// to pending. No conflict check happens here; callers run CheckConflict
// beforehand if they care about double-booking.
func (s *AppointmentService) CreateAppointment(ctx context.Context, input AppointmentCreateInput) (*domain.Appointment, error) {
	if strings.TrimSpace(input.Service) == "" {
		return nil, apperrors.NewValidationError("service required", nil)
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("date required", nil)
	}

	if _, err := s.clients.GetByID(ctx, input.ClientID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("unknown client", map[string]any{"client_id": input.ClientID})
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.AppointmentStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	appointment := &domain.Appointment{
		ClientID: input.ClientID,
		Date:     input.Date.UTC(),
		Service:  strings.TrimSpace(input.Service),
		Price:    input.Price,
		Status:   status,
		Notes:    input.Notes,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:          events.EventAppointmentCreated,
		AppointmentID: appointment.ID,
		ClientID:      appointment.ClientID,
		Payload: events.AppointmentCreatedPayload{
			Service: appointment.Service,
			Date:    appointment.Date,
		},
	})
	return appointment, nil
}

// ListAppointments returns appointments matching all provided filter fields,
// each joined with its client summary, ordered by date ascending.
func (s *AppointmentService) ListAppointments(ctx context.Context, filter repository.AppointmentFilter) ([]domain.AppointmentWithClient, error) {
	return s.appointments.ListWithFilter(ctx, filter)
}

// GetAppointment returns a single appointment with its client.
func (s *AppointmentService) GetAppointment(ctx context.Context, id int64) (*domain.AppointmentWithClient, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"id": id})
		}
		return nil, err
	}
	return appointment, nil
}

// UpdateAppointment applies the provided fields only; omitted fields keep
// their prior values. Every status transition is legal.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id int64, input AppointmentUpdateInput) (*domain.Appointment, error) {
	existing, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	appointment := existing.Appointment
	oldStatus := appointment.Status

	if input.ClientID != nil && *input.ClientID != appointment.ClientID {
		if _, err := s.clients.GetByID(ctx, *input.ClientID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewValidationError("unknown client", map[string]any{"client_id": *input.ClientID})
			}
			return nil, err
		}
		appointment.ClientID = *input.ClientID
	}
	if input.Date != nil {
		appointment.Date = input.Date.UTC()
	}
	if input.Service != nil {
		service := strings.TrimSpace(*input.Service)
		if service == "" {
			return nil, apperrors.NewValidationError("service must not be empty", nil)
		}
		appointment.Service = service
	}
	if input.Price != nil {
		appointment.Price = input.Price
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		appointment.Status = *input.Status
	}
	if input.Notes != nil {
		appointment.Notes = input.Notes
	}

	if err := s.appointments.Update(ctx, &appointment); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("appointment", map[string]any{"id": id})
		}
		return nil, err
	}

	if appointment.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:          events.EventAppointmentStatusChanged,
			AppointmentID: appointment.ID,
			ClientID:      appointment.ClientID,
			Payload: events.AppointmentStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: appointment.Status,
			},
		})
	}
	return &appointment, nil
}

// CheckConflict reports whether another appointment exists for the client at
// the exact instant, excluding the appointment being edited. The check is
// advisory only: it is not atomic with a subsequent update, so two
// concurrent check-then-write sequences can both succeed.
func (s *AppointmentService) CheckConflict(ctx context.Context, clientID int64, at time.Time, excludeID int64) (bool, error) {
	count, err := s.appointments.CountAtInstant(ctx, clientID, at.UTC(), excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteAppointment removes an appointment permanently.
func (s *AppointmentService) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("appointment", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *AppointmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
