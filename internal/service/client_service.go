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

// ClientService coordinates the client directory.
type ClientService struct {
	clients      repository.ClientRepository
	appointments repository.AppointmentRepository
	dispatcher   events.Dispatcher
}

// ClientDependencies bundles repositories for client service.
type ClientDependencies struct {
	ClientRepo      repository.ClientRepository
	AppointmentRepo repository.AppointmentRepository
	Dispatcher      events.Dispatcher
}

// ClientCreateInput describes client creation payload.
type ClientCreateInput struct {
	Name     string
	Email    string
	Phone    *string
	Birthday *time.Time
}

// ClientUpdateInput carries a partial update; nil fields keep prior values.
type ClientUpdateInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Birthday *time.Time
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	return &ClientService{
		clients:      deps.ClientRepo,
		appointments: deps.AppointmentRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// CreateClient registers a new customer record. Email must be unique.
func (s *ClientService) CreateClient(ctx context.Context, input ClientCreateInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}

	if _, err := s.clients.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	client := &domain.Client{
		Name:     name,
		Email:    email,
		Phone:    input.Phone,
		Birthday: input.Birthday,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventClientCreated,
		ClientID: client.ID,
		Payload: events.ClientCreatedPayload{
			Name:  client.Name,
			Email: client.Email,
		},
	})
	return client, nil
}

// ListClients returns all customer records.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

// GetClient returns a single client by id.
func (s *ClientService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"id": id})
		}
		return nil, err
	}
	return client, nil
}

// UpdateClient applies the provided fields only; omitted fields keep their
// prior values.
func (s *ClientService) UpdateClient(ctx context.Context, id int64, input ClientUpdateInput) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		client.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("email must not be empty", nil)
		}
		if email != client.Email {
			if existing, err := s.clients.GetByEmail(ctx, email); err == nil && existing.ID != id {
				return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
			} else if err != nil && err != pgx.ErrNoRows {
				return nil, err
			}
		}
		client.Email = email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Birthday != nil {
		client.Birthday = input.Birthday
	}

	if err := s.clients.Update(ctx, client); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("client", map[string]any{"id": id})
		}
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client. Deletion is rejected while appointments
// still reference the client; the caller must delete those first.
func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}

	count, err := s.appointments.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflict("client has appointments", map[string]any{
			"id":           id,
			"appointments": count,
		})
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("client", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *ClientService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
