package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/salon-crm/internal/events"
	"github.com/spec-kit/salon-crm/internal/notification"
	apperrors "github.com/spec-kit/salon-crm/pkg/util"
)

// NotificationService owns outbound messaging. Template sends go through
// the WhatsApp provider on explicit request; domain events are observed for
// operational logging only, never auto-sent.
type NotificationService struct {
	whatsapp   *notification.WhatsAppClient
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(whatsapp *notification.WhatsAppClient, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		whatsapp:   whatsapp,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SendTemplate forwards a templated message to the provider and returns its
// acknowledgment. Provider failures propagate unchanged; nothing is retried.
func (n *NotificationService) SendTemplate(ctx context.Context, to string, variables map[string]string) (*notification.SendResult, error) {
	if n.whatsapp == nil {
		return nil, apperrors.NewValidationError("whatsapp messaging not configured", nil)
	}
	result, err := n.whatsapp.SendTemplate(ctx, to, variables)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("whatsapp send failed", err)
	}
	n.logger.Info("whatsapp template sent",
		zap.String("to", to),
		zap.String("sid", result.SID),
		zap.String("status", result.Status))
	return result, nil
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAppointmentCreated, n.handleAppointmentCreated)
	n.dispatcher.Subscribe(events.EventAppointmentStatusChanged, n.handleAppointmentStatusChanged)
	n.dispatcher.Subscribe(events.EventClientCreated, n.handleClientCreated)
}

func (n *NotificationService) handleAppointmentCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("AppointmentCreated",
		zap.Int64("appointment_id", event.AppointmentID),
		zap.Int64("client_id", event.ClientID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleAppointmentStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AppointmentStatusChanged",
		zap.Int64("appointment_id", event.AppointmentID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleClientCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ClientCreated",
		zap.Int64("client_id", event.ClientID),
		zap.Any("payload", event.Payload))
	return nil
}
