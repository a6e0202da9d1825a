package events

import (
	"time"

	"github.com/spec-kit/salon-crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppointmentCreated       EventType = "appointment_created"
	EventAppointmentStatusChanged EventType = "appointment_status_changed"
	EventClientCreated            EventType = "client_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	AppointmentID int64       `json:"appointment_id,omitempty"`
	ClientID      int64       `json:"client_id,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// AppointmentCreatedPayload payload.
type AppointmentCreatedPayload struct {
	Service string    `json:"service"`
	Date    time.Time `json:"date"`
}

// AppointmentStatusChangedPayload payload.
type AppointmentStatusChangedPayload struct {
	OldStatus domain.AppointmentStatus `json:"old_status"`
	NewStatus domain.AppointmentStatus `json:"new_status"`
}

// ClientCreatedPayload payload.
type ClientCreatedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
