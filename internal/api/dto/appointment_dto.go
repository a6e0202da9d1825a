package dto

import "time"

// CreateAppointmentRequest payload for new appointments. Date carries the
// combined RFC 3339 instant; there is no separate time field.
type CreateAppointmentRequest struct {
	ClientID int64     `json:"client_id"`
	Date     time.Time `json:"date"`
	Service  string    `json:"service"`
	Price    *float64  `json:"price"`
	Status   string    `json:"status"`
	Notes    *string   `json:"notes"`
}

// UpdateAppointmentRequest payload for partial appointment updates.
type UpdateAppointmentRequest struct {
	ClientID *int64     `json:"client_id"`
	Date     *time.Time `json:"date"`
	Service  *string    `json:"service"`
	Price    *float64   `json:"price"`
	Status   *string    `json:"status"`
	Notes    *string    `json:"notes"`
}

// AppointmentResponse is the wire representation of an appointment.
type AppointmentResponse struct {
	ID        int64           `json:"id"`
	ClientID  int64           `json:"client_id"`
	Date      time.Time       `json:"date"`
	Service   string          `json:"service"`
	Price     *float64        `json:"price"`
	Status    string          `json:"status"`
	Notes     *string         `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	Client    *ClientResponse `json:"client,omitempty"`
}

// ConflictCheckResponse reports the advisory double-booking signal.
type ConflictCheckResponse struct {
	Conflict bool `json:"conflict"`
}
