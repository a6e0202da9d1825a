package domain

import "time"

// AppointmentStatus enumerates lifecycle states for appointments.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether the status is one of the enumerated values.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is the aggregate for booked salon services. Date is a single
// UTC instant; any locale formatting happens at the presentation layer.
type Appointment struct {
	ID        int64
	ClientID  int64
	Date      time.Time
	Service   string
	Price     *float64
	Status    AppointmentStatus
	Notes     *string
	CreatedAt time.Time
}

// AppointmentWithClient joins an appointment with its owning client's summary.
type AppointmentWithClient struct {
	Appointment
	Client Client
}
