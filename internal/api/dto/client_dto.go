package dto

import "time"

// CreateClientRequest payload for new clients.
type CreateClientRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    *string    `json:"phone"`
	Birthday *time.Time `json:"birthday"`
}

// UpdateClientRequest payload for partial client updates.
type UpdateClientRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`
	Birthday *time.Time `json:"birthday"`
}

// ClientResponse is the wire representation of a client.
type ClientResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
