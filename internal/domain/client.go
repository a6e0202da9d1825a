package domain

import "time"

// Client is the domain model for salon customers.
type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     *string
	Birthday  *time.Time
	CreatedAt time.Time
}
