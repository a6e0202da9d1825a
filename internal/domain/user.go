package domain

import "time"

// UserRole distinguishes staff accounts from administrators.
type UserRole string

const (
	UserRoleStaff UserRole = "staff"
	UserRoleAdmin UserRole = "admin"
)

// User is the domain model for staff accounts that authenticate against the API.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}
