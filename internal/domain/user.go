package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Actor identifies who is performing a core operation. Handlers build it
// from JWT claims; services never read token state themselves.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsOwner() bool { return a.Role == RoleOwner }
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
