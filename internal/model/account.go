package model

import (
	"time"

	"github.com/google/uuid"
)

// Role enumerates the actor roles in the approval workflow.
type Role string

const (
	RoleLecturer Role = "LECTURER"
	RoleStarosta Role = "STAROSTA"
	RoleDean     Role = "DEAN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleLecturer, RoleStarosta, RoleDean:
		return true
	}
	return false
}

// Account is a workflow participant: lecturer, starosta, or dean's office staff.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for account login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}
