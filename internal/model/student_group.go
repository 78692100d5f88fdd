package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentGroup is a cohort that owns courses; its starosta approves terms
// on the students' behalf.
type StudentGroup struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	StarostaID *uuid.UUID `json:"starosta_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateGroupRequest is the payload for registering a student group.
type CreateGroupRequest struct {
	Name       string     `json:"name" binding:"required,min=2,max=80"`
	StarostaID *uuid.UUID `json:"starosta_id" binding:"omitempty"`
}
