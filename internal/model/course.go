package model

import (
	"time"

	"github.com/google/uuid"
)

// Course is an exam offering with exactly one lecturer and one owning
// student group. Identity is immutable; every term references it.
type Course struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	LecturerID uuid.UUID `json:"lecturer_id"`
	GroupID    uuid.UUID `json:"group_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for registering a course.
type CreateCourseRequest struct {
	Code       string    `json:"code" binding:"required,min=2,max=20"`
	Name       string    `json:"name" binding:"required,min=3,max=160"`
	LecturerID uuid.UUID `json:"lecturer_id" binding:"required"`
	GroupID    uuid.UUID `json:"group_id" binding:"required"`
}
