package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamSession is a named period that bounds when terms may be scheduled.
// Invariant: StartDate <= EndDate.
type ExamSession struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contains reports whether the calendar day of date falls inside the
// session's inclusive date range.
func (s *ExamSession) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(s.StartDate)) && !d.After(DateOnly(s.EndDate))
}

// CreateSessionRequest is the payload for creating an exam session.
type CreateSessionRequest struct {
	Name      string `json:"name" binding:"required,min=3,max=120"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	IsActive  *bool  `json:"is_active" binding:"omitempty"`
}

// UpdateSessionRequest is the payload for editing an exam session.
type UpdateSessionRequest struct {
	Name      string `json:"name" binding:"omitempty,min=3,max=120"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	IsActive  *bool  `json:"is_active" binding:"omitempty"`
}
