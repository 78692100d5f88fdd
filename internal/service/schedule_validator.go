package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
)

// SessionRangeValidator confirms a candidate exam date falls within its
// session's active range and is not in the past. Read-only.
type SessionRangeValidator struct {
	clock func() time.Time
}

// NewSessionRangeValidator creates a validator using the given clock.
// Pass nil for time.Now.
func NewSessionRangeValidator(clock func() time.Time) *SessionRangeValidator {
	if clock == nil {
		clock = time.Now
	}
	return &SessionRangeValidator{clock: clock}
}

// Validate loads the session and checks the candidate date against today
// (UTC) and the session's inclusive date range. Returns the session so
// callers avoid a second lookup.
func (v *SessionRangeValidator) Validate(ctx context.Context, sessions repository.SessionStore, sessionID uuid.UUID, date time.Time) (*model.ExamSession, error) {
	session, err := sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	day := model.DateOnly(date)
	today := model.DateOnly(v.clock())

	if day.Before(today) {
		return nil, apperr.InvalidArgument("date cannot be in the past")
	}
	if !session.Contains(day) {
		return nil, apperr.InvalidArgument("date outside session range %s to %s",
			session.StartDate.Format("2006-01-02"), session.EndDate.Format("2006-01-02"))
	}
	return session, nil
}

// ValidateTimeRange confirms a start time precedes an end time.
func ValidateTimeRange(start, end model.MinuteOfDay) error {
	if start >= end {
		return apperr.InvalidArgument("start time must precede end time")
	}
	return nil
}
