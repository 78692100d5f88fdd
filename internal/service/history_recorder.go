package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
)

// Audit comments written by the engine's operations.
const (
	commentTermCreated = "Term created."
	commentTermUpdated = "Term updated."
)

// statusComment builds the audit comment for a status change, appending
// the rejection reason only when the new status is Rejected.
func statusComment(status model.TermStatus, rejectionReason string) string {
	comment := fmt.Sprintf("Status set to %s.", status)
	if status == model.TermStatusRejected && rejectionReason != "" {
		comment += fmt.Sprintf(" Reason: %s.", rejectionReason)
	}
	return comment
}

// HistoryRecorder appends immutable audit entries for term changes.
type HistoryRecorder struct {
	clock func() time.Time
}

// NewHistoryRecorder creates a recorder using the given clock. Pass nil
// for time.Now.
func NewHistoryRecorder(clock func() time.Time) *HistoryRecorder {
	if clock == nil {
		clock = time.Now
	}
	return &HistoryRecorder{clock: clock}
}

// Record appends one audit row capturing the transition from the previous
// status and start timestamp to the term's current ones. History requires
// a known actor: when changedBy is unset, nothing is recorded.
func (r *HistoryRecorder) Record(ctx context.Context, history repository.HistoryStore, term *model.ExamTerm, previousStatus model.TermStatus, previousStart time.Time, comment string, changedBy uuid.UUID) error {
	if changedBy == uuid.Nil {
		return nil
	}

	entry := &model.ExamTermHistory{
		ID:             uuid.New(),
		ExamTermID:     term.ID,
		ChangedBy:      changedBy,
		ChangedAt:      r.clock().UTC(),
		PreviousStatus: previousStatus,
		NewStatus:      term.Status,
		PreviousDate:   previousStart.UTC(),
		NewDate:        term.StartAt(),
	}
	if comment != "" {
		entry.Comment = &comment
	}

	return history.Create(ctx, entry)
}
