package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamTermHistory is an append-only audit record of a term change.
// Rows are never mutated or deleted once written.
type ExamTermHistory struct {
	ID             uuid.UUID  `json:"id"`
	ExamTermID     uuid.UUID  `json:"exam_term_id"`
	ChangedBy      uuid.UUID  `json:"changed_by"`
	ChangedAt      time.Time  `json:"changed_at"`
	PreviousStatus TermStatus `json:"previous_status"`
	NewStatus      TermStatus `json:"new_status"`
	PreviousDate   time.Time  `json:"previous_date"`
	NewDate        time.Time  `json:"new_date"`
	Comment        *string    `json:"comment,omitempty"`
}
