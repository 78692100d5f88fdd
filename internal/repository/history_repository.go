package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// HistoryRepository handles term audit record access. Records are
// append-only; there is no update or delete path.
type HistoryRepository struct {
	db Querier
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db Querier) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create appends one audit record.
func (r *HistoryRepository) Create(ctx context.Context, h *model.ExamTermHistory) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO exam_term_history (id, exam_term_id, changed_by, changed_at,
		        previous_status, new_status, previous_date, new_date, comment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.ExamTermID, h.ChangedBy, h.ChangedAt,
		h.PreviousStatus, h.NewStatus, h.PreviousDate, h.NewDate, h.Comment)
	return err
}

// ListByTerm retrieves a term's audit trail, newest first.
func (r *HistoryRepository) ListByTerm(ctx context.Context, termID uuid.UUID) ([]model.ExamTermHistory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, exam_term_id, changed_by, changed_at, previous_status,
		        new_status, previous_date, new_date, comment
		 FROM exam_term_history WHERE exam_term_id = $1
		 ORDER BY changed_at DESC`, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ExamTermHistory
	for rows.Next() {
		var h model.ExamTermHistory
		if err := rows.Scan(&h.ID, &h.ExamTermID, &h.ChangedBy, &h.ChangedAt,
			&h.PreviousStatus, &h.NewStatus, &h.PreviousDate, &h.NewDate, &h.Comment); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
