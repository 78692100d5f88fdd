package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// SessionRepository handles exam session data access.
type SessionRepository struct {
	db Querier
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db Querier) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetByID retrieves an exam session by its UUID.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, start_date, end_date, is_active, created_at, updated_at
		 FROM exam_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("exam session %s not found", id)
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all exam sessions, newest range first.
func (r *SessionRepository) List(ctx context.Context) ([]model.ExamSession, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, start_date, end_date, is_active, created_at, updated_at
		 FROM exam_sessions ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.ExamSession
	for rows.Next() {
		var s model.ExamSession
		if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsActive,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Create inserts a new exam session.
func (r *SessionRepository) Create(ctx context.Context, s *model.ExamSession) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO exam_sessions (id, name, start_date, end_date, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		s.ID, s.Name, model.DateOnly(s.StartDate), model.DateOnly(s.EndDate), s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites an exam session.
func (r *SessionRepository) Update(ctx context.Context, s *model.ExamSession) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE exam_sessions
		 SET name = $1, start_date = $2, end_date = $3, is_active = $4, updated_at = NOW()
		 WHERE id = $5`,
		s.Name, model.DateOnly(s.StartDate), model.DateOnly(s.EndDate), s.IsActive, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("exam session %s not found", s.ID)
	}
	return nil
}
