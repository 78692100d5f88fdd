package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// TermRepository handles exam term data access.
type TermRepository struct {
	db Querier
}

// NewTermRepository creates a new TermRepository.
func NewTermRepository(db Querier) *TermRepository {
	return &TermRepository{db: db}
}

const termColumns = `id, course_id, session_id, room_id, date, start_min, end_min,
       type, status, created_by, rejection_reason, created_at, updated_at`

func scanTerm(row pgx.Row) (*model.ExamTerm, error) {
	t := &model.ExamTerm{}
	err := row.Scan(&t.ID, &t.CourseID, &t.SessionID, &t.RoomID, &t.Date,
		&t.StartTime, &t.EndTime, &t.Type, &t.Status, &t.CreatedBy,
		&t.RejectionReason, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a term by its UUID.
func (r *TermRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamTerm, error) {
	t, err := scanTerm(r.db.QueryRow(ctx,
		`SELECT `+termColumns+` FROM exam_terms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("exam term %s not found", id)
		}
		return nil, err
	}
	return t, nil
}

const termDetailColumns = `t.id, t.course_id, t.session_id, t.room_id, t.date,
       t.start_min, t.end_min, t.type, t.status, t.created_by, t.rejection_reason,
       t.created_at, t.updated_at,
       c.name, c.lecturer_id, l.name, c.group_id, g.name, r.name, s.name`

const termDetailJoins = ` FROM exam_terms t
       JOIN courses c ON c.id = t.course_id
       JOIN accounts l ON l.id = c.lecturer_id
       JOIN student_groups g ON g.id = c.group_id
       JOIN exam_sessions s ON s.id = t.session_id
       LEFT JOIN rooms r ON r.id = t.room_id`

func scanTermDetails(rows pgx.Rows) ([]model.TermWithDetails, error) {
	var terms []model.TermWithDetails
	for rows.Next() {
		var t model.TermWithDetails
		if err := rows.Scan(&t.ID, &t.CourseID, &t.SessionID, &t.RoomID, &t.Date,
			&t.StartTime, &t.EndTime, &t.Type, &t.Status, &t.CreatedBy,
			&t.RejectionReason, &t.CreatedAt, &t.UpdatedAt,
			&t.CourseName, &t.LecturerID, &t.LecturerName, &t.GroupID, &t.GroupName,
			&t.RoomName, &t.SessionName); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// GetDetails retrieves a term with its course, lecturer, group and room resolved.
func (r *TermRepository) GetDetails(ctx context.Context, id uuid.UUID) (*model.TermWithDetails, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+termDetailColumns+termDetailJoins+` WHERE t.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms, err := scanTermDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, apperr.NotFound("exam term %s not found", id)
	}
	return &terms[0], nil
}

// List retrieves terms, optionally filtered by session.
func (r *TermRepository) List(ctx context.Context, sessionID *uuid.UUID) ([]model.ExamTerm, error) {
	query := `SELECT ` + termColumns + ` FROM exam_terms`
	var args []any
	if sessionID != nil {
		query += ` WHERE session_id = $1`
		args = append(args, *sessionID)
	}
	query += ` ORDER BY date, start_min`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTerms(rows)
}

// ListByCourse retrieves all terms scheduled for one course.
func (r *TermRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.ExamTerm, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+termColumns+` FROM exam_terms WHERE course_id = $1 ORDER BY date, start_min`,
		courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTerms(rows)
}

func collectTerms(rows pgx.Rows) ([]model.ExamTerm, error) {
	var terms []model.ExamTerm
	for rows.Next() {
		var t model.ExamTerm
		if err := rows.Scan(&t.ID, &t.CourseID, &t.SessionID, &t.RoomID, &t.Date,
			&t.StartTime, &t.EndTime, &t.Type, &t.Status, &t.CreatedBy,
			&t.RejectionReason, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Count returns the number of terms, optionally filtered by session.
func (r *TermRepository) Count(ctx context.Context, sessionID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM exam_terms`
	var args []any
	if sessionID != nil {
		query += ` WHERE session_id = $1`
		args = append(args, *sessionID)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListWithDetails retrieves one page of terms with relations resolved,
// optionally filtered by session.
func (r *TermRepository) ListWithDetails(ctx context.Context, sessionID *uuid.UUID, limit, offset int) ([]model.TermWithDetails, error) {
	query := `SELECT ` + termDetailColumns + termDetailJoins
	var args []any
	if sessionID != nil {
		query += ` WHERE t.session_id = $1`
		args = append(args, *sessionID)
	}
	query += fmt.Sprintf(` ORDER BY t.date, t.start_min LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTermDetails(rows)
}

// SearchWithDetails retrieves terms matching the query against course,
// lecturer, group or room names.
func (r *TermRepository) SearchWithDetails(ctx context.Context, query string) ([]model.TermWithDetails, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.Query(ctx,
		`SELECT `+termDetailColumns+termDetailJoins+`
		 WHERE c.name ILIKE $1 OR c.code ILIKE $1 OR l.name ILIKE $1
		    OR g.name ILIKE $1 OR r.name ILIKE $1
		 ORDER BY t.date, t.start_min`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTermDetails(rows)
}

// ListOverlapping returns non-rejected terms on the given date whose
// half-open [start, end) interval intersects the candidate window.
// Rejected terms are out of contention and never conflict.
func (r *TermRepository) ListOverlapping(ctx context.Context, date time.Time, start, end model.MinuteOfDay, excludeID uuid.UUID) ([]model.TermWithDetails, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+termDetailColumns+termDetailJoins+`
		 WHERE t.date = $1
		   AND t.start_min < $3 AND $2 < t.end_min
		   AND t.id <> $4
		   AND t.status <> $5`,
		model.DateOnly(date), int(start), int(end), excludeID, model.TermStatusRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTermDetails(rows)
}

// ListOnDate returns all non-rejected terms on the given calendar day.
func (r *TermRepository) ListOnDate(ctx context.Context, date time.Time, excludeID uuid.UUID) ([]model.TermWithDetails, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+termDetailColumns+termDetailJoins+`
		 WHERE t.date = $1 AND t.id <> $2 AND t.status <> $3
		 ORDER BY t.start_min`,
		model.DateOnly(date), excludeID, model.TermStatusRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTermDetails(rows)
}

// CountOutsideRange counts the session's terms dated outside [start, end].
func (r *TermRepository) CountOutsideRange(ctx context.Context, sessionID uuid.UUID, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_terms
		 WHERE session_id = $1 AND (date < $2 OR date > $3)`,
		sessionID, model.DateOnly(start), model.DateOnly(end)).Scan(&n)
	return n, err
}

// Create inserts a new term.
func (r *TermRepository) Create(ctx context.Context, t *model.ExamTerm) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO exam_terms (id, course_id, session_id, room_id, date, start_min,
		        end_min, type, status, created_by, rejection_reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		t.ID, t.CourseID, t.SessionID, t.RoomID, model.DateOnly(t.Date),
		int(t.StartTime), int(t.EndTime), t.Type, t.Status, t.CreatedBy,
		t.RejectionReason,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites a term's schedulable fields and status.
func (r *TermRepository) Update(ctx context.Context, t *model.ExamTerm) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE exam_terms
		 SET session_id = $1, room_id = $2, date = $3, start_min = $4, end_min = $5,
		     type = $6, status = $7, rejection_reason = $8, updated_at = NOW()
		 WHERE id = $9`,
		t.SessionID, t.RoomID, model.DateOnly(t.Date), int(t.StartTime),
		int(t.EndTime), t.Type, t.Status, t.RejectionReason, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("exam term %s not found", t.ID)
	}
	return nil
}

// Delete removes a term. History rows cascade at the schema level.
func (r *TermRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exam_terms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("exam term %s not found", id)
	}
	return nil
}
