package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetByID retrieves a course by its UUID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	err := r.db.QueryRow(ctx,
		`SELECT id, code, name, lecturer_id, group_id, created_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.LecturerID, &c.GroupID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("course %s not found", id)
		}
		return nil, err
	}
	return c, nil
}

// List retrieves all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, code, name, lecturer_id, group_id, created_at
		 FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.LecturerID, &c.GroupID, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO courses (id, code, name, lecturer_id, group_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		c.ID, c.Code, c.Name, c.LecturerID, c.GroupID,
	).Scan(&c.CreatedAt)
}
