package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// GroupRepository handles student group data access.
type GroupRepository struct {
	db Querier
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db Querier) *GroupRepository {
	return &GroupRepository{db: db}
}

// GetByID retrieves a student group by its UUID.
func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StudentGroup, error) {
	g := &model.StudentGroup{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, starosta_id, created_at FROM student_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.StarostaID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("student group %s not found", id)
		}
		return nil, err
	}
	return g, nil
}

// List retrieves all student groups ordered by name.
func (r *GroupRepository) List(ctx context.Context) ([]model.StudentGroup, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, starosta_id, created_at FROM student_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.StudentGroup
	for rows.Next() {
		var g model.StudentGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.StarostaID, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Create inserts a new student group.
func (r *GroupRepository) Create(ctx context.Context, g *model.StudentGroup) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO student_groups (id, name, starosta_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		g.ID, g.Name, g.StarostaID,
	).Scan(&g.CreatedAt)
}
