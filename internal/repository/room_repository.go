package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
)

// RoomRepository handles room data access.
type RoomRepository struct {
	db Querier
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(db Querier) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetByID retrieves a room by its UUID.
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	room := &model.Room{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, building, capacity, created_at FROM rooms WHERE id = $1`, id,
	).Scan(&room.ID, &room.Name, &room.Building, &room.Capacity, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("room %s not found", id)
		}
		return nil, err
	}
	return room, nil
}

// List retrieves all rooms ordered by building and name.
func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, building, capacity, created_at FROM rooms ORDER BY building, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Building, &room.Capacity, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Create inserts a new room.
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO rooms (id, name, building, capacity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		room.ID, room.Name, room.Building, room.Capacity,
	).Scan(&room.CreatedAt)
}
