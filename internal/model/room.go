package model

import (
	"time"

	"github.com/google/uuid"
)

// Room is a bookable exam venue.
type Room struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Building  string    `json:"building"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRoomRequest is the payload for registering a room.
type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=40"`
	Building string `json:"building" binding:"omitempty,max=80"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=2000"`
}
