package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
)

// CatalogService manages the reference data terms point at: courses,
// rooms and student groups.
type CatalogService struct {
	stores repository.Stores
	log    zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(stores repository.Stores, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		stores: stores,
		log:    log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListCourses retrieves all courses.
func (s *CatalogService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.stores.Courses.List(ctx)
}

// CreateCourse registers a course after checking its lecturer and group exist.
func (s *CatalogService) CreateCourse(ctx context.Context, code, name string, lecturerID, groupID uuid.UUID) (*model.Course, error) {
	lecturer, err := s.stores.Accounts.GetByID(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	if lecturer.Role != model.RoleLecturer {
		return nil, apperr.InvalidArgument("account %s is not a lecturer", lecturerID)
	}
	if _, err := s.stores.Groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	course := &model.Course{
		ID:         uuid.New(),
		Code:       code,
		Name:       name,
		LecturerID: lecturerID,
		GroupID:    groupID,
	}
	if err := s.stores.Courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info().Str("course_id", course.ID.String()).Str("code", code).Msg("Course registered")
	return course, nil
}

// ListRooms retrieves all rooms.
func (s *CatalogService) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.stores.Rooms.List(ctx)
}

// CreateRoom registers a room.
func (s *CatalogService) CreateRoom(ctx context.Context, name, building string, capacity int) (*model.Room, error) {
	room := &model.Room{
		ID:       uuid.New(),
		Name:     name,
		Building: building,
		Capacity: capacity,
	}
	if err := s.stores.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info().Str("room_id", room.ID.String()).Str("name", name).Msg("Room registered")
	return room, nil
}

// ListGroups retrieves all student groups.
func (s *CatalogService) ListGroups(ctx context.Context) ([]model.StudentGroup, error) {
	return s.stores.Groups.List(ctx)
}

// CreateGroup registers a student group. A starosta, when given, must be
// an existing account with the starosta role.
func (s *CatalogService) CreateGroup(ctx context.Context, name string, starostaID *uuid.UUID) (*model.StudentGroup, error) {
	if starostaID != nil {
		starosta, err := s.stores.Accounts.GetByID(ctx, *starostaID)
		if err != nil {
			return nil, err
		}
		if starosta.Role != model.RoleStarosta {
			return nil, apperr.InvalidArgument("account %s is not a starosta", *starostaID)
		}
	}

	group := &model.StudentGroup{
		ID:         uuid.New(),
		Name:       name,
		StarostaID: starostaID,
	}
	if err := s.stores.Groups.Create(ctx, group); err != nil {
		return nil, err
	}

	s.log.Info().Str("group_id", group.ID.String()).Str("name", name).Msg("Student group registered")
	return group, nil
}
