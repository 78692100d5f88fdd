package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/response"
	"github.com/uniterm/terminarz-backend/internal/service"
	"github.com/uniterm/terminarz-backend/internal/validator"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetCourses godoc
// GET /api/v1/courses
func (h *CatalogHandler) GetCourses(c *gin.Context) {
	courses, err := h.catalogService.ListCourses(c.Request.Context())
	if err != nil {
		failDomain(c, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CreateCourse godoc
// POST /api/v1/admin/courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.catalogService.CreateCourse(c.Request.Context(), req.Code, req.Name, req.LecturerID, req.GroupID)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// GetRooms godoc
// GET /api/v1/rooms
func (h *CatalogHandler) GetRooms(c *gin.Context) {
	rooms, err := h.catalogService.ListRooms(c.Request.Context())
	if err != nil {
		failDomain(c, err)
		return
	}
	if rooms == nil {
		rooms = []model.Room{}
	}

	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

// CreateRoom godoc
// POST /api/v1/admin/rooms
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req model.CreateRoomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	room, err := h.catalogService.CreateRoom(c.Request.Context(), req.Name, req.Building, req.Capacity)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

// GetGroups godoc
// GET /api/v1/groups
func (h *CatalogHandler) GetGroups(c *gin.Context) {
	groups, err := h.catalogService.ListGroups(c.Request.Context())
	if err != nil {
		failDomain(c, err)
		return
	}
	if groups == nil {
		groups = []model.StudentGroup{}
	}

	response.Success(c, http.StatusOK, gin.H{"groups": groups})
}

// CreateGroup godoc
// POST /api/v1/admin/groups
func (h *CatalogHandler) CreateGroup(c *gin.Context) {
	var req model.CreateGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.catalogService.CreateGroup(c.Request.Context(), req.Name, req.StarostaID)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"group": group})
}
