package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/response"
	"github.com/uniterm/terminarz-backend/internal/service"
	"github.com/uniterm/terminarz-backend/internal/validator"
)

type SessionHandler struct {
	sessionService *service.ExamSessionService
}

func NewSessionHandler(sessionService *service.ExamSessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// GetAll godoc
// GET /api/v1/sessions
func (h *SessionHandler) GetAll(c *gin.Context) {
	sessions, err := h.sessionService.List(c.Request.Context())
	if err != nil {
		failDomain(c, err)
		return
	}
	if sessions == nil {
		sessions = []model.ExamSession{}
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// GetByID godoc
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), id)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Create godoc
// POST /api/v1/admin/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	isActive := req.IsActive != nil && *req.IsActive

	session, err := h.sessionService.Create(c.Request.Context(), req.Name, startDate, endDate, isActive)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// Update godoc
// PUT /api/v1/admin/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	in := service.UpdateSessionInput{Name: req.Name, IsActive: req.IsActive}
	if req.StartDate != "" {
		startDate, _ := time.Parse("2006-01-02", req.StartDate)
		in.StartDate = &startDate
	}
	if req.EndDate != "" {
		endDate, _ := time.Parse("2006-01-02", req.EndDate)
		in.EndDate = &endDate
	}

	session, err := h.sessionService.Update(c.Request.Context(), id, in)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}
