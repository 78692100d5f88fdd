package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniterm/terminarz-backend/internal/middleware"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/response"
	"github.com/uniterm/terminarz-backend/internal/service"
	"github.com/uniterm/terminarz-backend/internal/validator"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

type TermHandler struct {
	termService *service.ExamTermService
}

func NewTermHandler(termService *service.ExamTermService) *TermHandler {
	return &TermHandler{termService: termService}
}

// GetAll godoc
// GET /api/v1/terms?session_id=...&page=...&per_page=...
func (h *TermHandler) GetAll(c *gin.Context) {
	var sessionID *uuid.UUID
	if raw := c.Query("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		sessionID = &id
	}

	page := parsePositiveInt(c.Query("page"), 1)
	perPage := parsePositiveInt(c.Query("per_page"), defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	terms, total, err := h.termService.ListWithDetails(c.Request.Context(), sessionID, perPage, (page-1)*perPage)
	if err != nil {
		failDomain(c, err)
		return
	}
	if terms == nil {
		terms = []model.TermWithDetails{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"terms": terms}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// Search godoc
// GET /api/v1/terms/search?q=...
func (h *TermHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	terms, err := h.termService.SearchWithDetails(c.Request.Context(), query)
	if err != nil {
		failDomain(c, err)
		return
	}
	if terms == nil {
		terms = []model.TermWithDetails{}
	}

	response.Success(c, http.StatusOK, gin.H{"terms": terms})
}

// GetByID godoc
// GET /api/v1/terms/:id
func (h *TermHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	term, err := h.termService.GetDetails(c.Request.Context(), id)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"term": term})
}

// GetHistory godoc
// GET /api/v1/terms/:id/history
func (h *TermHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	history, err := h.termService.GetHistory(c.Request.Context(), id)
	if err != nil {
		failDomain(c, err)
		return
	}
	if history == nil {
		history = []model.ExamTermHistory{}
	}

	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// GetByCourse godoc
// GET /api/v1/courses/:id/terms
func (h *TermHandler) GetByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	terms, err := h.termService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		failDomain(c, err)
		return
	}
	if terms == nil {
		terms = []model.ExamTerm{}
	}

	response.Success(c, http.StatusOK, gin.H{"terms": terms})
}

// GetDaySchedule godoc
// GET /api/v1/schedule/:date  (date as 2006-01-02)
func (h *TermHandler) GetDaySchedule(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	terms, err := h.termService.GetDaySchedule(c.Request.Context(), date)
	if err != nil {
		failDomain(c, err)
		return
	}
	if terms == nil {
		terms = []model.TermWithDetails{}
	}

	response.Success(c, http.StatusOK, gin.H{"terms": terms})
}

// Create godoc
// POST /api/v1/terms
func (h *TermHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateTermRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	in, fields := buildCreateInput(&req)
	if fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	term, err := h.termService.Add(c.Request.Context(), claims.AccountID, in)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"term": term})
}

// Update godoc
// PUT /api/v1/terms/:id
func (h *TermHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTermRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	in, fields := buildUpdateInput(&req)
	if fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	term, err := h.termService.Update(c.Request.Context(), claims.AccountID, id, in)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"term": term})
}

// UpdateStatus godoc
// PATCH /api/v1/terms/:id/status
func (h *TermHandler) UpdateStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTermStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// The workflow table gates who may move a term where. The no-op
	// transition (same status) is always allowed for idempotent retries.
	current, err := h.termService.GetByID(c.Request.Context(), id)
	if err != nil {
		failDomain(c, err)
		return
	}
	if current.Status != req.Status && !service.CanTransition(claims.Role, current.Status, req.Status) {
		response.Fail(c, http.StatusForbidden, response.ErrInvalidTransition)
		return
	}

	term, err := h.termService.UpdateStatus(c.Request.Context(), claims.AccountID, id, req.Status, req.RejectionReason)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"term": term})
}

// Delete godoc
// DELETE /api/v1/terms/:id
func (h *TermHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.termService.Remove(c.Request.Context(), claims.AccountID, id); err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "term removed successfully"})
}

// ─── Payload conversion ────────────────────────────────────────────

func buildCreateInput(req *model.CreateTermRequest) (service.CreateTermInput, map[string]string) {
	date, start, end, fields := parseSlot(req.Date, req.StartTime, req.EndTime)
	if fields != nil {
		return service.CreateTermInput{}, fields
	}
	return service.CreateTermInput{
		CourseID:  req.CourseID,
		SessionID: req.SessionID,
		RoomID:    req.RoomID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Type:      req.Type,
		Status:    req.Status,
	}, nil
}

func buildUpdateInput(req *model.UpdateTermRequest) (service.UpdateTermInput, map[string]string) {
	date, start, end, fields := parseSlot(req.Date, req.StartTime, req.EndTime)
	if fields != nil {
		return service.UpdateTermInput{}, fields
	}
	return service.UpdateTermInput{
		SessionID: req.SessionID,
		RoomID:    req.RoomID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Type:      req.Type,
	}, nil
}

func parsePositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func parseSlot(rawDate, rawStart, rawEnd string) (time.Time, model.MinuteOfDay, model.MinuteOfDay, map[string]string) {
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return time.Time{}, 0, 0, map[string]string{"date": "must be a valid date in YYYY-MM-DD format"}
	}
	start, err := model.ParseMinuteOfDay(rawStart)
	if err != nil {
		return time.Time{}, 0, 0, map[string]string{"start_time": "must be a valid time in HH:MM format"}
	}
	end, err := model.ParseMinuteOfDay(rawEnd)
	if err != nil {
		return time.Time{}, 0, 0, map[string]string{"end_time": "must be a valid time in HH:MM format"}
	}
	return date, start, end, nil
}
