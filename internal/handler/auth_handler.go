package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/middleware"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/repository"
	"github.com/uniterm/terminarz-backend/internal/response"
	"github.com/uniterm/terminarz-backend/internal/service"
	"github.com/uniterm/terminarz-backend/internal/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	accounts    repository.AccountStore
	log         zerolog.Logger
}

func NewAuthHandler(authService *service.AuthService, accounts repository.AccountStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accounts:    accounts,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accounts.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.authService.CheckPassword(account.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), account)
	if err != nil {
		h.log.Error().Err(err).Msg("Token generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.log.Info().Str("account_id", account.ID.String()).Str("role", string(account.Role)).Msg("Account logged in")

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"account": account,
	})
}

// Me godoc
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), claims.AccountID)
	if err != nil {
		failDomain(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"account": account})
}

// Logout godoc
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims.AccountID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out successfully"})
}
