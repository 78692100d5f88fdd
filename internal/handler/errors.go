package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uniterm/terminarz-backend/internal/apperr"
	"github.com/uniterm/terminarz-backend/internal/response"
	"github.com/uniterm/terminarz-backend/internal/service"
)

// failDomain maps a domain error onto the HTTP envelope. Rule violations
// carry the domain message through verbatim so the client can display it.
func failDomain(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, err.Error())
	case apperr.KindInvalidArgument:
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, err.Error())
	case apperr.KindBusinessRule:
		code := response.ErrBusinessRule
		if errors.Is(err, service.ErrScheduleConflict) {
			code = response.ErrScheduleConflict
		}
		response.FailWithMessage(c, http.StatusConflict, code, err.Error())
	case apperr.KindCancelled:
		// 499 is nginx's client-closed-request status.
		response.Fail(c, 499, response.ErrRequestCancelled)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
