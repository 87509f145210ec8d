package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps a domain error to an HTTP status and a stable code string.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrRoleRequired), errors.Is(err, common.ErrSelfPartner):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, common.ErrNotOwner):
		return http.StatusForbidden, "not_owner"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrQuery), errors.Is(err, common.ErrImagePersist):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "route", c.FullPath(), "status", status, "error", err)
		// internal details stay in the log
		if status == http.StatusInternalServerError {
			c.JSON(status, ErrorResponse{Error: "internal error", Code: code})
			return
		}
	} else {
		s.logger.Debug(c.Request.Context(), "request rejected", "route", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
