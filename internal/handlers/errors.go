package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickpay/quickpay_backend/internal/apperrors"
	"github.com/quickpay/quickpay_backend/internal/middleware"
)

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RejectionResponse is the payload for business-rule rejections. The code is
// stable and machine-readable; details carry the offending values.
type RejectionResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// respondError maps service errors onto HTTP responses. Business rejections
// keep their structured code and details; everything else collapses to the
// matching status with a generic message.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var rejection *apperrors.Rejection
	if errors.As(err, &rejection) {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperrors.ErrValidation):
			status = http.StatusBadRequest
		}
		logger.Info("Request rejected", slog.String("code", string(rejection.Code)), slog.String("message", rejection.Message))
		c.JSON(status, RejectionResponse{
			Code:    string(rejection.Code),
			Message: rejection.Message,
			Details: rejection.Details,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Resource already exists"})
	case errors.Is(err, apperrors.ErrVersionConflict):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Concurrent update detected, please retry"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
