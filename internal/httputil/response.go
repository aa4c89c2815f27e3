// Package httputil provides shared HTTP plumbing: the error-to-status mapping,
// JSON error bodies, and pagination parsing used by every handler.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/opaqueid/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// statusFor picks the HTTP status and client-safe body for a domain error.
// Anything unrecognized is reported as a 500 without leaking details.
func statusFor(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "A conflict occurred with existing data",
		}
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		// Input errors are wrapped with client-safe text, so the error
		// message itself goes to the caller.
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}
}

// HandleErrorGin maps a domain error to its HTTP status and writes the JSON
// body. The full error chain is logged; only the mapped body reaches the
// client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, response := statusFor(err)

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleBadRequestGin reports malformed JSON or parameters as a 400.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin reports failed request validation as a 422.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
