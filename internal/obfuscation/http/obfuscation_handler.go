// Package http provides HTTP handlers for identifier obfuscation and keyspace introspection.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authHTTP "github.com/allisson/opaqueid/internal/auth/http"
	apperrors "github.com/allisson/opaqueid/internal/errors"
	"github.com/allisson/opaqueid/internal/httputil"
	"github.com/allisson/opaqueid/internal/obfuscation/domain"
	"github.com/allisson/opaqueid/internal/obfuscation/http/dto"
	obfuscationUseCase "github.com/allisson/opaqueid/internal/obfuscation/usecase"
	customValidation "github.com/allisson/opaqueid/internal/validation"
)

// ObfuscationHandler handles HTTP requests for encode and decode operations.
// Coordinates keyspace-scoped authorization with ObfuscationUseCase.
type ObfuscationHandler struct {
	obfuscationUseCase obfuscationUseCase.ObfuscationUseCase
	logger             *slog.Logger
}

// NewObfuscationHandler creates a new obfuscation handler with required dependencies.
func NewObfuscationHandler(
	useCase obfuscationUseCase.ObfuscationUseCase,
	logger *slog.Logger,
) *ObfuscationHandler {
	return &ObfuscationHandler{
		obfuscationUseCase: useCase,
		logger:             logger,
	}
}

// EncodeHandler obfuscates a decimal identifier under the named keyspace.
// POST /api/v1/obfuscation/encode - Requires the encode operation on the keyspace.
// Returns 200 OK with the keyspace, identifier, and token.
func (h *ObfuscationHandler) EncodeHandler(c *gin.Context) {
	var req dto.EncodeRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// The keyspace travels in the body, so the policy check runs here rather
	// than as route middleware
	if !authHTTP.Authorize(c, authDomain.OperationEncode, req.Keyspace, h.logger) {
		return
	}

	// Call use case
	token, err := h.obfuscationUseCase.Encode(c.Request.Context(), req.Keyspace, req.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	response := dto.ObfuscationResponse{
		Keyspace: req.Keyspace,
		ID:       req.ID,
		Token:    token,
	}
	c.JSON(http.StatusOK, response)
}

// DecodeHandler verifies a token under the named keyspace and recovers the
// original identifier.
// POST /api/v1/obfuscation/decode - Requires the decode operation on the keyspace.
// Returns 200 OK with the keyspace, identifier, and token.
//
// Every rejected token produces the same 422 body whether it was malformed or
// failed tag verification; the distinct kind appears in the log entry only, so
// a caller probing with forged tokens learns nothing from the response shape.
func (h *ObfuscationHandler) DecodeHandler(c *gin.Context) {
	var req dto.DecodeRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// The keyspace travels in the body, so the policy check runs here rather
	// than as route middleware
	if !authHTTP.Authorize(c, authDomain.OperationDecode, req.Keyspace, h.logger) {
		return
	}

	// Call use case
	id, err := h.obfuscationUseCase.Decode(c.Request.Context(), req.Keyspace, req.Token)
	if err != nil {
		if apperrors.Is(err, domain.ErrInvalidToken) {
			h.logger.Warn("token rejected",
				slog.String("keyspace", req.Keyspace),
				slog.Any("error", err))
			c.JSON(http.StatusUnprocessableEntity, httputil.ErrorResponse{
				Error:   "invalid_token",
				Message: "token is not valid for this keyspace",
			})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	response := dto.ObfuscationResponse{
		Keyspace: req.Keyspace,
		ID:       id,
		Token:    req.Token,
	}
	c.JSON(http.StatusOK, response)
}
