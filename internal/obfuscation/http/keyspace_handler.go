// Package http provides HTTP handlers for identifier obfuscation and keyspace introspection.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/opaqueid/internal/httputil"
	"github.com/allisson/opaqueid/internal/obfuscation/http/dto"
	obfuscationUseCase "github.com/allisson/opaqueid/internal/obfuscation/usecase"
)

// KeyspaceHandler handles HTTP requests for keyspace introspection.
// Listing is authentication-only: keyspace parameters are public and clients
// need them to know what they may request authorization for.
type KeyspaceHandler struct {
	keyspaceUseCase obfuscationUseCase.KeyspaceUseCase
	logger          *slog.Logger
}

// NewKeyspaceHandler creates a new keyspace handler with required dependencies.
func NewKeyspaceHandler(
	keyspaceUseCase obfuscationUseCase.KeyspaceUseCase,
	logger *slog.Logger,
) *KeyspaceHandler {
	return &KeyspaceHandler{
		keyspaceUseCase: keyspaceUseCase,
		logger:          logger,
	}
}

// ListHandler retrieves keyspace descriptions with pagination support.
// GET /api/v1/keyspaces?offset=0&limit=50 - Requires authentication.
// Returns 200 OK with the paginated keyspace list.
func (h *KeyspaceHandler) ListHandler(c *gin.Context) {
	// Parse offset and limit query parameters
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Call use case
	infos, err := h.keyspaceUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Map to response
	response := dto.MapKeyspaceInfosToListResponse(infos)
	c.JSON(http.StatusOK, response)
}

// GetHandler retrieves a single keyspace description by name.
// GET /api/v1/keyspaces/:name - Requires authentication.
// Returns 200 OK with the keyspace description.
func (h *KeyspaceHandler) GetHandler(c *gin.Context) {
	// Get keyspace name from URL parameter
	name := c.Param("name")
	if name == "" {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("keyspace name is required in URL path"),
			h.logger)
		return
	}

	// Call use case
	info, err := h.keyspaceUseCase.Get(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	response := dto.MapKeyspaceInfoToResponse(*info)
	c.JSON(http.StatusOK, response)
}
