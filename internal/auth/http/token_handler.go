package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	"github.com/allisson/opaqueid/internal/auth/http/dto"
	authUseCase "github.com/allisson/opaqueid/internal/auth/usecase"
	"github.com/allisson/opaqueid/internal/httputil"
	customValidation "github.com/allisson/opaqueid/internal/validation"
)

// TokenHandler serves the token issuance endpoint.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a token handler.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokenUseCase: tokenUseCase, logger: logger}
}

// IssueTokenHandler exchanges client credentials for a bearer token.
//
// POST /api/v1/auth/token. The route carries no authentication middleware
// since it is the endpoint that bootstraps authentication; the IP rate
// limiter in front of it slows down credential guessing. Responds 201 with
// the plaintext token and its expiry.
//
// Client ids are opaque names from the environment configuration, so the
// request binds as plain strings with no further parsing.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), &authDomain.IssueTokenInput{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueTokenResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
	})
}
