// Package http holds the HTTP-facing side of authentication: the bearer
// token middleware, the per-request client context, the keyspace-scoped
// authorization check, and the rate limiters.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authService "github.com/allisson/opaqueid/internal/auth/service"
	authUseCase "github.com/allisson/opaqueid/internal/auth/usecase"
	apperrors "github.com/allisson/opaqueid/internal/errors"
	"github.com/allisson/opaqueid/internal/httputil"
)

// bearerToken extracts the credential from an Authorization header value.
// The scheme comparison is case-insensitive per RFC 7235. Returns false for
// a missing header, a non-Bearer scheme, or an empty credential.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}

// AuthenticationMiddleware authenticates each request by the bearer token in
// its Authorization header. The token is hashed and resolved to a client
// through TokenUseCase.Authenticate; the client is then stored in the request
// context where handlers and later middleware read it back with GetClient.
//
// A missing or malformed header and an unknown or expired token all map to
// 401 through the shared error responder; unexpected failures from the token
// store map to 500. The header value itself is never logged since a
// malformed header is often a credential pasted wrong.
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		client, err := tokenUseCase.Authenticate(c.Request.Context(), tokenService.HashToken(token))
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))

		logger.Debug("authentication successful", slog.String("client_id", client.ID))

		c.Next()
	}
}

// Authorize checks whether the authenticated client may perform the given
// operation on the given keyspace, writing the error response itself when the
// check fails.
//
// Authorization is keyspace-scoped and the keyspace name travels in the
// request body, so the check cannot run as route middleware: handlers call
// Authorize after binding the request. Returns true when the request may
// proceed; on false the handler must return without writing anything further.
//
// A missing client maps to 401 (authentication never ran on this route) and
// a policy denial to 403.
func Authorize(
	c *gin.Context,
	operation authDomain.Operation,
	keyspace string,
	logger *slog.Logger,
) bool {
	client, ok := GetClient(c.Request.Context())
	if !ok || client == nil {
		logger.Debug("authorization failed: no authenticated client in context")
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return false
	}

	if !client.IsAllowed(operation, keyspace) {
		logger.Debug("authorization failed: policy denies operation",
			slog.String("client_id", client.ID),
			slog.String("operation", string(operation)),
			slog.String("keyspace", keyspace))
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
		return false
	}

	logger.Debug("authorization successful",
		slog.String("client_id", client.ID),
		slog.String("operation", string(operation)),
		slog.String("keyspace", keyspace))

	return true
}
