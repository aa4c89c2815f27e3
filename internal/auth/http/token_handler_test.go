package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	"github.com/allisson/opaqueid/internal/auth/http/dto"
	apperrors "github.com/allisson/opaqueid/internal/errors"
)

// newTokenRouter mounts the issue-token handler on the same route the server
// uses, so requests exercise the full gin binding path.
func newTokenRouter(uc *mockTokenUseCase) *gin.Engine {
	router := gin.New()
	handler := NewTokenHandler(uc, createTestLogger())
	router.POST("/api/v1/auth/token", handler.IssueTokenHandler)

	return router
}

// issueToken posts a raw JSON payload to the token endpoint.
func issueToken(router *gin.Engine, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	return w
}

// issueTokenJSON marshals the request struct and posts it.
func issueTokenJSON(t *testing.T, router *gin.Engine, request dto.IssueTokenRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(request)
	require.NoError(t, err)

	return issueToken(router, string(body))
}

func TestTokenHandler_IssueTokenHandler(t *testing.T) {
	t.Run("Success_ValidCredentials", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		expiresAt := time.Now().UTC().Add(1 * time.Hour)
		uc.On("Issue", mock.Anything, mock.MatchedBy(func(input *authDomain.IssueTokenInput) bool {
			return input.ClientID == "billing-service" && input.ClientSecret == "test_secret_123"
		})).Return(&authDomain.IssueTokenOutput{
			PlainToken: "tok_1234567890abcdef",
			ExpiresAt:  expiresAt,
		}, nil).Once()

		w := issueTokenJSON(t, newTokenRouter(uc), dto.IssueTokenRequest{
			ClientID:     "billing-service",
			ClientSecret: "test_secret_123",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.IssueTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "tok_1234567890abcdef", response.Token)
		assert.Equal(t, expiresAt.Unix(), response.ExpiresAt.Unix())

		uc.AssertExpectations(t)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		uc := &mockTokenUseCase{}

		w := issueToken(newTokenRouter(uc), "not json at all")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", errorBody(t, w).Error)
		uc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("Error_ValidationFailures", func(t *testing.T) {
		requests := map[string]dto.IssueTokenRequest{
			"missing client id":     {ClientID: "", ClientSecret: "test_secret_123"},
			"missing client secret": {ClientID: "billing-service", ClientSecret: ""},
			"blank client secret":   {ClientID: "billing-service", ClientSecret: "   "},
		}

		for name, request := range requests {
			uc := &mockTokenUseCase{}

			w := issueTokenJSON(t, newTokenRouter(uc), request)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "case %q", name)
			assert.Equal(t, "validation_error", errorBody(t, w).Error, "case %q", name)
			uc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
		}
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		uc.On("Issue", mock.Anything, mock.Anything).
			Return(nil, authDomain.ErrInvalidCredentials).
			Once()

		w := issueTokenJSON(t, newTokenRouter(uc), dto.IssueTokenRequest{
			ClientID:     "billing-service",
			ClientSecret: "wrong_secret",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", errorBody(t, w).Error)
		uc.AssertExpectations(t)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		uc := &mockTokenUseCase{}
		uc.On("Issue", mock.Anything, mock.Anything).
			Return(nil, apperrors.New("session store unavailable")).
			Once()

		w := issueTokenJSON(t, newTokenRouter(uc), dto.IssueTokenRequest{
			ClientID:     "billing-service",
			ClientSecret: "test_secret_123",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", errorBody(t, w).Error)
		assert.NotContains(t, w.Body.String(), "session store unavailable")
	})
}
