package httputil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/opaqueid/internal/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := newTestLogger()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "not found",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "keyspace users"),
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "conflict",
			err:            apperrors.Wrap(apperrors.ErrConflict, "duplicate client"),
			expectedStatus: http.StatusConflict,
			expectedError:  "conflict",
		},
		{
			name:           "invalid input",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "id must be decimal"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "invalid_input",
		},
		{
			name:           "unauthorized",
			err:            apperrors.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "unauthorized",
		},
		{
			name:           "forbidden",
			err:            apperrors.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectedError:  "forbidden",
		},
		{
			name:           "unknown error maps to internal",
			err:            apperrors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tt.expectedError+`"`)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleErrorGin(c, nil, logger)

		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid input exposes the error message", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "id must be decimal"), logger)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(
			t,
			`{"error":"invalid_input","message":"id must be decimal: invalid input"}`,
			w.Body.String(),
		)
	})

	t.Run("internal error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleErrorGin(c, apperrors.New("connection refused to 10.0.0.1"), logger)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.1")
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		require.NotPanics(t, func() {
			HandleErrorGin(c, apperrors.ErrNotFound, nil)
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleBadRequestGin(c, apperrors.New("unexpected EOF"), newTestLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"unexpected EOF"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	HandleValidationErrorGin(c, apperrors.New("keyspace: cannot be blank."), newTestLogger())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"keyspace: cannot be blank."}`, w.Body.String())
}
