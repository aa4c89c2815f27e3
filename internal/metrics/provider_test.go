package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_CreateProvider", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)
		require.NotNil(t, provider)
		assert.NotNil(t, provider.MeterProvider())

		require.NoError(t, provider.Shutdown(context.Background()))
	})
}

func TestProvider_Handler(t *testing.T) {
	t.Run("Success_ExposesRecordedInstruments", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)
		defer func() {
			require.NoError(t, provider.Shutdown(context.Background()))
		}()

		meter := provider.MeterProvider().Meter("provider-test")
		counter, err := meter.Int64Counter("provider_scrapes_total")
		require.NoError(t, err)
		counter.Add(context.Background(), 1)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		provider.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "provider_scrapes_total")
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownWithoutMeterProvider", func(t *testing.T) {
		provider := &Provider{}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
