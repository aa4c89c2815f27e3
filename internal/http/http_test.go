package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	authHTTP "github.com/allisson/opaqueid/internal/auth/http"
	"github.com/allisson/opaqueid/internal/config"
	cryptoService "github.com/allisson/opaqueid/internal/crypto/service"
	"github.com/allisson/opaqueid/internal/metrics"
	obfuscationDomain "github.com/allisson/opaqueid/internal/obfuscation/domain"
	obfuscationHTTP "github.com/allisson/opaqueid/internal/obfuscation/http"
	obfuscationService "github.com/allisson/opaqueid/internal/obfuscation/service"
	"github.com/allisson/opaqueid/internal/testutil"
)

// TestMain puts gin into test mode for every test in the package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRequestID builds the request id middleware the same way SetupRouter
// does.
func testRequestID() gin.HandlerFunc {
	return requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	}))
}

// newTestServer builds a server on port 0 so the lifecycle tests never
// collide with a fixed port. The nil registry leaves it reporting not ready.
func newTestServer() *Server {
	return NewServer(nil, "localhost", 0, newTestLogger())
}

// newProbeRouter wires only the probe endpoints plus the standard middleware
// chain.
func newProbeRouter(server *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), testRequestID(), CustomLoggerMiddleware(server.logger))
	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)

	return router
}

// newLoadedRegistry loads a single-keyspace tokenizer registry through the
// same env plus KMS path the server walks at startup.
func newLoadedRegistry(t *testing.T) *obfuscationService.TokenizerRegistry {
	t.Helper()

	ctx := context.Background()
	kmsService := cryptoService.NewKMSService()

	keeper, err := kmsService.OpenKeeper(ctx, testutil.LocalKMSKeyURI)
	require.NoError(t, err)
	defer func() { require.NoError(t, keeper.Close()) }()

	t.Setenv("OBFUSCATION_KEYSPACES",
		testutil.KeyspaceEntry(t, keeper, "users", "users password", "users salt", "sha256", 64))

	cfg := &config.Config{KMSKeyURI: testutil.LocalKMSKeyURI}
	chain, err := obfuscationDomain.LoadKeyspaceChain(ctx, cfg, kmsService, newTestLogger())
	require.NoError(t, err)

	registry, err := obfuscationService.NewTokenizerRegistry(chain)
	chain.Close()
	require.NoError(t, err)
	t.Cleanup(registry.Close)

	return registry
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestProbeEndpoints(t *testing.T) {
	t.Run("Success_Healthy", func(t *testing.T) {
		w := getPath(newProbeRouter(newTestServer()), "/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("Error_NotReadyWithoutKeyspaces", func(t *testing.T) {
		w := getPath(newProbeRouter(newTestServer()), "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"not_ready","components":{"keyspaces":"error"}}`, w.Body.String())
	})

	t.Run("Success_ReadyWithKeyspaces", func(t *testing.T) {
		server := NewServer(newLoadedRegistry(t), "localhost", 0, newTestLogger())

		w := getPath(newProbeRouter(server), "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"keyspaces":"ok"}}`, w.Body.String())
	})

	t.Run("Error_UnknownRoute", func(t *testing.T) {
		w := getPath(newProbeRouter(newTestServer()), "/nonexistent")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Success_RequestIDHeaderIsUUIDv7", func(t *testing.T) {
		router := gin.New()
		router.Use(testRequestID())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := getPath(router, "/test")

		requestID := w.Header().Get("X-Request-Id")
		require.NotEmpty(t, requestID)
		parsed, err := uuid.Parse(requestID)
		require.NoError(t, err)
		assert.EqualValues(t, 7, parsed.Version())
	})

	t.Run("Success_LoggerPassesRequestThrough", func(t *testing.T) {
		router := gin.New()
		router.Use(testRequestID(), CustomLoggerMiddleware(newTestLogger()))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "logged"})
		})

		w := getPath(router, "/test?limit=5")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"logged"}`, w.Body.String())
	})

	t.Run("Success_RecoveryMapsPanicTo500", func(t *testing.T) {
		router := gin.New()
		router.Use(CustomLoggerMiddleware(newTestLogger()), gin.Recovery())
		router.GET("/panic", func(c *gin.Context) { panic("test panic") })

		w := getPath(router, "/panic")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestServerLifecycle(t *testing.T) {
	t.Run("Error_StartWithoutRouter", func(t *testing.T) {
		err := newTestServer().Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "router not initialized")
	})

	t.Run("Success_GracefulShutdown", func(t *testing.T) {
		server := newTestServer()
		server.router = newProbeRouter(server)

		errChan := make(chan error, 1)
		go func() {
			if err := server.Start(context.Background()); err != nil {
				errChan <- err
			}
		}()

		// Let the listener come up before asking it to stop.
		time.Sleep(100 * time.Millisecond)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, server.Shutdown(shutdownCtx))

		select {
		case err := <-errChan:
			t.Fatalf("server startup failed: %v", err)
		default:
		}
	})
}

// Stub use cases for route wiring tests. The handlers never reach them on the
// paths under test, or reach them with fixed answers.

type stubTokenUseCase struct{}

func (stubTokenUseCase) Issue(
	_ context.Context,
	_ *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	return nil, authDomain.ErrInvalidCredentials
}

func (stubTokenUseCase) Authenticate(_ context.Context, _ string) (*authDomain.Client, error) {
	return nil, authDomain.ErrInvalidCredentials
}

type stubObfuscationUseCase struct{}

func (stubObfuscationUseCase) Encode(_ context.Context, _, _ string) (string, error) {
	return "2kmv7fngx71a", nil
}

func (stubObfuscationUseCase) Decode(_ context.Context, _, _ string) (string, error) {
	return "42", nil
}

type stubKeyspaceUseCase struct{}

func (stubKeyspaceUseCase) List(_ context.Context, _, _ int) ([]obfuscationDomain.KeyspaceInfo, error) {
	return []obfuscationDomain.KeyspaceInfo{}, nil
}

func (stubKeyspaceUseCase) Get(_ context.Context, _ string) (*obfuscationDomain.KeyspaceInfo, error) {
	return nil, obfuscationDomain.ErrKeyspaceNotFound
}

// setupTestRouter builds the real route tree with stub use cases and a
// pass-through auth middleware, so tests exercise SetupRouter's wiring rather
// than the handlers themselves.
func setupTestRouter(server *Server) *gin.Engine {
	logger := newTestLogger()

	return server.SetupRouter(RouterConfig{
		TokenHandler:       authHTTP.NewTokenHandler(stubTokenUseCase{}, logger),
		ObfuscationHandler: obfuscationHTTP.NewObfuscationHandler(stubObfuscationUseCase{}, logger),
		KeyspaceHandler:    obfuscationHTTP.NewKeyspaceHandler(stubKeyspaceUseCase{}, logger),
		AuthMiddleware:     func(c *gin.Context) { c.Next() },
	})
}

// TestSetupRouter_RegistersRoutes verifies the route tree: health endpoints
// outside authentication, the API routes in place, and request ids on every
// response.
func TestSetupRouter_RegistersRoutes(t *testing.T) {
	router := setupTestRouter(newTestServer())

	w := getPath(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	// Token route exists and rejects an empty body with a validation error
	// rather than a 404
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Keyspace listing is reachable once authentication passes
	w = getPath(router, "/api/v1/keyspaces")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

// TestSetupRouter_EncodeRequiresClient verifies the policy check inside the
// obfuscation handlers still rejects requests when no client reached the
// context, even with the auth middleware passing through.
func TestSetupRouter_EncodeRequiresClient(t *testing.T) {
	router := setupTestRouter(newTestServer())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v1/obfuscation/encode",
		strings.NewReader(`{"keyspace":"users","id":"42"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestSetupRouter_NoMetricsEndpoint verifies the API server does not expose
// /metrics; that endpoint belongs to the metrics server.
func TestSetupRouter_NoMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(newTestServer())

	w := getPath(router, "/metrics")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestMetricsServer_Endpoints scrapes the metrics server handler directly.
func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, newTestLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
