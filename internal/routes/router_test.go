package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleet-console/internal/config"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type unhealthyStore struct {
	session.Repository
}

func (unhealthyStore) Health(ctx context.Context) error { return context.DeadlineExceeded }

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Environment: "test"},
		FleetAPI: config.FleetAPIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Session: config.SessionConfig{
			Store:           config.StoreMemory,
			CookieName:      "fleet_session",
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
		RateLimit: config.RateLimitConfig{GeneralRPS: 100, GeneralBurst: 100, LoginRPS: 1, LoginBurst: 5},
	}
}

func serve(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := SetupRoutes(ctx, testConfig(), memory.NewSessionRepository())

	t.Run("health", func(t *testing.T) {
		w := serve(router, "/health")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, gjson.Get(w.Body.String(), "success").Bool())
		assert.Equal(t, "memory", gjson.Get(w.Body.String(), "data.sessionStore").String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("metrics", func(t *testing.T) {
		w := serve(router, "/metrics")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login page is public", func(t *testing.T) {
		w := serve(router, "/login")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="password"`)
	})

	t.Run("pages require a session", func(t *testing.T) {
		for _, path := range []string{"/menu", "/transports", "/users", "/drivers", "/worklog"} {
			w := serve(router, path)
			assert.Equal(t, http.StatusSeeOther, w.Code, path)
			assert.Equal(t, "/login", w.Header().Get("Location"), path)
		}
	})

	t.Run("unknown path goes to the menu", func(t *testing.T) {
		w := serve(router, "/nowhere")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/menu", w.Header().Get("Location"))
	})
}

func TestHealth_ReportsUnavailableStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := unhealthyStore{Repository: memory.NewSessionRepository()}
	router := SetupRoutes(ctx, testConfig(), store)

	w := serve(router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "success").Bool())
	assert.Equal(t, "Session store unavailable", gjson.Get(w.Body.String(), "error").String())
}
