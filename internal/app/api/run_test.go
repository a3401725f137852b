package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportsmemory "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/memory"
	reportsworkflows "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/workflows"
	usermemory "github.com/bdotrack/bdo-api/internal/domains/users/adapters/memory"
)

func memoryEngine(t *testing.T, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backends := &Backends{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	repo, err := backends.ReportRepository(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &reportsmemory.Repository{}, repo)
	reports, cleanup := BuildReportService(cfg, repo, nil, serviceName)
	t.Cleanup(cleanup)

	sessions, err := backends.SessionStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &usermemory.SessionStore{}, sessions)
	users, err := BuildUserService(cfg, backends.UserRepository(), sessions, nil)
	require.NoError(t, err)

	return NewEngine(cfg, reports, reportsworkflows.NewInlineReportWorkflows(reports), BuildDashboardService(cfg, repo, nil), users)
}

func TestNewEngine_ServesRoutesWithMemoryBackends(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.SecretKey = "test-secret"
	router := memoryEngine(t, cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewEngine_AnswersCORSPreflight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth.SecretKey = "test-secret"
	cfg.Server.CORSOrigins = []string{"https://portal.example.com"}
	router := memoryEngine(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/reports/", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBackends_ExplicitBackendUnavailable(t *testing.T) {
	backends := &Backends{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	cfg := DefaultConfig()

	cfg.Reports.Backend = BackendMongo
	_, err := backends.ReportRepository(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Sessions.Backend = BackendRedis
	_, err = backends.SessionStore(cfg)
	assert.Error(t, err)
}

func TestBuildUserService_RequiresSecret(t *testing.T) {
	cfg := DefaultConfig()
	_, err := BuildUserService(cfg, usermemory.NewRepository(), usermemory.NewSessionStore(), nil)
	assert.Error(t, err)
}

func TestDialTemporal_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Temporal.Disabled = true
	_, err := DialTemporal(cfg, nil, "temporal-client")
	assert.Error(t, err)
}
