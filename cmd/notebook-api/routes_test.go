package main

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/repository"
	"github.com/noah-isme/notebook-api/internal/service"
	"github.com/noah-isme/notebook-api/pkg/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{APIPrefix: "/api/v1"}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 15 * time.Minute
	cfg.JWT.RefreshExpiration = 24 * time.Hour
	cfg.Dashboard.Enabled = true
	cfg.Dashboard.CacheTTL = time.Minute
	cfg.Exports.Enabled = true
	return cfg
}

// Wires the full dependency graph the way main does, including the cache
// stack, so constructor signature drift surfaces here instead of at deploy.
func TestBuildDependenciesWiresAllHandlers(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	logr := zap.NewNop()
	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(nil, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, time.Minute, logr, true)

	deps := buildDependencies(testConfig(), sqlx.NewDb(db, "sqlmock"), cacheSvc, logr)

	assert.NotNil(t, deps.auth)
	assert.NotNil(t, deps.grades)
	assert.NotNil(t, deps.studentGrades)
	assert.NotNil(t, deps.dashboard)
	assert.NotNil(t, deps.exports)
	assert.NotNil(t, deps.authService)
}

func TestRegisterRoutesMountsAPISurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	deps := buildDependencies(testConfig(), sqlx.NewDb(db, "sqlmock"), nil, zap.NewNop())

	r := gin.New()
	registerRoutes(r, testConfig(), deps)

	paths := make(map[string]bool)
	for _, route := range r.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	assert.True(t, paths["POST /api/v1/auth/login"])
	assert.True(t, paths["POST /api/v1/grades/batch"])
	assert.True(t, paths["DELETE /api/v1/grades/:id"])
	assert.True(t, paths["PATCH /api/v1/grades/:id/feedback"])
	assert.True(t, paths["GET /api/v1/grade-types"])
	assert.True(t, paths["GET /api/v1/students/:id/grades"])
	assert.True(t, paths["GET /api/v1/students/:id/home"])
	assert.True(t, paths["POST /api/v1/exports/grade-sheet"])
}
