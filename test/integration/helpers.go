//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/TJZine/Retune-sub004/internal/api"
	"github.com/TJZine/Retune-sub004/internal/catalog"
	"github.com/TJZine/Retune-sub004/internal/db"
	"github.com/TJZine/Retune-sub004/internal/models"
	"github.com/TJZine/Retune-sub004/internal/schedule"
	"github.com/TJZine/Retune-sub004/internal/tuner"
)

// setupTestDB creates a file-backed test database with migrations applied.
// A file in t.TempDir is used instead of :memory: because the connection pool
// would otherwise hand each connection its own empty in-memory database.
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// This ensures tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // repo root
	migrationsDir := filepath.Join(rootDir, "migrations") // migrations
	migrationsPath := "file://" + migrationsDir

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// setupTestRouter creates a test Gin router with all API routes configured
// and returns the services behind it
func setupTestRouter(t *testing.T, repos *db.Repositories) (*gin.Engine, *catalog.Service, *tuner.Service) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	catalogService := catalog.NewService(repos)
	tunerService := tuner.NewService(catalogService, time.Hour, time.UTC)
	t.Cleanup(tunerService.Stop)

	apiGroup := router.Group("/api")
	api.SetupChannelRoutes(apiGroup, catalogService)
	api.SetupGuideRoutes(apiGroup, tunerService)

	return router, catalogService, tunerService
}

// doJSON performs a request with an optional JSON body and returns the recorder
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err, "Failed to build request")
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeJSON unmarshals a response body into out
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "Failed to decode response: %s", rec.Body.String())
}

// createTestChannelInDB creates a channel with a three-item catalog directly
// through the service layer
func createTestChannelInDB(t *testing.T, catalogService *catalog.Service, name string, number int) *models.Channel {
	t.Helper()

	ctx := context.Background()
	channel, err := catalogService.CreateChannel(ctx, name, number, nil, schedule.ModeSequential, 0, 0, true)
	require.NoError(t, err, "Failed to create test channel")

	for i, durationMs := range []int64{1_800_000, 5_400_000, 3_600_000} {
		_, err := catalogService.AddItem(ctx, channel.ID, &models.CatalogItem{
			Type:       "video",
			Title:      name + " item " + uuid.New().String()[:8],
			DurationMs: durationMs,
		})
		require.NoError(t, err, "Failed to create catalog item %d", i)
	}

	return channel
}
