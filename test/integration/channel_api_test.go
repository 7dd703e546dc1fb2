//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/TJZine/Retune-sub004/internal/api"
)

func TestChannelAPI_CreateAndGet(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, _, _ := setupTestRouter(t, repos)

	rec := doJSON(t, router, http.MethodPost, "/api/channels", api.CreateChannelRequest{
		Name:   "Cartoon Classics",
		Number: 12,
		Mode:   "shuffle",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created api.ChannelResponse
	decodeJSON(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Cartoon Classics", created.Name)
	assert.Equal(t, 12, created.Number)
	assert.Equal(t, "shuffle", created.Mode)
	assert.True(t, created.Loop, "loop should default to true")

	rec = doJSON(t, router, http.MethodGet, "/api/channels/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched api.ChannelResponse
	decodeJSON(t, rec, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestChannelAPI_DuplicateName(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, _, _ := setupTestRouter(t, repos)

	rec := doJSON(t, router, http.MethodPost, "/api/channels", api.CreateChannelRequest{Name: "Twice", Number: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/channels", api.CreateChannelRequest{Name: "twice", Number: 2})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChannelAPI_InvalidMode(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, _, _ := setupTestRouter(t, repos)

	rec := doJSON(t, router, http.MethodPost, "/api/channels", api.CreateChannelRequest{
		Name:   "Broken",
		Number: 1,
		Mode:   "chaotic",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChannelAPI_List(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	createTestChannelInDB(t, catalogService, "Second", 20)
	createTestChannelInDB(t, catalogService, "First", 10)

	rec := doJSON(t, router, http.MethodGet, "/api/channels", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list api.ChannelListResponse
	decodeJSON(t, rec, &list)
	require.Len(t, list.Channels, 2)
	assert.Equal(t, "First", list.Channels[0].Name)
	assert.Equal(t, "Second", list.Channels[1].Name)
}

func TestChannelAPI_Update(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	channel := createTestChannelInDB(t, catalogService, "Old Name", 1)

	newName := "New Name"
	newMode := "random"
	rec := doJSON(t, router, http.MethodPatch, "/api/channels/"+channel.ID.String(), api.UpdateChannelRequest{
		Name: &newName,
		Mode: &newMode,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated api.ChannelResponse
	decodeJSON(t, rec, &updated)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "random", updated.Mode)
}

func TestChannelAPI_Delete(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	channel := createTestChannelInDB(t, catalogService, "Fleeting", 1)

	rec := doJSON(t, router, http.MethodDelete, "/api/channels/"+channel.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/channels/"+channel.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChannelAPI_InvalidID(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, _, _ := setupTestRouter(t, repos)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogAPI_AddAndList(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	channel := createTestChannelInDB(t, catalogService, "Stocked", 1)

	rec := doJSON(t, router, http.MethodPost, "/api/channels/"+channel.ID.String()+"/catalog", api.CatalogItemRequest{
		Title:      "Late Addition",
		DurationMs: 600_000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/channels/"+channel.ID.String()+"/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalogResp api.CatalogResponse
	decodeJSON(t, rec, &catalogResp)
	require.Len(t, catalogResp.Items, 4)
	assert.Equal(t, "Late Addition", catalogResp.Items[3].Title)
	assert.Equal(t, 3, catalogResp.Items[3].Position)
	assert.Equal(t, int64(1_800_000+5_400_000+3_600_000+600_000), catalogResp.TotalDurationMs)
}

func TestCatalogAPI_Replace(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	channel := createTestChannelInDB(t, catalogService, "Rebuilt", 1)

	rec := doJSON(t, router, http.MethodPut, "/api/channels/"+channel.ID.String()+"/catalog", api.ReplaceCatalogRequest{
		Items: []api.CatalogItemRequest{
			{Title: "Only A", DurationMs: 1_000_000},
			{Title: "Only B", DurationMs: 2_000_000},
		},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/channels/"+channel.ID.String()+"/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalogResp api.CatalogResponse
	decodeJSON(t, rec, &catalogResp)
	require.Len(t, catalogResp.Items, 2)
	assert.Equal(t, "Only A", catalogResp.Items[0].Title)
	assert.Equal(t, "Only B", catalogResp.Items[1].Title)
}

func TestCatalogAPI_InvalidDuration(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	channel := createTestChannelInDB(t, catalogService, "Picky", 1)

	// Binding rejects duration_ms <= 0 before the service sees it
	rec := doJSON(t, router, http.MethodPost, "/api/channels/"+channel.ID.String()+"/catalog", map[string]interface{}{
		"title":       "Instant",
		"duration_ms": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogAPI_RemoveItem(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()
	router, catalogService, _ := setupTestRouter(t, repos)

	channel := createTestChannelInDB(t, catalogService, "Pruned", 1)

	rec := doJSON(t, router, http.MethodGet, "/api/channels/"+channel.ID.String()+"/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalogResp api.CatalogResponse
	decodeJSON(t, rec, &catalogResp)
	require.Len(t, catalogResp.Items, 3)

	victim := catalogResp.Items[1]
	rec = doJSON(t, router, http.MethodDelete, "/api/channels/"+channel.ID.String()+"/catalog/"+victim.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/channels/"+channel.ID.String()+"/catalog", nil)
	decodeJSON(t, rec, &catalogResp)
	require.Len(t, catalogResp.Items, 2)
	assert.Equal(t, 0, catalogResp.Items[0].Position)
	assert.Equal(t, 1, catalogResp.Items[1].Position)
}
