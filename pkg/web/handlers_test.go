package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/sessions"
)

func testServer(t *testing.T) (*Server, *sessions.Registry) {
	t.Helper()
	registry := sessions.NewRegistry()
	t.Cleanup(registry.Clear)
	return NewServer(registry), registry
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreateSessionWithDefaults(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var info sessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Key)
	assert.Equal(t, "Pobstone GP", info.Name)
	assert.Equal(t, 50, info.TotalLaps)
}

func TestCreateSessionRejectsBadDefinition(t *testing.T) {
	srv, _ := testServer(t)

	body := `{"definition": {"name": "broken", "totalLaps": 0}}`
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sessions", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSnapshotAndStandings(t *testing.T) {
	srv, registry := testServer(t)
	s, err := registry.Create(model.DefaultDefinition())
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sessions/"+s.Key, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap model.RaceSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Cars, 6)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sessions/"+s.Key+"/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cars []model.CarSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cars))
	require.Len(t, cars, 6)
	for i, c := range cars {
		assert.Equal(t, i+1, c.RacePosition)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	srv, _ := testServer(t)
	for _, path := range []string{
		"/api/v1/sessions/nope",
		"/api/v1/sessions/nope/standings",
		"/api/v1/sessions/nope/track",
	} {
		rec := doRequest(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestTrackGeometry(t *testing.T) {
	srv, registry := testServer(t)
	s, err := registry.Create(model.DefaultDefinition())
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sessions/"+s.Key+"/track", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Pobstone GP", resp.Name)
	assert.Greater(t, resp.Length, 0.0)
	assert.Len(t, resp.Points, trackSamples)
	assert.NotEmpty(t, resp.PitLane.Points)
	assert.Len(t, resp.DRSZones, 2)
}

func TestRaceControl(t *testing.T) {
	srv, registry := testServer(t)
	s, err := registry.Create(model.DefaultDefinition())
	require.NoError(t, err)
	base := "/api/v1/sessions/" + s.Key

	for _, path := range []string{"/pause", "/resume", "/restart"} {
		rec := doRequest(t, srv, http.MethodPost, base+path, "")
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
	}

	rec := doRequest(t, srv, http.MethodPut, base+"/speed", `{"multiplier": 2.5}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, base+"/speed", `{"multiplier": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, base+"/speed", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	srv, registry := testServer(t)
	s, err := registry.Create(model.DefaultDefinition())
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodDelete, "/api/v1/sessions/"+s.Key, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/sessions/"+s.Key, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
