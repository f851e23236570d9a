package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graphdb"
	"github.com/vanshika/costar/internal/service"
)

type staticSource struct {
	ds  domain.Dataset
	err error
}

func (s *staticSource) LoadDataset(context.Context) (domain.Dataset, error) {
	return s.ds, s.err
}

func (s *staticSource) Describe() string { return "static" }

func scenarioDataset() domain.Dataset {
	return domain.Dataset{
		Credits: []domain.Credit{
			{ActorA: 1, ActorB: 2, Film: 100},
			{ActorA: 2, ActorB: 3, Film: 101},
			{ActorA: 8, ActorB: 9, Film: 300},
		},
		Actors: []domain.Actor{{ID: 1, Name: "Ada Stone"}, {ID: 3, Name: "Cy Lowe"}},
		Films:  []domain.Film{{ID: 101, Title: "Second Wind"}},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, load bool, token string) (http.Handler, *service.CostarService) {
	t.Helper()
	svc := service.NewCostarService(&staticSource{ds: scenarioDataset()}, service.Config{BaconActor: 1, Logger: discardLogger()})
	if load {
		_, err := svc.Load(context.Background())
		require.NoError(t, err)
	}
	router := NewRouter(discardLogger(), RouterDependencies{
		Health:         LoadedHealthService{Service: svc},
		API:            NewAPIHandlers(discardLogger(), svc, token),
		MetricsEnabled: true,
	})
	return router, svc
}

func doRequest(t *testing.T, h http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHandleActorPath(t *testing.T) {
	router, _ := newTestRouter(t, true, "")

	rec := doRequest(t, router, http.MethodGet, "/paths/actors?source=1&target=3", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	path := decodeBody[domain.ActorPath](t, rec)
	assert.True(t, path.Found)
	assert.Equal(t, 2, path.Hops)
	require.Len(t, path.Nodes, 3)
	assert.Equal(t, "Ada Stone", path.Nodes[0].Label)
	assert.Equal(t, "2", path.Nodes[1].Label)
	require.Len(t, path.Edges, 2)
	assert.Equal(t, domain.FilmID(100), path.Edges[0].FilmID)
	assert.Equal(t, "Second Wind", path.Edges[1].Label)
}

func TestHandleActorPath_NotFoundIsOK(t *testing.T) {
	router, _ := newTestRouter(t, true, "")

	rec := doRequest(t, router, http.MethodGet, "/paths/actors?source=1&target=9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	path := decodeBody[domain.ActorPath](t, rec)
	assert.False(t, path.Found)
	assert.Empty(t, path.Nodes)
}

func TestHandlers_ErrorMapping(t *testing.T) {
	router, _ := newTestRouter(t, true, "")

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"unknown actor", "/paths/actors?source=1&target=77", http.StatusNotFound},
		{"missing param", "/paths/actors?source=1", http.StatusBadRequest},
		{"non-numeric id", "/actors/abc/bacon", http.StatusBadRequest},
		{"zero id fails validation", "/actors/0/bacon", http.StatusBadRequest},
		{"negative distance", "/actors/1/levels/-1", http.StatusBadRequest},
		{"unknown film", "/films/999/cast", http.StatusNotFound},
		{"unknown bridge film", "/paths/films?film1=100&film2=999", http.StatusNotFound},
		{"unknown name", "/actors/lookup?name=Nobody", http.StatusNotFound},
		{"empty name", "/actors/lookup", http.StatusBadRequest},
		{"unrouted", "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tc.target, nil)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleLevelsAndCostars(t *testing.T) {
	router, _ := newTestRouter(t, true, "")

	rec := doRequest(t, router, http.MethodGet, "/actors/1/levels/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	level := decodeBody[domain.LevelResult](t, rec)
	assert.Equal(t, []domain.ActorSummary{{ID: 3, Name: "Cy Lowe"}}, level.Actors)

	rec = doRequest(t, router, http.MethodGet, "/bacon/levels/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	level = decodeBody[domain.LevelResult](t, rec)
	assert.Equal(t, 1, level.Total)

	rec = doRequest(t, router, http.MethodGet, "/actors/1/costars/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[actedTogetherResponse](t, rec).ActedTogether)

	rec = doRequest(t, router, http.MethodGet, "/actors/2/costars/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[actedTogetherResponse](t, rec).ActedTogether)
}

func TestHandleBridgeAndFilmRoutes(t *testing.T) {
	router, _ := newTestRouter(t, true, "")

	rec := doRequest(t, router, http.MethodGet, "/paths/films?film1=100&film2=101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bridge := decodeBody[domain.BridgePath](t, rec)
	assert.True(t, bridge.Path.Found)
	assert.Equal(t, 0, bridge.Path.Hops, "actor 2 appears in both films")

	rec = doRequest(t, router, http.MethodGet, "/paths/film?source=1&film=101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[domain.ActorPath](t, rec).Hops)

	rec = doRequest(t, router, http.MethodGet, "/paths/actors/films?source=1&target=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	films := decodeBody[domain.FilmPath](t, rec)
	assert.Equal(t, []domain.Film{{ID: 100}, {ID: 101, Title: "Second Wind"}}, films.Films)

	rec = doRequest(t, router, http.MethodGet, "/films/101/cast", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[domain.FilmCast](t, rec).Cast, 2)

	rec = doRequest(t, router, http.MethodGet, "/films/lookup?title=second%20wind", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.FilmID(101), decodeBody[domain.Film](t, rec).ID)
}

func TestHandleNotLoaded(t *testing.T) {
	router, _ := newTestRouter(t, false, "")

	rec := doRequest(t, router, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decodeBody[map[string]any](t, rec)["status"])
}

func TestHandleReload(t *testing.T) {
	router, svc := newTestRouter(t, false, "s3cret")

	rec := doRequest(t, router, http.MethodPost, "/admin/reload", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, svc.Loaded())

	rec = doRequest(t, router, http.MethodPost, "/admin/reload", map[string]string{"Authorization": "Bearer s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 5, decodeBody[domain.GraphSummary](t, rec).Actors)
	assert.True(t, svc.Loaded())

	rec = doRequest(t, router, http.MethodGet, "/admin/reload", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router, _ := newTestRouter(t, true, "")

	rec := doRequest(t, router, http.MethodGet, "/stats", nil)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	rec = doRequest(t, router, http.MethodGet, "/stats", map[string]string{requestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, true, "")
	_ = doRequest(t, router, http.MethodGet, "/stats", nil)

	rec := doRequest(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "costar_http_requests_total"))
}

func TestCORS(t *testing.T) {
	svc := service.NewCostarService(&staticSource{}, service.Config{Logger: discardLogger()})
	router := NewRouter(discardLogger(), RouterDependencies{
		API:            NewAPIHandlers(discardLogger(), svc, ""),
		AllowedOrigins: SplitOrigins("https://app.example, "),
	})

	rec := doRequest(t, router, http.MethodOptions, "/stats", map[string]string{"Origin": "https://app.example"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = doRequest(t, router, http.MethodOptions, "/stats", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthChecks(t *testing.T) {
	down := errors.New("bolt refused")
	checks := HealthChecks{
		GraphHealthService{Client: graphdb.NewMemoryClient().WithConnectivityError(down)},
		GraphHealthService{},
	}
	assert.ErrorIs(t, checks.Probe(context.Background()), down)
	assert.NoError(t, HealthChecks{GraphHealthService{Client: graphdb.NewMemoryClient()}}.Probe(context.Background()))
}
