package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osduviz/schemagraph/pkg/graph"
	"github.com/osduviz/schemagraph/pkg/pipeline"
	"github.com/osduviz/schemagraph/pkg/schema"
)

func testServer() *Server {
	ix := schema.NewIndex(map[string]schema.Document{
		"reference-data/RigType.1.0.0.json": {"title": "RigType"},
	})
	runner := pipeline.NewRunner(nil, nil)
	return New(runner, ix, nil, log.New(io.Discard))
}

const wellSchema = `{
	"title": "Well",
	"properties": {
		"RigTypeID": {
			"x-osdu-relationship": [
				{"GroupType": "reference-data", "EntityType": "RigType"}
			]
		}
	}
}`

func TestHandleHealth(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["schemas"])
}

func TestHandleListSchemas(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/schemas", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Schemas []string `json:"schemas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"reference-data/RigType.1.0.0.json"}, body.Schemas)
}

func TestHandleBuildGraph(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/graph", strings.NewReader(wellSchema))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	g, err := graph.Unmarshal(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "well", g.Nodes[0].ID)
	assert.Equal(t, graph.KindEntity, g.Nodes[0].Kind)
	for _, n := range g.Nodes {
		assert.NotNil(t, n.Position, "node %s should be positioned by default", n.ID)
	}
}

func TestHandleBuildGraphQueryOptions(t *testing.T) {
	srv := testServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/graph?view=legacy&layout=false", strings.NewReader(wellSchema))
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	g, err := graph.Unmarshal(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, graph.KindID("reference-data--RigType"), g.Nodes[1].ID)
	for _, n := range g.Nodes {
		assert.Nil(t, n.Position, "layout=false must skip positioning")
	}
}

func TestHandleBuildGraphInvalidBody(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/graph", strings.NewReader("{not json"))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_SCHEMA", body.Code)
}

func TestSavedGraphEndpointsWithoutStore(t *testing.T) {
	srv := testServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", strings.NewReader("{}")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/graphs/abc", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	srv := testServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), "missing generated request id")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "test-123")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "test-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/graph", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
