package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleSynthesizeShape(t *testing.T) {
	s := New("")
	rec := postJSON(t, s, "/api/synthesize/shape", map[string]interface{}{
		"examples": []map[string]interface{}{
			{"x": 0, "y": 0, "inside": true},
			{"x": 1, "y": 1, "inside": true},
			{"x": 2, "y": 2, "inside": true},
			{"x": 3, "y": 3, "inside": false},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp synthesizeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Error)
	assert.Contains(t, resp.Program, "Rectangle")
}

func TestHandleSynthesizeString(t *testing.T) {
	s := New("")
	rec := postJSON(t, s, "/api/synthesize/string", map[string]interface{}{
		"examples":       []map[string]string{{"input": "a.b.c", "expected": "abc"}},
		"max_iterations": 1,
		"accumulate":     true,
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp synthesizeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Error)
	assert.NotEmpty(t, resp.Program)
}

func TestHandleSynthesizeShapeRejectsGetMethod(t *testing.T) {
	s := New("")
	req := httptest.NewRequest(http.MethodGet, "/api/synthesize/shape", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSynthesizeShapeContradictoryExamplesReportsError(t *testing.T) {
	s := New("")
	rec := postJSON(t, s, "/api/synthesize/shape", map[string]interface{}{
		"examples": []map[string]interface{}{
			{"x": 1, "y": 1, "inside": true},
			{"x": 1, "y": 1, "inside": false},
		},
		"max_iterations": 1,
	})

	var resp synthesizeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, resp.Program)
}

func TestHandleMetricsCountsRequests(t *testing.T) {
	s := New("")
	postJSON(t, s, "/api/synthesize/shape", map[string]interface{}{
		"examples": []map[string]interface{}{{"x": 0, "y": 0, "inside": true}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var metrics map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&metrics))
	counters := metrics["counters"].(map[string]interface{})
	assert.EqualValues(t, 1, counters["synthesize_shape"])
}

func TestHandleStaticServesIndex(t *testing.T) {
	s := New("")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "progsynth")
}
