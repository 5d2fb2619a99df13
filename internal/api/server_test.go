package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"irmend/internal/cache"
	"irmend/internal/config"
	"irmend/internal/repair"
	"irmend/internal/review"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) *httptest.Server {
	t.Helper()
	chain := repair.NewChain(nil, cache.New(false), zap.NewNop())
	svc := review.NewService(chain, zap.NewNop())
	srv := httptest.NewServer(NewServer(svc, zap.NewNop(), cfg))
	t.Cleanup(srv.Close)
	return srv
}

const reviewableDocument = `{
	"title": "Report",
	"chapters": [{
		"title": "Overview",
		"blocks": [{
			"type": "widget",
			"widgetId": "c1",
			"widgetKind": "chart.js/bar",
			"data": {"datasets": [{"data": ["10", "20"]}]}
		}]
	}]
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestReviewEndpoint(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, err := http.Post(srv.URL+"/api/review", "application/json", strings.NewReader(reviewableDocument))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Stats         review.Stats          `json:"stats"`
		RepairedTotal int                   `json:"repairedTotal"`
		Blocks        []review.BlockOutcome `json:"blocks"`
		Document      map[string]any        `json:"document"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 1, body.Stats.Total)
	assert.Equal(t, 1, body.Stats.RepairedLocal)
	assert.Equal(t, 1, body.RepairedTotal)
	require.Len(t, body.Blocks, 1)
	assert.Equal(t, "c1", body.Blocks[0].WidgetID)
	assert.Equal(t, "repaired", body.Blocks[0].Status)

	serialized, err := json.Marshal(body.Document)
	require.NoError(t, err)
	assert.NotContains(t, string(serialized), "_review")
}

func TestReviewRejectsBadJSON(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	resp, err := http.Post(srv.URL+"/api/review", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{})

	doc := `{"title": "Report", "chapters": [{"title": "Overview", "blocks": [
		{"type": "paragraph", "inlines": [{"text": "Hello.", "marks": []}]}
	]}]}`
	resp, err := http.Post(srv.URL+"/api/render", "application/json", strings.NewReader(doc))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	markdown := string(body)
	assert.Contains(t, markdown, "# Report")
	assert.Contains(t, markdown, "## Overview")
	assert.Contains(t, markdown, "Hello.")
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{APIKey: "sekrit"})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic sekrit", http.StatusUnauthorized},
		{"wrong key", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer sekrit", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("POST", srv.URL+"/api/review", strings.NewReader(reviewableDocument))
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHealthBypassesAuth(t *testing.T) {
	srv := newTestServer(t, config.ServerConfig{APIKey: "sekrit"})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
