package backends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"irmend/internal/config"
	"irmend/internal/ir"
)

func openaiTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestOpenAI(t *testing.T, baseURL string) *OpenAI {
	t.Helper()
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	backend, err := NewOpenAI(config.Backend{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		BaseURL:   baseURL,
		APIKeyEnv: "TEST_OPENAI_KEY",
	})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	return backend
}

func TestOpenAIRepair(t *testing.T) {
	var gotAuth string
	var gotReq openaiRequest

	srv := openaiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		resp := openaiResponse{
			Choices: []openaiChoice{{
				Message: openaiMessage{
					Role:    "assistant",
					Content: `{"type": "widget", "widgetKind": "chart.js/bar", "data": {"labels": ["A"], "datasets": [{"data": [1]}]}}`,
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	backend := newTestOpenAI(t, srv.URL)
	block, err := backend.Repair(context.Background(), RepairRequest{
		Kind:   KindChart,
		Block:  ir.Block{"type": "widget", "widgetKind": "chart.js/bar"},
		Errors: []string{"data.labels is missing"},
	})
	if err != nil {
		t.Fatalf("Repair() error = %v", err)
	}
	if block["widgetKind"] != "chart.js/bar" {
		t.Errorf("repaired widgetKind = %v", block["widgetKind"])
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Temperature == nil || *gotReq.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", gotReq.Temperature)
	}
}

func TestOpenAIRepairAuthError(t *testing.T) {
	srv := openaiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid key"}`, http.StatusUnauthorized)
	})

	backend := newTestOpenAI(t, srv.URL)
	_, err := backend.Repair(context.Background(), RepairRequest{Kind: KindChart, Block: ir.Block{}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError() = false for %v", err)
	}
}

func TestOpenAIRepairBadStatus(t *testing.T) {
	srv := openaiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	backend := newTestOpenAI(t, srv.URL)
	_, err := backend.Repair(context.Background(), RepairRequest{Kind: KindChart, Block: ir.Block{}})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsAuthError(err) {
		t.Error("400 should not map to an auth error")
	}
}

func TestNewOpenAIMissingKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_MISSING", "")
	if _, err := NewOpenAI(config.Backend{APIKeyEnv: "TEST_OPENAI_MISSING"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
