package backends

import (
	"strings"
	"testing"

	"irmend/internal/ir"
)

func TestDecodeBlock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "bare JSON",
			content: `{"type": "widget", "widgetKind": "chart.js/bar"}`,
		},
		{
			name:    "json fence",
			content: "```json\n{\"type\": \"widget\"}\n```",
		},
		{
			name:    "plain fence",
			content: "```\n{\"type\": \"table\"}\n```",
		},
		{
			name:    "leading whitespace",
			content: "\n\n  {\"type\": \"widget\"}",
		},
		{
			name:    "null",
			content: "null",
			wantErr: true,
		},
		{
			name:    "not JSON",
			content: "I could not repair the block.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := decodeBlock(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeBlock() error = %v", err)
			}
			if block == nil {
				t.Fatal("decodeBlock() returned nil block without error")
			}
			if _, ok := block["type"]; !ok {
				t.Errorf("decoded block missing type: %v", block)
			}
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	block := ir.Block{
		"type":       "widget",
		"widgetKind": "chart.js/bar",
	}
	errs := []string{"data.labels is missing", "datasets[0].data[1] is not numeric"}

	prompt := BuildUserPrompt(KindChart, block, errs)

	if !strings.Contains(prompt, `"widgetKind": "chart.js/bar"`) {
		t.Error("prompt does not embed the block JSON")
	}
	for _, e := range errs {
		if !strings.Contains(prompt, "- "+e) {
			t.Errorf("prompt missing error bullet %q", e)
		}
	}
	if !strings.Contains(prompt, "chart block") {
		t.Error("prompt does not name the block kind")
	}
}

func TestSystemPrompt(t *testing.T) {
	if !strings.Contains(SystemPrompt(KindChart), "Chart.js") {
		t.Error("chart system prompt missing chart guidance")
	}
	if !strings.Contains(SystemPrompt(KindTable), "nested") {
		t.Error("table system prompt missing nested cell guidance")
	}
}
