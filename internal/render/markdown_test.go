package render

import (
	"strings"
	"testing"

	"irmend/internal/ir"
)

func renderDoc(blocks ...any) string {
	return Markdown(ir.Document{
		"title": "Annual Report",
		"chapters": []any{
			map[string]any{"title": "Summary", "blocks": blocks},
		},
	})
}

func TestMarkdownTitles(t *testing.T) {
	got := renderDoc(map[string]any{
		"type": "paragraph",
		"inlines": []any{
			map[string]any{"text": "Revenue grew.", "marks": []any{}},
		},
	})

	for _, want := range []string{"# Annual Report", "## Summary", "Revenue grew."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("output missing trailing newline")
	}
}

func TestMarkdownHeadingLevels(t *testing.T) {
	got := renderDoc(map[string]any{
		"type":    "heading",
		"level":   3.0,
		"inlines": []any{map[string]any{"text": "Costs", "marks": []any{}}},
	})
	if !strings.Contains(got, "### Costs") {
		t.Errorf("output missing level-3 heading:\n%s", got)
	}
}

func TestMarkdownMarks(t *testing.T) {
	got := renderDoc(map[string]any{
		"type": "paragraph",
		"inlines": []any{
			map[string]any{"text": "strong", "marks": []any{"bold"}},
			map[string]any{"text": " and ", "marks": []any{}},
			map[string]any{"text": "em", "marks": []any{map[string]any{"type": "italic"}}},
			map[string]any{"text": "x", "marks": []any{"code"}},
		},
	})
	if !strings.Contains(got, "**strong** and *em*`x`") {
		t.Errorf("marks rendered wrong:\n%s", got)
	}
}

func TestMarkdownLists(t *testing.T) {
	item := func(text string) []any {
		return []any{map[string]any{
			"type":    "paragraph",
			"inlines": []any{map[string]any{"text": text, "marks": []any{}}},
		}}
	}

	tests := []struct {
		name     string
		listType string
		want     string
	}{
		{"ordered", "ordered", "1. first\n2. second"},
		{"bullet", "bullet", "- first\n- second"},
		{"task", "task", "- [ ] first\n- [ ] second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderDoc(map[string]any{
				"type":     "list",
				"listType": tt.listType,
				"items":    []any{item("first"), item("second")},
			})
			if !strings.Contains(got, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, got)
			}
		})
	}
}

func TestMarkdownTable(t *testing.T) {
	cell := func(text string) map[string]any {
		return map[string]any{"blocks": []any{map[string]any{
			"type":    "paragraph",
			"inlines": []any{map[string]any{"text": text, "marks": []any{}}},
		}}}
	}
	got := renderDoc(map[string]any{
		"type": "table",
		"rows": []any{
			map[string]any{"cells": []any{cell("Name"), cell("Value")}},
			map[string]any{"cells": []any{cell("Revenue"), cell("1|2")}},
		},
	})

	for _, want := range []string{
		"| Name | Value |",
		"| --- | --- |",
		"| Revenue | 1\\|2 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownChartAsTable(t *testing.T) {
	got := renderDoc(map[string]any{
		"type":       "widget",
		"widgetKind": "chart.js/bar",
		"props":      map[string]any{"kind": "bar", "title": "Sales"},
		"data": map[string]any{
			"labels": []any{"Q1", "Q2"},
			"datasets": []any{
				map[string]any{"label": "2025", "data": []any{1.5, 2.0}},
				map[string]any{"data": []any{3.0, nil}},
			},
		},
	})

	for _, want := range []string{
		"**Sales**",
		"| Category | 2025 | Series 2 |",
		"| Q1 | 1.5 | 3 |",
		"| Q2 | 2 |  |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownFailedWidgetPlaceholder(t *testing.T) {
	chart := ir.Block{
		"type":       "widget",
		"widgetKind": "chart.js/bar",
		"props":      map[string]any{"title": "Broken"},
	}
	chart.MarkFailed("data.datasets is missing")

	got := renderDoc(map[string]any(chart))
	if !strings.Contains(got, "> Chart unavailable: data.datasets is missing") {
		t.Errorf("output missing failure placeholder:\n%s", got)
	}
	if !strings.Contains(got, "**Broken**") {
		t.Errorf("output missing widget title:\n%s", got)
	}
}

func TestMarkdownWordCloudAsTable(t *testing.T) {
	got := renderDoc(map[string]any{
		"type":       "widget",
		"widgetKind": "wordcloud",
		"data": map[string]any{
			"words": []any{
				map[string]any{"word": "growth", "weight": 9.0, "category": "finance"},
				map[string]any{"word": "churn", "weight": 2.0},
			},
		},
	})

	for _, want := range []string{
		"| Keyword | Weight | Category |",
		"| growth | 9 | finance |",
		"| churn | 2 | - |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownChartWithoutData(t *testing.T) {
	got := renderDoc(map[string]any{
		"type":       "widget",
		"widgetKind": "chart.js/bar",
		"data":       map[string]any{},
	})
	if !strings.Contains(got, "> Chart data is missing") {
		t.Errorf("output missing empty-data placeholder:\n%s", got)
	}
}

func TestMarkdownBlockquoteAndCode(t *testing.T) {
	got := renderDoc(
		map[string]any{
			"type": "blockquote",
			"blocks": []any{map[string]any{
				"type":    "paragraph",
				"inlines": []any{map[string]any{"text": "quoted", "marks": []any{}}},
			}},
		},
		map[string]any{
			"type":     "code",
			"language": "go",
			"text":     "fmt.Println(1)",
		},
	)
	if !strings.Contains(got, "> quoted") {
		t.Errorf("output missing blockquote:\n%s", got)
	}
	if !strings.Contains(got, "```go\nfmt.Println(1)\n```") {
		t.Errorf("output missing code fence:\n%s", got)
	}
}
