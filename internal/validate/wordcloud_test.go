package validate

import (
	"testing"

	"irmend/internal/ir"
)

func TestWordCloudItems_DataWords(t *testing.T) {
	b := ir.Block{
		"type":       "widget",
		"widgetKind": "wordcloud",
		"data": map[string]any{
			"words": []any{
				map[string]any{"word": "growth", "weight": 10.0, "category": "finance"},
				map[string]any{"text": "risk", "value": 7.0},
				map[string]any{"label": "churn"},
			},
		},
	}
	items := WordCloudItems(b)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Word != "growth" || items[0].Weight != 10 || items[0].Category != "finance" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Word != "risk" || items[1].Weight != 7 {
		t.Errorf("items[1] = %+v", items[1])
	}
	if items[2].Word != "churn" || items[2].Weight != 1 {
		t.Errorf("items[2] should default weight to 1: %+v", items[2])
	}
}

func TestWordCloudItems_PropsFallback(t *testing.T) {
	b := ir.Block{
		"type":       "widget",
		"widgetKind": "wordcloud",
		"props": map[string]any{
			"items": []any{
				map[string]any{"word": "alpha", "weight": 2.0},
			},
		},
	}
	items := WordCloudItems(b)
	if len(items) != 1 || items[0].Word != "alpha" {
		t.Errorf("items = %+v, want alpha from props.items", items)
	}
}

func TestWordCloudItems_KeyedMap(t *testing.T) {
	b := ir.Block{
		"type":       "widget",
		"widgetKind": "wordcloud",
		"data": map[string]any{
			"alpha": 12.0,
			"beta":  7.0,
		},
	}
	items := WordCloudItems(b)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Word != "alpha" || items[1].Word != "beta" {
		t.Errorf("keyed map should sort by weight: %+v", items)
	}
}

func TestWordCloudItems_Empty(t *testing.T) {
	b := ir.Block{"type": "widget", "widgetKind": "wordcloud"}
	if items := WordCloudItems(b); items != nil {
		t.Errorf("items = %+v, want nil", items)
	}
}
