package review

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"irmend/internal/cache"
	"irmend/internal/ir"
	"irmend/internal/repair"
)

func TestBuildReport(t *testing.T) {
	svc := NewService(repair.NewChain(nil, cache.New(false), zap.NewNop()), zap.NewNop())

	doc := documentWith([]any{validChart(), hopelessChart()})
	stats, err := svc.ReviewDocument(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("ReviewDocument() error = %v", err)
	}

	report := BuildReport(doc, stats, "report.json", "0.1.0", 42*time.Millisecond)

	if report.Tool != "irmend" {
		t.Errorf("tool = %q", report.Tool)
	}
	if report.Version != "0.1.0" {
		t.Errorf("version = %q", report.Version)
	}
	if report.RunID == "" {
		t.Error("runId is empty")
	}
	if report.Source != "report.json" {
		t.Errorf("source = %q", report.Source)
	}
	if report.Timing.ReviewMs != 42 {
		t.Errorf("reviewMs = %d", report.Timing.ReviewMs)
	}
	if report.Stats != stats {
		t.Errorf("stats = %+v, want %+v", report.Stats, stats)
	}
	if report.RepairedTotal != stats.RepairedTotal() {
		t.Errorf("repairedTotal = %d", report.RepairedTotal)
	}

	if len(report.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(report.Blocks))
	}
	first, second := report.Blocks[0], report.Blocks[1]
	if first.WidgetID != "chart-ok" || first.Type != "chart" || first.Status != string(ir.StatusValid) {
		t.Errorf("first block outcome = %+v", first)
	}
	if second.WidgetID != "chart-bad" || second.Status != string(ir.StatusFailed) || second.Reason == "" {
		t.Errorf("second block outcome = %+v", second)
	}
}

func TestBuildReportSkipsUnreviewedBlocks(t *testing.T) {
	doc := documentWith([]any{
		map[string]any{"type": "paragraph", "inlines": []any{}},
		validChart(),
	})
	svc := NewService(repair.NewChain(nil, cache.New(false), zap.NewNop()), zap.NewNop())
	stats, err := svc.ReviewDocument(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("ReviewDocument() error = %v", err)
	}

	report := BuildReport(doc, stats, "", "0.1.0", 0)
	if len(report.Blocks) != 1 {
		t.Errorf("blocks = %d, want 1", len(report.Blocks))
	}
	if report.Source != "" {
		t.Errorf("source = %q, want empty", report.Source)
	}
}

func TestStatsRepairedTotal(t *testing.T) {
	s := Stats{RepairedLocal: 2, RepairedBackend: 3}
	if s.RepairedTotal() != 5 {
		t.Errorf("RepairedTotal() = %d, want 5", s.RepairedTotal())
	}
}
