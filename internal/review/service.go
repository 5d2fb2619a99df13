package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"irmend/internal/backends"
	"irmend/internal/ir"
	"irmend/internal/repair"
	"irmend/internal/validate"
)

// Service reviews whole documents: it validates every chart and table block,
// repairs what it can locally, escalates the rest to the backend chain, and
// embeds a terminal outcome in each reviewed block so a second pass over the
// same tree is a no-op.
type Service struct {
	charts *validate.ChartValidator
	tables *validate.TableValidator
	chain  *repair.Chain
	log    *zap.Logger
}

// Options tune one review session.
type Options struct {
	// SavePath persists the metadata-stripped tree after review.
	SavePath string
	// SaveOnRepair limits persistence to sessions that changed something.
	SaveOnRepair bool
}

// NewService builds a review service around a backend chain.
func NewService(chain *repair.Chain, log *zap.Logger) *Service {
	return &Service{
		charts: validate.NewChartValidator(),
		tables: validate.NewTableValidator(),
		chain:  chain,
		log:    log,
	}
}

// AuthError returns the first credential rejection a repair backend reported
// across this service's review sessions, or nil. Reviews complete regardless;
// affected blocks simply fall through to the next backend or to failed.
func (s *Service) AuthError() error {
	return s.chain.AuthError()
}

// ReviewDocument walks every block of the document, reviews chart and table
// blocks in place, and returns this session's outcome counters. Blocks that
// already carry an outcome are tallied from it without re-running validation
// or repair.
func (s *Service) ReviewDocument(ctx context.Context, doc ir.Document, opts Options) (Stats, error) {
	start := time.Now()
	var stats Stats
	hasRepairs := false

	ir.Walk(doc, func(block ir.Block, chapter ir.Block) {
		switch {
		case block.IsWordCloud():
			// Word clouds carry free-form payloads and are never validated.
			if out, ok := block.Outcome(); ok {
				tally(&stats, out)
				return
			}
			stats.Total++
			block.MarkValid()
			stats.Valid++
		case block.IsChart():
			if s.reviewChart(ctx, block, chapter, &stats) {
				hasRepairs = true
			}
		case block.IsTable():
			if s.reviewTable(ctx, block, &stats) {
				hasRepairs = true
			}
		}
	})

	s.log.Info("document reviewed",
		zap.Int("total", stats.Total),
		zap.Int("valid", stats.Valid),
		zap.Int("repairedLocal", stats.RepairedLocal),
		zap.Int("repairedBackend", stats.RepairedBackend),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", time.Since(start)))

	if opts.SavePath != "" && (!opts.SaveOnRepair || hasRepairs) {
		if err := ir.Save(ir.Strip(doc), opts.SavePath); err != nil {
			return stats, fmt.Errorf("saving reviewed document: %w", err)
		}
		s.log.Info("reviewed document saved", zap.String("path", opts.SavePath))
	}

	return stats, nil
}

// reviewChart takes one chart block through the full pipeline. It reports
// whether the block was changed.
func (s *Service) reviewChart(ctx context.Context, block ir.Block, chapter ir.Block, stats *Stats) bool {
	if out, ok := block.Outcome(); ok {
		tally(stats, out)
		return false
	}
	stats.Total++

	normalizeChart(block, chapter)

	res := s.charts.Validate(block)
	if res.Valid {
		block.MarkValid()
		stats.Valid++
		return false
	}

	repaired, changes := repair.RepairChartLocally(block)
	if len(changes) > 0 {
		if localRes := s.charts.Validate(repaired); localRes.Valid {
			replaceBlock(block, repaired)
			block.MarkRepairedLocal()
			stats.RepairedLocal++
			s.log.Info("chart repaired locally",
				zap.String("widget", block.WidgetID()),
				zap.Strings("changes", changes))
			return true
		}
	}

	fixed, idx, ok := s.chain.Repair(ctx, backends.KindChart, block, res.Errors, func(b ir.Block) bool {
		return s.charts.Validate(b).Valid
	})
	if ok {
		name := backendAt(s.chain, idx)
		replaceBlock(block, fixed)
		block.MarkRepairedBackend(idx, name)
		stats.RepairedBackend++
		return true
	}

	block.MarkFailed(failReason(res.Errors))
	stats.Failed++
	s.log.Warn("chart repair exhausted",
		zap.String("widget", block.WidgetID()),
		zap.Strings("errors", res.Errors))
	return false
}

// reviewTable mirrors reviewChart for table blocks.
func (s *Service) reviewTable(ctx context.Context, block ir.Block, stats *Stats) bool {
	if out, ok := block.Outcome(); ok {
		tally(stats, out)
		return false
	}
	stats.Total++

	res := s.tables.Validate(block)
	if res.Valid {
		block.MarkValid()
		stats.Valid++
		return false
	}

	repaired, changes := repair.RepairTableLocally(block)
	if len(changes) > 0 {
		if localRes := s.tables.Validate(repaired); localRes.Valid {
			replaceBlock(block, repaired)
			block.MarkRepairedLocal()
			stats.RepairedLocal++
			s.log.Info("table repaired locally",
				zap.String("widget", block.WidgetID()),
				zap.Strings("changes", changes))
			return true
		}
	}

	fixed, idx, ok := s.chain.Repair(ctx, backends.KindTable, block, res.Errors, func(b ir.Block) bool {
		return s.tables.Validate(b).Valid
	})
	if ok {
		name := backendAt(s.chain, idx)
		replaceBlock(block, fixed)
		block.MarkRepairedBackend(idx, name)
		stats.RepairedBackend++
		return true
	}

	block.MarkFailed(failReason(res.Errors))
	stats.Failed++
	s.log.Warn("table repair exhausted",
		zap.String("widget", block.WidgetID()),
		zap.Strings("errors", res.Errors))
	return false
}

// tally counts an already-embedded outcome without touching the block.
func tally(stats *Stats, out ir.Outcome) {
	stats.Total++
	switch out.Status {
	case ir.StatusValid:
		stats.Valid++
	case ir.StatusRepaired:
		if out.Method == ir.MethodBackend {
			stats.RepairedBackend++
		} else {
			stats.RepairedLocal++
		}
	case ir.StatusFailed:
		stats.Failed++
	}
}

// replaceBlock swaps a block's content in place so the tree keeps pointing
// at the same object. The original widget identity survives a replacement
// that dropped it.
func replaceBlock(dst, src ir.Block) {
	widgetID, hasID := dst["widgetId"]
	for key := range dst {
		delete(dst, key)
	}
	for key, value := range src {
		dst[key] = value
	}
	if _, ok := dst["widgetId"]; !ok && hasID {
		dst["widgetId"] = widgetID
	}
}

// failReason condenses validation errors into the reason persisted on a
// failed block. At most three errors are kept.
func failReason(errs []string) string {
	if len(errs) == 0 {
		return "validation failed"
	}
	if len(errs) > 3 {
		errs = errs[:3]
	}
	return strings.Join(errs, "; ")
}

func backendAt(chain *repair.Chain, idx int) string {
	return chain.Name(idx)
}

// normalizeChart standardizes a chart block before validation: props and
// data become objects, top-level scales merge into props.options, empty
// chart data falls back to chapter-level data, and missing labels are
// synthesized from the first dataset's points.
func normalizeChart(block ir.Block, chapter ir.Block) {
	props, ok := block.Object("props")
	if !ok {
		props = ir.Block{}
		block["props"] = map[string]any(props)
	}

	if scales, ok := block.Object("scales"); ok {
		options, _ := props.Object("options")
		if options == nil {
			options = ir.Block{}
		}
		options["scales"] = map[string]any(scales)
		props["options"] = map[string]any(options)
	}

	data, ok := block.Object("data")
	if !ok {
		data = ir.Block{}
		block["data"] = map[string]any(data)
	}

	if chapter != nil && chartDataEmpty(data) {
		if chapterData, ok := chapter.Object("data"); ok {
			if fallback, ok := chapterData.Array("datasets"); ok && len(fallback) > 0 {
				data["datasets"] = ir.CloneValue(fallback)
				if labels, ok := data.Array("labels"); !ok || len(labels) == 0 {
					if chLabels, ok := chapterData.Array("labels"); ok {
						data["labels"] = ir.CloneValue(chLabels)
					}
				}
			}
		}
	}

	if labels, ok := data.Array("labels"); !ok || len(labels) == 0 {
		synthesizeLabels(data)
	}
}

// synthesizeLabels derives a labels array from the first dataset's object
// points, reading each point's x or label field. Datasets of bare numbers
// are left alone; the repair layer owns label synthesis for those.
func synthesizeLabels(data ir.Block) {
	datasets, ok := data.Array("datasets")
	if !ok || len(datasets) == 0 {
		return
	}
	first, ok := ir.AsObject(datasets[0])
	if !ok {
		return
	}
	points, ok := ir.AsArray(first["data"])
	if !ok || len(points) == 0 {
		return
	}
	objects := false
	for _, pv := range points {
		if _, ok := ir.AsObject(pv); ok {
			objects = true
			break
		}
	}
	if !objects {
		return
	}
	labels := make([]any, len(points))
	for i, pv := range points {
		label := fmt.Sprintf("Point %d", i+1)
		if point, ok := ir.AsObject(pv); ok {
			if x, ok := ir.AsString(point["x"]); ok && x != "" {
				label = x
			} else if n, ok := ir.Number(point["x"]); ok {
				label = fmt.Sprintf("%v", n)
			} else if l, ok := ir.AsString(point["label"]); ok && l != "" {
				label = l
			}
		}
		labels[i] = label
	}
	data["labels"] = labels
}

// chartDataEmpty reports whether the payload has no dataset with points.
func chartDataEmpty(data ir.Block) bool {
	datasets, ok := data.Array("datasets")
	if !ok || len(datasets) == 0 {
		return true
	}
	for _, dsv := range datasets {
		ds, ok := ir.AsObject(dsv)
		if !ok {
			continue
		}
		if points, ok := ir.AsArray(ds["data"]); ok && len(points) > 0 {
			return false
		}
	}
	return true
}
