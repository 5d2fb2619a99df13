package review

import (
	"time"

	"github.com/google/uuid"

	"irmend/internal/ir"
)

// Report is the serializable summary of one review session, consumed by the
// output writers and the HTTP API.
type Report struct {
	Tool          string         `json:"tool"`
	Version       string         `json:"version"`
	RunID         string         `json:"runId"`
	Source        string         `json:"source,omitempty"`
	Stats         Stats          `json:"stats"`
	RepairedTotal int            `json:"repairedTotal"`
	Blocks        []BlockOutcome `json:"blocks,omitempty"`
	Timing        Timing         `json:"timing"`
}

// BlockOutcome is one reviewed block's terminal state.
type BlockOutcome struct {
	WidgetID string `json:"widgetId,omitempty"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Method   string `json:"method,omitempty"`
	Backend  string `json:"backend,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Timing carries the session duration in milliseconds.
type Timing struct {
	ReviewMs int64 `json:"reviewMs"`
}

// BuildReport collects the embedded outcomes of a reviewed document into a
// Report. source names the input for humans (a path or request id).
func BuildReport(doc ir.Document, stats Stats, source, version string, elapsed time.Duration) Report {
	report := Report{
		Tool:          "irmend",
		Version:       version,
		RunID:         uuid.NewString(),
		Source:        source,
		Stats:         stats,
		RepairedTotal: stats.RepairedTotal(),
		Timing:        Timing{ReviewMs: elapsed.Milliseconds()},
	}

	ir.Walk(doc, func(block ir.Block, _ ir.Block) {
		out, ok := block.Outcome()
		if !ok {
			return
		}
		blockType := block.Type()
		if block.IsChart() {
			blockType = "chart"
		} else if block.IsWordCloud() {
			blockType = "wordcloud"
		}
		report.Blocks = append(report.Blocks, BlockOutcome{
			WidgetID: block.WidgetID(),
			Type:     blockType,
			Status:   string(out.Status),
			Method:   string(out.Method),
			Backend:  out.Backend,
			Reason:   out.Reason,
		})
	})

	return report
}
