package output

import (
	"fmt"
	"io"

	"irmend/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	fmt.Fprintf(w, "## irmend Document Review\n\n")

	// Summary table
	fmt.Fprintf(w, "| Outcome | Count |\n")
	fmt.Fprintf(w, "|---------|-------|\n")
	fmt.Fprintf(w, "| Valid | %d |\n", report.Stats.Valid)
	fmt.Fprintf(w, "| Repaired (local) | %d |\n", report.Stats.RepairedLocal)
	fmt.Fprintf(w, "| Repaired (backend) | %d |\n", report.Stats.RepairedBackend)
	fmt.Fprintf(w, "| Failed | %d |\n", report.Stats.Failed)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", report.Stats.Total)

	if report.Stats.Total == 0 {
		fmt.Fprintln(w, "No chart or table blocks found.")
		return nil
	}

	if report.RepairedTotal == 0 && report.Stats.Failed == 0 {
		fmt.Fprintln(w, "All blocks valid. :white_check_mark:")
	}

	repaired := filterBlocks(report.Blocks, "repaired")
	if len(repaired) > 0 {
		fmt.Fprintf(w, "<details>\n<summary>Repaired blocks (%d)</summary>\n\n", len(repaired))
		for _, b := range repaired {
			fmt.Fprintf(w, "- %s via %s\n", mdBlockLabel(b), mdMethodLabel(b))
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	failed := filterBlocks(report.Blocks, "failed")
	if len(failed) > 0 {
		fmt.Fprintf(w, "<details>\n<summary>Failed blocks (%d)</summary>\n\n", len(failed))
		for _, b := range failed {
			fmt.Fprintf(w, "- %s", mdBlockLabel(b))
			if b.Reason != "" {
				fmt.Fprintf(w, ": %s", b.Reason)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	fmt.Fprintf(w, "*Reviewed in %dms (run %s)*\n", report.Timing.ReviewMs, report.RunID)

	return nil
}

func mdBlockLabel(b review.BlockOutcome) string {
	if b.WidgetID != "" {
		return fmt.Sprintf("%s `%s`", b.Type, b.WidgetID)
	}
	return b.Type
}

func mdMethodLabel(b review.BlockOutcome) string {
	if b.Method == "backend" {
		return "backend " + b.Backend
	}
	return "local repair"
}
