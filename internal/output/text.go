package output

import (
	"fmt"
	"io"
	"strings"

	"irmend/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	ew.printf("irmend document review — run %s\n", report.RunID)
	if report.Source != "" {
		ew.printf("Source: %s\n", report.Source)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Blocks: %d total", report.Stats.Total)
	if report.Stats.Total > 0 {
		ew.printf(" (%d valid, %d repaired locally, %d repaired by backend, %d failed)",
			report.Stats.Valid,
			report.Stats.RepairedLocal,
			report.Stats.RepairedBackend,
			report.Stats.Failed,
		)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))

	if report.Stats.Total == 0 {
		ew.println("\nNo chart or table blocks found.")
		return ew.err
	}

	repaired := filterBlocks(report.Blocks, "repaired")
	failed := filterBlocks(report.Blocks, "failed")

	if len(repaired) > 0 {
		ew.println("\nREPAIRED")
		ew.println(strings.Repeat("─", 40))
		for _, b := range repaired {
			ew.printf("  %s %s", blockLabel(b), methodLabel(b))
			ew.println("")
		}
	}

	if len(failed) > 0 {
		ew.println("\nFAILED")
		ew.println(strings.Repeat("─", 40))
		for _, b := range failed {
			ew.printf("  %s\n", blockLabel(b))
			if b.Reason != "" {
				for _, line := range wrapText(b.Reason, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	if len(repaired) == 0 && len(failed) == 0 {
		ew.println("\nAll blocks valid. Nothing to repair.")
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms\n", report.Timing.ReviewMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func filterBlocks(blocks []review.BlockOutcome, status string) []review.BlockOutcome {
	var out []review.BlockOutcome
	for _, b := range blocks {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

func blockLabel(b review.BlockOutcome) string {
	if b.WidgetID != "" {
		return fmt.Sprintf("%s %q", b.Type, b.WidgetID)
	}
	return b.Type
}

func methodLabel(b review.BlockOutcome) string {
	if b.Method == "backend" {
		return fmt.Sprintf("(backend: %s)", b.Backend)
	}
	return "(local)"
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
