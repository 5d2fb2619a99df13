package backends

import (
	"encoding/json"
	"fmt"
	"strings"

	"irmend/internal/ir"
)

const chartRepairSystemPrompt = `You are a chart data repair assistant. Your task is to fix formatting errors in Chart.js chart data so the chart renders.

Standard charts (line, bar, pie, doughnut, radar, polarArea) carry a shared labels array and numeric datasets:

{"type": "widget",
  "widgetKind": "chart.js/bar",
  "widgetId": "chart-001",
  "props": {"kind": "bar", "title": "Title"},
  "data": {
    "labels": ["A", "B", "C"],
    "datasets": [{"label": "Series 1", "data": [10, 20, 30]}]
  }
}

Point charts (scatter, bubble) carry object data points instead of a labels array:

{"data": {"datasets": [{"label": "Series 1", "data": [{"x": 10, "y": 20}, {"x": 15, "y": 25}]}]}}

Repair principles:
1. Prefer no change over a wrong change. If unsure, keep the original data.
2. Minimal changes. Fix only the reported errors.
3. Never lose original data.

Common errors and fixes:
1. Missing labels field: generate default labels from the data length
2. Datasets not an array: convert to array form
3. Data length mismatch: truncate or pad with null
4. Non-numeric data: convert when possible, otherwise set to null
5. Missing required fields: add sensible defaults

Return the repaired complete widget block as JSON.`

const tableRepairSystemPrompt = `You are a table data repair assistant. Your task is to fix format errors in table block data so the table renders.

A table is rows of cells; every cell carries a blocks array of content blocks:

{"type": "table",
  "rows": [
    {"cells": [
      {"header": true, "blocks": [{"type": "paragraph", "inlines": [{"text": "Column", "marks": []}]}]}
    ]},
    {"cells": [
      {"blocks": [{"type": "paragraph", "inlines": [{"text": "Value", "marks": []}]}]}
    ]}
  ]
}

The most common defect is cells nested inside a cell where blocks should be:

Wrong:   {"cells": [{"blocks": [...]}, {"cells": [{"blocks": [...]}, {"blocks": [...]}]}]}
Correct: {"cells": [{"blocks": [...]}, {"blocks": [...]}, {"blocks": [...]}]}

Repair principles:
1. Flatten nested cells into sibling cells, preserving their order
2. Every cell must have a blocks array
3. Text content belongs inside paragraph blocks
4. Never lose original content

Return the repaired complete table block as JSON.`

// SystemPrompt returns the repair system prompt for a block kind.
func SystemPrompt(kind BlockKind) string {
	if kind == KindTable {
		return tableRepairSystemPrompt
	}
	return chartRepairSystemPrompt
}

// BuildUserPrompt assembles the per-block repair prompt: the block serialized
// as JSON plus the validation errors, with strict output format rules.
func BuildUserPrompt(kind BlockKind, block ir.Block, errors []string) string {
	blockJSON, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%v", map[string]any(block)))
	}
	var sb strings.Builder
	sb.WriteString("Fix the errors in the following ")
	sb.WriteString(string(kind))
	sb.WriteString(" block:\n\nOriginal data:\n")
	sb.Write(blockJSON)
	sb.WriteString("\n\nDetected errors:\n")
	for _, e := range errors {
		sb.WriteString("- ")
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	sb.WriteString(`
Requirements:
1. Return the complete repaired block as JSON
2. If unsure how to fix something, keep the original data

Output format:
1. Return only the JSON object, with no surrounding text
2. Do not wrap the output in code fences
3. The JSON must be syntactically valid
4. Use double quotes for all strings`)
	return sb.String()
}

// decodeBlock parses a backend response into a block. Backends are told not
// to wrap output in code fences, but smaller models do it anyway, so fences
// are stripped before parsing.
func decodeBlock(content string) (ir.Block, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	var block ir.Block
	if err := json.Unmarshal([]byte(text), &block); err != nil {
		return nil, fmt.Errorf("parsing repaired block: %w", err)
	}
	if block == nil {
		return nil, fmt.Errorf("repaired block is null")
	}
	return block, nil
}
