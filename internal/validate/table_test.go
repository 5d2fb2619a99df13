package validate

import (
	"testing"

	"irmend/internal/ir"
)

func textCell(text string) map[string]any {
	return map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "paragraph",
				"inlines": []any{
					map[string]any{"text": text, "marks": []any{}},
				},
			},
		},
	}
}

func simpleTable() ir.Block {
	return ir.Block{
		"type": "table",
		"rows": []any{
			map[string]any{"cells": []any{textCell("Name"), textCell("Value")}},
			map[string]any{"cells": []any{textCell("alpha"), textCell("1")}},
		},
	}
}

func TestTableValidator_Valid(t *testing.T) {
	res := NewTableValidator().Validate(simpleTable())
	if !res.Valid {
		t.Fatalf("valid table rejected: %v", res.Errors)
	}
	if res.TotalCells != 4 || res.EmptyCells != 0 {
		t.Errorf("cells = %d/%d empty, want 4/0", res.TotalCells, res.EmptyCells)
	}
}

func TestTableValidator_NestedCells(t *testing.T) {
	b := ir.Block{
		"type": "table",
		"rows": []any{
			map[string]any{"cells": []any{
				textCell("ok"),
				map[string]any{"cells": []any{textCell("nested-1"), textCell("nested-2")}},
			}},
		},
	}
	res := NewTableValidator().Validate(b)
	if res.Valid {
		t.Fatal("nested cells should be an error")
	}
	if !res.NestedCells {
		t.Error("NestedCells flag should be set")
	}
}

func TestTableValidator_MissingRows(t *testing.T) {
	res := NewTableValidator().Validate(ir.Block{"type": "table"})
	if res.Valid || !containsSubstring(res.Errors, "rows") {
		t.Errorf("missing rows should be an error: %v", res.Errors)
	}
}

func TestTableValidator_MissingBlocks(t *testing.T) {
	b := ir.Block{
		"type": "table",
		"rows": []any{
			map[string]any{"cells": []any{map[string]any{"text": "loose"}}},
		},
	}
	res := NewTableValidator().Validate(b)
	if res.Valid || !containsSubstring(res.Errors, "blocks") {
		t.Errorf("cell without blocks should be an error: %v", res.Errors)
	}
}

func TestTableValidator_EmptyCellsWarn(t *testing.T) {
	b := ir.Block{
		"type": "table",
		"rows": []any{
			map[string]any{"cells": []any{textCell(""), textCell("  "), textCell("x")}},
		},
	}
	res := NewTableValidator().Validate(b)
	if !res.Valid {
		t.Fatalf("empty cells are cosmetic: %v", res.Errors)
	}
	if res.EmptyCells != 2 {
		t.Errorf("EmptyCells = %d, want 2", res.EmptyCells)
	}
	if !containsSubstring(res.Warnings, "empty") {
		t.Errorf("mostly-empty table should warn: %v", res.Warnings)
	}
}

func TestTableValidator_InvalidSpanWarns(t *testing.T) {
	cell := textCell("x")
	cell["colspan"] = "two"
	b := ir.Block{
		"type": "table",
		"rows": []any{map[string]any{"cells": []any{cell}}},
	}
	res := NewTableValidator().Validate(b)
	if !res.Valid {
		t.Fatalf("invalid colspan is a warning: %v", res.Errors)
	}
	if !containsSubstring(res.Warnings, "colspan") {
		t.Errorf("invalid colspan should warn: %v", res.Warnings)
	}
}

func TestTableValidator_InconsistentColspans(t *testing.T) {
	wide := textCell("w")
	wide["colspan"] = 3.0
	b := ir.Block{
		"type": "table",
		"rows": []any{
			map[string]any{"cells": []any{wide}},
			map[string]any{"cells": []any{textCell("a"), textCell("b")}},
		},
	}
	res := NewTableValidator().Validate(b)
	if !containsSubstring(res.Warnings, "colspan") {
		t.Errorf("inconsistent row widths should warn: %v", res.Warnings)
	}
}

func TestTableValidator_WrongType(t *testing.T) {
	res := NewTableValidator().Validate(ir.Block{"type": "paragraph"})
	if res.Valid {
		t.Error("non-table block should be an error")
	}
}
