package repair

import (
	"fmt"
	"strconv"

	"irmend/internal/ir"
)

// RepairTableLocally applies deterministic structural fixes to a table block.
// The input is never mutated; the returned block is a deep copy with the
// fixes applied, together with a change log.
func RepairTableLocally(block ir.Block) (ir.Block, []string) {
	b := block.Clone()
	var changes []string

	if b.Type() != ir.TypeTable {
		b["type"] = ir.TypeTable
		changes = append(changes, "set block type to table")
	}

	rows, ok := b.Array("rows")
	if !ok {
		rows = []any{}
		b["rows"] = rows
		changes = append(changes, "added missing rows array")
	}

	for ri, rowVal := range rows {
		row, ok := ir.AsObject(rowVal)
		if !ok {
			rows[ri] = map[string]any{"cells": []any{defaultCell()}}
			changes = append(changes, fmt.Sprintf("replaced malformed rows[%d] with an empty row", ri))
			continue
		}
		cells, ok := ir.AsArray(row["cells"])
		if !ok {
			row["cells"] = []any{defaultCell()}
			changes = append(changes, fmt.Sprintf("added missing cells array to rows[%d]", ri))
			continue
		}

		flat, flattened := flattenCells(cells)
		if flattened {
			row["cells"] = flat
			changes = append(changes, fmt.Sprintf("flattened nested cells in rows[%d]", ri))
			cells = flat
		}

		for ci, cellVal := range cells {
			cell, ok := ir.AsObject(cellVal)
			if !ok {
				cells[ci] = textCell(fmt.Sprintf("%v", cellVal))
				changes = append(changes, fmt.Sprintf(
					"wrapped scalar rows[%d].cells[%d] in a paragraph cell", ri, ci))
				continue
			}
			if _, ok := ir.AsArray(cell["blocks"]); !ok {
				cell["blocks"] = []any{textParagraph(cellText(cell))}
				changes = append(changes, fmt.Sprintf(
					"rebuilt missing blocks in rows[%d].cells[%d]", ri, ci))
			}
		}
	}

	return b, changes
}

// flattenCells splices rows accidentally nested inside cells back out into a
// flat sibling list. A cell carrying a "cells" array and no "blocks" is such
// a nested row; its leaf cells become siblings in order.
func flattenCells(cells []any) ([]any, bool) {
	flattened := false
	out := make([]any, 0, len(cells))
	for _, cv := range cells {
		cell, ok := ir.AsObject(cv)
		if !ok {
			out = append(out, cv)
			continue
		}
		nested, hasNested := ir.AsArray(cell["cells"])
		_, hasBlocks := cell["blocks"]
		if hasNested && !hasBlocks {
			leaves, _ := flattenCells(nested)
			out = append(out, leaves...)
			flattened = true
			continue
		}
		out = append(out, cv)
	}
	return out, flattened
}

// cellText digs the best available text out of a malformed cell so a rebuilt
// blocks array preserves whatever content the writer put there. Numeric
// scalars count as content too.
func cellText(cell map[string]any) string {
	for _, key := range []string{"text", "content", "value"} {
		if s, ok := ir.AsString(cell[key]); ok && s != "" {
			return s
		}
		if n, ok := ir.Number(cell[key]); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return ""
}

func defaultCell() map[string]any {
	return map[string]any{"blocks": []any{textParagraph("")}}
}

func textCell(text string) map[string]any {
	return map[string]any{"blocks": []any{textParagraph(text)}}
}

func textParagraph(text string) map[string]any {
	return map[string]any{
		"type": ir.TypeParagraph,
		"inlines": []any{
			map[string]any{"text": text, "marks": []any{}},
		},
	}
}
