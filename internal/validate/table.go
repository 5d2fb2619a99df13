package validate

import (
	"fmt"
	"strings"

	"irmend/internal/ir"
)

// TableResult extends Result with structural metrics the repair layer
// and reporting care about.
type TableResult struct {
	Result
	NestedCells bool
	EmptyCells  int
	TotalCells  int
}

// TableValidator checks table blocks for renderability. Like the chart
// validator it is stateless.
type TableValidator struct{}

// NewTableValidator returns a shared-safe table validator.
func NewTableValidator() *TableValidator { return &TableValidator{} }

// Validate checks a table block's rows, cells, and span attributes.
func (v *TableValidator) Validate(block ir.Block) TableResult {
	var res TableResult

	if block == nil {
		res.Errors = append(res.Errors, "table block must be an object")
		return res
	}
	if block.Type() != ir.TypeTable {
		res.Errors = append(res.Errors, fmt.Sprintf("block type %q is not a table", block.Type()))
		return res
	}

	rowsVal, present := block["rows"]
	if !present || rowsVal == nil {
		res.Errors = append(res.Errors, "missing rows field")
		return res
	}
	rows, ok := ir.AsArray(rowsVal)
	if !ok {
		res.Errors = append(res.Errors, "rows must be an array")
		return res
	}
	if len(rows) == 0 {
		res.Warnings = append(res.Warnings, "table has no rows")
		res.Valid = true
		return res
	}

	colspanSums := make([]int, 0, len(rows))

	for ri, rowVal := range rows {
		row, ok := ir.AsObject(rowVal)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("rows[%d] must be an object", ri))
			continue
		}
		cellsVal, present := row["cells"]
		if !present || cellsVal == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("rows[%d] is missing its cells field", ri))
			continue
		}
		cells, ok := ir.AsArray(cellsVal)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("rows[%d].cells must be an array", ri))
			continue
		}
		if len(cells) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("rows[%d] has no cells", ri))
			continue
		}

		colspanSum := 0
		for ci, cellVal := range cells {
			res.TotalCells++

			cell, ok := ir.AsObject(cellVal)
			if !ok {
				res.Errors = append(res.Errors, fmt.Sprintf("rows[%d].cells[%d] must be an object", ri, ci))
				continue
			}

			// A cell carrying its own cells instead of blocks is a row
			// accidentally nested inside a cell. The local repair pass
			// flattens these back out.
			if _, hasNested := cell["cells"]; hasNested {
				if _, hasBlocks := cell["blocks"]; !hasBlocks {
					res.NestedCells = true
					res.Errors = append(res.Errors, fmt.Sprintf(
						"rows[%d].cells[%d] contains nested cells instead of blocks", ri, ci))
					continue
				}
			}

			blocksVal, present := cell["blocks"]
			if !present || blocksVal == nil {
				res.Errors = append(res.Errors, fmt.Sprintf("rows[%d].cells[%d] is missing its blocks field", ri, ci))
				continue
			}
			blocks, ok := ir.AsArray(blocksVal)
			if !ok {
				res.Errors = append(res.Errors, fmt.Sprintf("rows[%d].cells[%d].blocks must be an array", ri, ci))
				continue
			}
			if cellIsEmpty(blocks) {
				res.EmptyCells++
			}

			colspanSum += spanValue(cell, "colspan", &res, ri, ci)
			spanValue(cell, "rowspan", &res, ri, ci)
		}
		colspanSums = append(colspanSums, colspanSum)
	}

	if inconsistentSpans(colspanSums) {
		res.Warnings = append(res.Warnings, "rows have inconsistent colspan totals")
	}
	if res.TotalCells > 0 && res.EmptyCells*2 > res.TotalCells {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d of %d cells are empty", res.EmptyCells, res.TotalCells))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// spanValue validates a colspan/rowspan attribute and returns its effective
// width (1 when absent or invalid).
func spanValue(cell ir.Block, key string, res *TableResult, ri, ci int) int {
	value, present := cell[key]
	if !present || value == nil {
		return 1
	}
	n, ok := ir.Number(value)
	if !ok || n != float64(int(n)) || int(n) < 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"rows[%d].cells[%d].%s value %v is invalid", ri, ci, key, value))
		return 1
	}
	return int(n)
}

// cellIsEmpty reports whether a cell's blocks render to no visible text.
func cellIsEmpty(blocks []any) bool {
	if len(blocks) == 0 {
		return true
	}
	for _, bv := range blocks {
		b, ok := ir.AsObject(bv)
		if !ok {
			continue
		}
		if strings.TrimSpace(blockText(ir.Block(b))) != "" {
			return false
		}
	}
	return true
}

// blockText extracts the plain text of a simple content block.
func blockText(b ir.Block) string {
	if inlines, ok := b.Array("inlines"); ok {
		var sb strings.Builder
		for _, iv := range inlines {
			if inline, ok := ir.AsObject(iv); ok {
				if text, ok := ir.AsString(inline["text"]); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	}
	if text, ok := ir.AsString(b["text"]); ok {
		return text
	}
	if content, ok := ir.AsString(b["content"]); ok {
		return content
	}
	return ""
}

// inconsistentSpans reports whether non-empty rows disagree on total width.
func inconsistentSpans(sums []int) bool {
	first := 0
	for _, s := range sums {
		if s == 0 {
			continue
		}
		if first == 0 {
			first = s
			continue
		}
		if s != first {
			return true
		}
	}
	return false
}
