// Package validate holds the structural grammars and validators for chart
// and table blocks.
//
// Validation never returns a Go error and never mutates the block: each
// validator produces a Result listing render-breaking errors and cosmetic
// warnings. The grammar favors rendering over refusing — unknown chart kinds
// and length mismatches degrade to warnings, and a label-required chart
// whose datasets consist of object points carrying an x value is tolerated
// with a warning (the timeline heuristic inherited from the chart renderer).
//
// The nested-cell table defect (a cell carrying a "cells" array instead of
// "blocks") is surfaced as a distinct flag because its repair is a
// structural flattening, not a field fill.
package validate
