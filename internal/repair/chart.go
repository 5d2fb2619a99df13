package repair

import (
	"fmt"
	"strconv"

	"irmend/internal/ir"
	"irmend/internal/validate"
)

// RepairChartLocally applies deterministic structural fixes to a chart widget
// block. The input is never mutated; the returned block is a deep copy with
// the fixes applied, together with a change log. An empty change log means
// nothing about the block could be fixed locally.
func RepairChartLocally(block ir.Block) (ir.Block, []string) {
	b := block.Clone()
	var changes []string

	props, ok := b.Object("props")
	if !ok {
		props = ir.Block{}
		b["props"] = map[string]any(props)
		changes = append(changes, "added missing props object")
	}
	data, ok := b.Object("data")
	if !ok {
		data = ir.Block{}
		b["data"] = map[string]any(data)
		changes = append(changes, "added missing data object")
	}

	kind := validate.ResolveKind(b)
	if kind == "" {
		kind = "bar"
		changes = append(changes, "defaulted unknown chart kind to bar")
	}
	if existing, _ := ir.AsString(props["kind"]); existing != kind {
		props["kind"] = kind
		changes = append(changes, fmt.Sprintf("set props.kind to %q", kind))
	}

	changes = ensureDatasets(data, changes)

	if validate.LabelRequired(kind) {
		changes = ensureLabels(data, changes)
		changes = alignDatasets(data, changes)
	}

	return b, changes
}

// ensureDatasets guarantees data.datasets is a non-empty array of dataset
// objects, synthesizing one from the alternate payload shapes the writer
// emits (data.values, data.series) or zero-filled from the labels.
func ensureDatasets(data ir.Block, changes []string) []string {
	if datasets, ok := data.Array("datasets"); ok && len(datasets) > 0 {
		return changes
	}

	if values, ok := data.Array("values"); ok && len(values) > 0 {
		data["datasets"] = []any{map[string]any{
			"label": "Series 1",
			"data":  values,
		}}
		delete(data, "values")
		return append(changes, "built datasets from data.values")
	}

	if series, ok := data.Array("series"); ok && len(series) > 0 {
		datasets := make([]any, 0, len(series))
		for i, sv := range series {
			if entry, ok := ir.AsObject(sv); ok {
				ds := map[string]any{
					"label": fmt.Sprintf("Series %d", i+1),
					"data":  []any{},
				}
				if name, ok := ir.AsString(entry["name"]); ok && name != "" {
					ds["label"] = name
				}
				if points, ok := ir.AsArray(entry["data"]); ok {
					ds["data"] = points
				}
				datasets = append(datasets, ds)
			} else if points, ok := ir.AsArray(sv); ok {
				datasets = append(datasets, map[string]any{
					"label": fmt.Sprintf("Series %d", i+1),
					"data":  points,
				})
			}
		}
		if len(datasets) > 0 {
			data["datasets"] = datasets
			delete(data, "series")
			return append(changes, "built datasets from data.series")
		}
	}

	if labels, ok := data.Array("labels"); ok && len(labels) > 0 {
		zeros := make([]any, len(labels))
		for i := range zeros {
			zeros[i] = float64(0)
		}
		data["datasets"] = []any{map[string]any{
			"label": "Series 1",
			"data":  zeros,
		}}
		return append(changes, "built zero-filled dataset from labels")
	}

	return changes
}

// ensureLabels synthesizes a labels array from the first dataset's length
// when a label-required chart arrived without one.
func ensureLabels(data ir.Block, changes []string) []string {
	if labels, ok := data.Array("labels"); ok && len(labels) > 0 {
		return changes
	}
	datasets, ok := data.Array("datasets")
	if !ok || len(datasets) == 0 {
		return changes
	}
	first, ok := ir.AsObject(datasets[0])
	if !ok {
		return changes
	}
	points, ok := ir.AsArray(first["data"])
	if !ok || len(points) == 0 {
		return changes
	}
	labels := make([]any, len(points))
	for i := range labels {
		labels[i] = fmt.Sprintf("Item %d", i+1)
	}
	data["labels"] = labels
	return append(changes, fmt.Sprintf("synthesized %d labels from first dataset", len(labels)))
}

// alignDatasets normalizes each dataset of a label-indexed chart: fills in a
// missing data array or label, pads or truncates data to the labels length,
// and coerces numeric strings to numbers.
func alignDatasets(data ir.Block, changes []string) []string {
	datasets, ok := data.Array("datasets")
	if !ok {
		return changes
	}
	labels, _ := data.Array("labels")

	for idx, dsv := range datasets {
		ds, ok := ir.AsObject(dsv)
		if !ok {
			continue
		}
		points, ok := ir.AsArray(ds["data"])
		if !ok {
			points = []any{}
			ds["data"] = points
			changes = append(changes, fmt.Sprintf("added missing data array to datasets[%d]", idx))
		}
		if _, ok := ir.AsString(ds["label"]); !ok {
			ds["label"] = fmt.Sprintf("Series %d", idx+1)
			changes = append(changes, fmt.Sprintf("added missing label to datasets[%d]", idx))
		}

		// Object-point datasets (timeline-style {x,y} entries) are exempt
		// from the label-length and numeric rules; leave their data alone.
		if validate.HasObjectPoints(points) {
			continue
		}

		if len(labels) > 0 && len(points) != len(labels) {
			if len(points) < len(labels) {
				padded := make([]any, len(labels))
				copy(padded, points)
				points = padded
				changes = append(changes, fmt.Sprintf(
					"padded datasets[%d].data from %d to %d entries", idx, countNonNil(padded), len(labels)))
			} else {
				points = points[:len(labels)]
				changes = append(changes, fmt.Sprintf(
					"truncated datasets[%d].data to %d entries", idx, len(labels)))
			}
			ds["data"] = points
		}

		for i, value := range points {
			if value == nil || ir.IsNumber(value) {
				continue
			}
			if s, ok := ir.AsString(value); ok {
				if n, err := strconv.ParseFloat(s, 64); err == nil {
					points[i] = n
					changes = append(changes, fmt.Sprintf(
						"coerced datasets[%d].data[%d] %q to a number", idx, i, s))
					continue
				}
			}
			points[i] = nil
			changes = append(changes, fmt.Sprintf(
				"replaced non-numeric datasets[%d].data[%d] with null", idx, i))
		}
	}

	return changes
}

func countNonNil(values []any) int {
	n := 0
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
}
