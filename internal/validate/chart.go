package validate

import (
	"fmt"
	"sort"
	"strings"

	"irmend/internal/ir"
)

// Result is the outcome of validating a single block. Errors break
// rendering; warnings are cosmetic and never fail validation.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// HasCriticalErrors reports whether the block cannot render as-is.
func (r Result) HasCriticalErrors() bool {
	return !r.Valid && len(r.Errors) > 0
}

func result(errors, warnings []string) Result {
	return Result{Valid: len(errors) == 0, Errors: errors, Warnings: warnings}
}

// ChartValidator checks chart widget blocks against the chart grammar.
// It is stateless and safe to share across concurrent review sessions.
type ChartValidator struct{}

// NewChartValidator returns a shared-safe chart validator.
func NewChartValidator() *ChartValidator { return &ChartValidator{} }

// Validate checks a chart widget block. Non-chart widgets pass untouched;
// everything else is held to the grammar of its resolved chart kind.
func (v *ChartValidator) Validate(block ir.Block) Result {
	var errors, warnings []string

	if block == nil {
		return result([]string{"widget block must be an object"}, nil)
	}

	widgetKind := block.WidgetKind()
	if widgetKind == "" {
		return result([]string{"widgetKind field is missing or not a string"}, nil)
	}
	if !strings.HasPrefix(widgetKind, ir.ChartKindPrefix) {
		// Not a chart widget; nothing to check here.
		return result(nil, nil)
	}

	kind := ResolveKind(block)
	if kind == "" {
		return result([]string{"unable to determine chart kind"}, nil)
	}
	if !KindSupported(kind) {
		warnings = append(warnings, fmt.Sprintf("chart kind %q may not be supported, rendering best-effort", kind))
	}

	data, ok := block.Object("data")
	if !ok {
		return result(append(errors, "data field must be an object"), warnings)
	}

	if keys, isPoint := PointKeys(kind); isPoint {
		errors, warnings = validatePointData(data, keys, errors, warnings)
	} else {
		errors, warnings = validateStandardData(data, kind, errors, warnings)
	}

	if props, present := block["props"]; present && props != nil {
		if _, ok := ir.AsObject(props); !ok {
			warnings = append(warnings, "props field should be an object")
		}
	}

	return result(errors, warnings)
}

// validateStandardData checks the labels+datasets shape used by the
// label-required kinds.
func validateStandardData(data ir.Block, kind string, errors, warnings []string) ([]string, []string) {
	labels, labelsIsArray := data.Array("labels")
	datasets, datasetsPresent := data["datasets"]

	usesObjectPoints := datasetsUseObjectPoints(data)

	if LabelRequired(kind) {
		switch {
		case data["labels"] == nil || (labelsIsArray && len(labels) == 0):
			if usesObjectPoints {
				warnings = append(warnings, fmt.Sprintf("chart kind %q is missing labels; rendering from data point x values", kind))
			} else {
				errors = append(errors, fmt.Sprintf("chart kind %q requires a labels field", kind))
			}
		case !labelsIsArray:
			errors = append(errors, "labels must be an array")
		}
	}

	if !datasetsPresent || datasets == nil {
		return append(errors, "missing datasets field"), warnings
	}
	dsList, ok := ir.AsArray(datasets)
	if !ok {
		return append(errors, "datasets must be an array"), warnings
	}
	if len(dsList) == 0 {
		return append(errors, "datasets array is empty"), warnings
	}

	for idx, dsv := range dsList {
		ds, ok := ir.AsObject(dsv)
		if !ok {
			errors = append(errors, fmt.Sprintf("datasets[%d] must be an object", idx))
			continue
		}
		dsData, present := ds["data"]
		if !present || dsData == nil {
			errors = append(errors, fmt.Sprintf("datasets[%d] is missing its data field", idx))
			continue
		}
		points, ok := ir.AsArray(dsData)
		if !ok {
			errors = append(errors, fmt.Sprintf("datasets[%d].data must be an array", idx))
			continue
		}
		if len(points) == 0 {
			warnings = append(warnings, fmt.Sprintf("datasets[%d].data array is empty", idx))
			continue
		}

		// Datasets made of object points are exempt from the label-length
		// and numeric checks; the renderer reads x/y pairs directly.
		if HasObjectPoints(points) {
			continue
		}

		if labelsIsArray && len(labels) > 0 && len(points) != len(labels) {
			warnings = append(warnings, fmt.Sprintf(
				"datasets[%d].data length (%d) does not match labels length (%d)",
				idx, len(points), len(labels)))
		}

		for i, value := range points {
			if value == nil {
				continue
			}
			if !ir.IsNumber(value) {
				errors = append(errors, fmt.Sprintf(
					"datasets[%d].data[%d] value %v is not numeric", idx, i, value))
				break // one error per dataset is enough
			}
		}
	}

	return errors, warnings
}

// validatePointData checks scatter/bubble datasets, where every entry is an
// object carrying the full set of required numeric keys.
func validatePointData(data ir.Block, required []string, errors, warnings []string) ([]string, []string) {
	datasets, present := data["datasets"]
	if !present || datasets == nil {
		return append(errors, "missing datasets field"), warnings
	}
	dsList, ok := ir.AsArray(datasets)
	if !ok {
		return append(errors, "datasets must be an array"), warnings
	}
	if len(dsList) == 0 {
		return append(errors, "datasets array is empty"), warnings
	}

	for idx, dsv := range dsList {
		ds, ok := ir.AsObject(dsv)
		if !ok {
			errors = append(errors, fmt.Sprintf("datasets[%d] must be an object", idx))
			continue
		}
		dsData, dataPresent := ds["data"]
		if !dataPresent || dsData == nil {
			errors = append(errors, fmt.Sprintf("datasets[%d] is missing its data field", idx))
			continue
		}
		points, ok := ir.AsArray(dsData)
		if !ok {
			errors = append(errors, fmt.Sprintf("datasets[%d].data must be an array", idx))
			continue
		}
		if len(points) == 0 {
			warnings = append(warnings, fmt.Sprintf("datasets[%d].data array is empty", idx))
			continue
		}

	pointLoop:
		for i, pv := range points {
			point, ok := ir.AsObject(pv)
			if !ok {
				errors = append(errors, fmt.Sprintf(
					"datasets[%d].data[%d] must be an object with %s fields",
					idx, i, strings.Join(required, ",")))
				break
			}
			var missing []string
			for _, key := range required {
				if _, present := point[key]; !present {
					missing = append(missing, key)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				errors = append(errors, fmt.Sprintf(
					"datasets[%d].data[%d] is missing required fields: %s",
					idx, i, strings.Join(missing, ",")))
				break
			}
			for _, key := range required {
				value := point[key]
				if value != nil && !ir.IsNumber(value) {
					errors = append(errors, fmt.Sprintf(
						"datasets[%d].data[%d].%s value %v is not numeric", idx, i, key, value))
					break pointLoop
				}
			}
		}
	}

	return errors, warnings
}

// datasetsUseObjectPoints reports whether any dataset in the payload carries
// object data points, which switches the labels check to warning-only.
func datasetsUseObjectPoints(data ir.Block) bool {
	datasets, _ := data.Array("datasets")
	for _, dsv := range datasets {
		ds, ok := ir.AsObject(dsv)
		if !ok {
			continue
		}
		if points, ok := ir.AsArray(ds["data"]); ok && HasObjectPoints(points) {
			return true
		}
	}
	return false
}
