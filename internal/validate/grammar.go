package validate

import (
	"strings"

	"irmend/internal/ir"
)

// supportedKinds are the chart kinds the downstream widget renderer handles
// natively. Anything else still renders best-effort and only warns.
var supportedKinds = map[string]bool{
	"line": true, "bar": true, "pie": true, "doughnut": true,
	"radar": true, "polarArea": true, "scatter": true,
	"bubble": true, "horizontalBar": true,
}

// labelRequiredKinds index their datasets by the shared labels array and
// carry plain numeric data points.
var labelRequiredKinds = map[string]bool{
	"line": true, "bar": true, "radar": true,
	"polarArea": true, "pie": true, "doughnut": true,
}

// pointKeys lists the required keys of object data points per point kind.
var pointKeys = map[string][]string{
	"scatter": {"x", "y"},
	"bubble":  {"x", "y", "r"},
}

// KindSupported reports whether the chart kind renders natively.
func KindSupported(kind string) bool { return supportedKinds[kind] }

// LabelRequired reports whether the chart kind requires a labels array.
func LabelRequired(kind string) bool { return labelRequiredKinds[kind] }

// PointKeys returns the required object-point keys for point kinds
// (scatter, bubble) and ok=false for every other kind.
func PointKeys(kind string) ([]string, bool) {
	keys, ok := pointKeys[kind]
	return keys, ok
}

// ResolveKind extracts the chart kind from a widget block. Precedence:
// an explicit props.kind override, then the suffix of the prefix-tagged
// widgetKind ("chart.js/bar" -> "bar"), then data.kind. Returns "" when no
// kind can be determined.
func ResolveKind(block ir.Block) string {
	if props, ok := block.Object("props"); ok {
		if kind, ok := ir.AsString(props["kind"]); ok && kind != "" {
			return normalizeKind(kind)
		}
	}
	widgetKind := block.WidgetKind()
	if i := strings.LastIndex(widgetKind, "/"); i >= 0 && i+1 < len(widgetKind) {
		return normalizeKind(widgetKind[i+1:])
	}
	if data, ok := block.Object("data"); ok {
		if kind, ok := ir.AsString(data["kind"]); ok && kind != "" {
			return normalizeKind(kind)
		}
	}
	return ""
}

// normalizeKind lowercases a kind while preserving the camel-cased names the
// grammar tables use.
func normalizeKind(kind string) string {
	switch strings.ToLower(kind) {
	case "polararea":
		return "polarArea"
	case "horizontalbar":
		return "horizontalBar"
	default:
		return strings.ToLower(kind)
	}
}

// isObjectPoint reports whether a dataset entry looks like an {x,y[,r]} or
// timeline {t,...} data point rather than a bare number.
func isObjectPoint(v any) bool {
	m, ok := ir.AsObject(v)
	if !ok {
		return false
	}
	for _, key := range [...]string{"x", "y", "t"} {
		if _, present := m[key]; present {
			return true
		}
	}
	return false
}

// HasObjectPoints reports whether any entry of a dataset's data array is an
// object point. Such datasets are exempt from the label-length and numeric
// checks, and local repair must leave their entries untouched.
func HasObjectPoints(data []any) bool {
	for _, v := range data {
		if isObjectPoint(v) {
			return true
		}
	}
	return false
}
