package ir

import "strings"

// Block is a single content block in the document tree. Blocks are dynamic
// JSON objects discriminated by their "type" key; chart and table blocks may
// be structurally malformed, which is why no stricter representation is used.
type Block map[string]any

// Well-known block type tags.
const (
	TypeWidget    = "widget"
	TypeTable     = "table"
	TypeList      = "list"
	TypeParagraph = "paragraph"
	TypeHeading   = "heading"
)

// ChartKindPrefix tags widget kinds rendered by the chart widget family,
// e.g. "chart.js/bar". The part after the separator is the chart kind.
const ChartKindPrefix = "chart.js"

// Type returns the block's type tag, or "" if absent or not a string.
func (b Block) Type() string {
	s, _ := AsString(b["type"])
	return s
}

// WidgetKind returns the prefix-tagged widget kind, e.g. "chart.js/bar".
func (b Block) WidgetKind() string {
	s, _ := AsString(b["widgetKind"])
	return s
}

// WidgetID returns the block's identity field, falling back to "id".
func (b Block) WidgetID() string {
	if s, ok := AsString(b["widgetId"]); ok && s != "" {
		return s
	}
	s, _ := AsString(b["id"])
	return s
}

// IsChart reports whether the block is a chart widget.
func (b Block) IsChart() bool {
	return b.Type() == TypeWidget && strings.HasPrefix(b.WidgetKind(), ChartKindPrefix)
}

// IsWordCloud reports whether the block is a word-cloud widget. Word clouds
// carry intentionally unconstrained payloads and bypass chart validation.
func (b Block) IsWordCloud() bool {
	return b.Type() == TypeWidget && strings.Contains(strings.ToLower(b.WidgetKind()), "wordcloud")
}

// IsTable reports whether the block is a table.
func (b Block) IsTable() bool { return b.Type() == TypeTable }

// Object returns the value under key as an object, or (nil, false).
func (b Block) Object(key string) (Block, bool) {
	m, ok := AsObject(b[key])
	return Block(m), ok
}

// Array returns the value under key as an array, or (nil, false).
func (b Block) Array(key string) ([]any, bool) {
	return AsArray(b[key])
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	if b == nil {
		return nil
	}
	return Block(cloneObject(b))
}

// AsObject reports v as a JSON object.
func AsObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Block:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

// AsArray reports v as a JSON array.
func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// AsString reports v as a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Number reports v as a float64. It accepts the numeric types encoding/json
// produces plus plain Go ints, which show up in hand-built test fixtures.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsNumber reports whether v is numeric. JSON null is not a number.
func IsNumber(v any) bool {
	_, ok := Number(v)
	return ok
}

// CloneValue deep-copies any JSON-shaped value.
func CloneValue(v any) any { return cloneValue(v) }

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneObject(t)
	case Block:
		return Block(cloneObject(t))
	case Document:
		return Document(cloneObject(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
