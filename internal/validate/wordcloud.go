package validate

import (
	"sort"

	"irmend/internal/ir"
)

// WordItem is a single weighted word extracted from a word-cloud widget.
type WordItem struct {
	Word     string
	Weight   float64
	Category string
}

// wordListKeys are the places, in probing order, a word list tends to hide
// in word-cloud payloads produced by different generations of the writer.
var wordListKeys = []struct {
	container string
	key       string
}{
	{"data", "words"},
	{"data", "items"},
	{"props", "words"},
	{"props", "items"},
	{"props", "data"},
}

// WordCloudItems extracts the word list from a word-cloud widget block.
// Word clouds are never validated or repaired, but the renderer still needs
// their content, so extraction is tolerant of every shape seen in the wild:
// arrays of {word,weight} objects under data or props, or a bare
// word-to-weight map.
func WordCloudItems(block ir.Block) []WordItem {
	for _, loc := range wordListKeys {
		container, ok := block.Object(loc.container)
		if !ok {
			continue
		}
		if list, ok := container.Array(loc.key); ok && len(list) > 0 {
			if items := itemsFromList(list); len(items) > 0 {
				return items
			}
		}
	}

	// Fall back to a keyed map of word -> weight.
	for _, containerKey := range []string{"data", "props"} {
		container, ok := block.Object(containerKey)
		if !ok {
			continue
		}
		if items := itemsFromMap(container); len(items) > 0 {
			return items
		}
	}
	return nil
}

func itemsFromList(list []any) []WordItem {
	items := make([]WordItem, 0, len(list))
	for _, v := range list {
		entry, ok := ir.AsObject(v)
		if !ok {
			continue
		}
		word := firstString(entry, "word", "text", "label")
		if word == "" {
			continue
		}
		weight := 1.0
		for _, key := range []string{"weight", "value"} {
			if n, ok := ir.Number(entry[key]); ok {
				weight = n
				break
			}
		}
		category, _ := ir.AsString(entry["category"])
		items = append(items, WordItem{Word: word, Weight: weight, Category: category})
	}
	return items
}

// itemsFromMap treats every numeric-valued key of the container as a
// word -> weight pair. Structural keys never carry numbers, so a payload
// shaped {"alpha": 12, "beta": 7} extracts cleanly.
func itemsFromMap(container ir.Block) []WordItem {
	var items []WordItem
	for word, v := range container {
		if n, ok := ir.Number(v); ok {
			items = append(items, WordItem{Word: word, Weight: n})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Weight != items[j].Weight {
			return items[i].Weight > items[j].Weight
		}
		return items[i].Word < items[j].Word
	})
	return items
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := ir.AsString(m[key]); ok && s != "" {
			return s
		}
	}
	return ""
}
