package render

import (
	"fmt"
	"strconv"
	"strings"

	"irmend/internal/ir"
	"irmend/internal/validate"
)

// Markdown renders a document tree to a Markdown string.
func Markdown(doc ir.Document) string {
	var sections []string

	if title, ok := ir.AsString(doc["title"]); ok && title != "" {
		sections = append(sections, "# "+escape(title))
	}

	for _, chapter := range doc.Chapters() {
		if s := renderChapter(chapter); s != "" {
			sections = append(sections, s)
		}
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func renderChapter(chapter ir.Block) string {
	var parts []string
	if title, ok := ir.AsString(chapter["title"]); ok && title != "" {
		parts = append(parts, "## "+escape(title))
	}
	blocks, _ := chapter.Array("blocks")
	if s := renderBlocks(blocks); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n")
}

func renderBlocks(blocks []any) string {
	var parts []string
	for _, bv := range blocks {
		m, ok := ir.AsObject(bv)
		if !ok {
			continue
		}
		if s := renderBlock(ir.Block(m)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderBlock(block ir.Block) string {
	switch block.Type() {
	case ir.TypeHeading:
		return renderHeading(block)
	case ir.TypeParagraph:
		return renderInlines(block)
	case ir.TypeList:
		return renderList(block)
	case ir.TypeTable:
		return renderTable(block)
	case "blockquote":
		return quoteLines(renderNested(block))
	case "code":
		return renderCode(block)
	case ir.TypeWidget:
		return renderWidget(block)
	default:
		// Unknown types degrade to whatever text they carry.
		if s := renderInlines(block); s != "" {
			return s
		}
		return renderNested(block)
	}
}

func renderHeading(block ir.Block) string {
	level := 2
	if n, ok := ir.Number(block["level"]); ok && n >= 1 && n <= 6 {
		level = int(n)
	}
	return strings.Repeat("#", level) + " " + renderInlines(block)
}

func renderNested(block ir.Block) string {
	nested, _ := block.Array("blocks")
	return renderBlocks(nested)
}

func renderCode(block ir.Block) string {
	lang, _ := ir.AsString(block["language"])
	text, _ := ir.AsString(block["text"])
	if text == "" {
		text, _ = ir.AsString(block["content"])
	}
	return "```" + lang + "\n" + text + "\n```"
}

func renderList(block ir.Block) string {
	listType, _ := ir.AsString(block["listType"])
	items, _ := block.Array("items")

	var lines []string
	for i, item := range items {
		seq, ok := ir.AsArray(item)
		if !ok {
			continue
		}
		text := blocksAsText(seq)
		switch listType {
		case "ordered":
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, text))
		case "task":
			lines = append(lines, "- [ ] "+text)
		default:
			lines = append(lines, "- "+text)
		}
	}
	return strings.Join(lines, "\n")
}

func renderTable(block ir.Block) string {
	rows, ok := block.Array("rows")
	if !ok || len(rows) == 0 {
		return ""
	}

	var lines []string
	for ri, rv := range rows {
		row, ok := ir.AsObject(rv)
		if !ok {
			continue
		}
		cells, _ := ir.AsArray(row["cells"])
		texts := make([]string, 0, len(cells))
		for _, cv := range cells {
			cell, ok := ir.AsObject(cv)
			if !ok {
				texts = append(texts, escapeCell(fmt.Sprintf("%v", cv)))
				continue
			}
			blocks, _ := ir.AsArray(cell["blocks"])
			texts = append(texts, escapeCell(blocksAsText(blocks)))
		}
		if len(texts) == 0 {
			continue
		}
		lines = append(lines, markdownRow(texts))
		if ri == 0 {
			lines = append(lines, markdownSeparator(len(texts)))
		}
	}
	return strings.Join(lines, "\n")
}

func renderWidget(block ir.Block) string {
	title, _ := ir.AsString(block["title"])
	if title == "" {
		if props, ok := block.Object("props"); ok {
			title, _ = ir.AsString(props["title"])
		}
	}
	prefix := ""
	if title != "" {
		prefix = "**" + escape(title) + "**\n\n"
	}

	if !block.Renderable() {
		reason := "repair failed"
		if out, ok := block.Outcome(); ok && out.Reason != "" {
			reason = out.Reason
		}
		return prefix + "> Chart unavailable: " + escape(reason)
	}

	switch {
	case block.IsChart():
		return strings.TrimSpace(prefix + chartAsTable(block))
	case block.IsWordCloud():
		return strings.TrimSpace(prefix + wordCloudAsTable(block))
	default:
		return strings.TrimSpace(prefix + "> Widget does not support Markdown rendering")
	}
}

func chartAsTable(block ir.Block) string {
	data, ok := block.Object("data")
	if !ok {
		return "> Chart data is missing and cannot be converted to a table"
	}
	labels, _ := data.Array("labels")
	datasets, _ := data.Array("datasets")
	if len(labels) == 0 || len(datasets) == 0 {
		return "> Chart data is missing and cannot be converted to a table"
	}

	headers := []string{"Category"}
	for i, dsv := range datasets {
		name := fmt.Sprintf("Series %d", i+1)
		if ds, ok := ir.AsObject(dsv); ok {
			if label, ok := ir.AsString(ds["label"]); ok && label != "" {
				name = label
			}
		}
		headers = append(headers, escapeCell(name))
	}

	lines := []string{markdownRow(headers), markdownSeparator(len(headers))}
	for i, label := range labels {
		cells := []string{escapeCell(stringify(label))}
		for _, dsv := range datasets {
			value := ""
			if ds, ok := ir.AsObject(dsv); ok {
				if points, ok := ir.AsArray(ds["data"]); ok && i < len(points) {
					value = stringify(points[i])
				}
			}
			cells = append(cells, escapeCell(value))
		}
		lines = append(lines, markdownRow(cells))
	}
	return strings.Join(lines, "\n")
}

func wordCloudAsTable(block ir.Block) string {
	items := validate.WordCloudItems(block)
	if len(items) == 0 {
		return "> Word cloud data is missing and cannot be converted to a table"
	}

	lines := []string{
		markdownRow([]string{"Keyword", "Weight", "Category"}),
		markdownSeparator(3),
	}
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "-"
		}
		lines = append(lines, markdownRow([]string{
			escapeCell(item.Word),
			escapeCell(stringify(item.Weight)),
			escapeCell(category),
		}))
	}
	return strings.Join(lines, "\n")
}

// renderInlines renders a block's inline run sequence with marks applied.
func renderInlines(block ir.Block) string {
	inlines, ok := block.Array("inlines")
	if !ok {
		if text, ok := ir.AsString(block["text"]); ok {
			return escape(text)
		}
		return ""
	}
	var sb strings.Builder
	for _, iv := range inlines {
		if s, ok := ir.AsString(iv); ok {
			sb.WriteString(escape(s))
			continue
		}
		run, ok := ir.AsObject(iv)
		if !ok {
			continue
		}
		text, _ := ir.AsString(run["text"])
		rendered := escape(text)
		if marks, ok := ir.AsArray(run["marks"]); ok {
			for _, mv := range marks {
				rendered = applyMark(rendered, mv)
			}
		}
		sb.WriteString(rendered)
	}
	return sb.String()
}

func applyMark(text string, mark any) string {
	markType := ""
	if s, ok := ir.AsString(mark); ok {
		markType = s
	} else if m, ok := ir.AsObject(mark); ok {
		markType, _ = ir.AsString(m["type"])
	}
	switch markType {
	case "bold", "strong":
		return "**" + text + "**"
	case "italic", "em":
		return "*" + text + "*"
	case "underline":
		return "<u>" + text + "</u>"
	case "strike":
		return "~~" + text + "~~"
	case "code":
		return "`" + text + "`"
	default:
		return text
	}
}

// blocksAsText renders a block sequence to a single line for table cells and
// list items.
func blocksAsText(blocks []any) string {
	var parts []string
	for _, bv := range blocks {
		m, ok := ir.AsObject(bv)
		if !ok {
			continue
		}
		if s := strings.TrimSpace(renderBlock(ir.Block(m))); s != "" {
			parts = append(parts, strings.ReplaceAll(s, "\n", " "))
		}
	}
	return strings.Join(parts, " ")
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func markdownSeparator(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = "---"
	}
	return markdownRow(parts)
}

func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func escape(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func escapeCell(text string) string {
	text = escape(text)
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(text, "\n", " ")
}
