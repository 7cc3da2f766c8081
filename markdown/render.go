// Package markdown converts between the document tree and markdown
// text. Rendering is deterministic: headings are surrounded by exactly
// one blank line, lists indent two spaces per depth, tables pad ragged
// rows, and consecutive blank lines collapse to one.
package markdown

import (
	"strings"

	"github.com/tsawler/docmark/assets"
	"github.com/tsawler/docmark/model"
)

// ToMarkup converts a package-bound tree into a markup tree: image
// blocks are rebound from relationship ids to bare relative paths
// under images/. An image whose id has no extracted asset is dropped
// with a warning rather than fabricated.
func ToMarkup(doc *model.Document, byRelID map[string]assets.Asset) (*model.Document, []model.Warning) {
	out := &model.Document{Blocks: make([]model.Block, 0, len(doc.Blocks))}
	var warnings []model.Warning

	for _, b := range doc.Blocks {
		img, ok := b.(*model.ImageBlock)
		if !ok {
			out.Blocks = append(out.Blocks, b)
			continue
		}
		if img.Target != "" {
			out.Blocks = append(out.Blocks, img)
			continue
		}
		asset, ok := byRelID[img.RelID]
		if !ok {
			warnings = append(warnings, model.Warningf(model.WarnMissingAsset,
				"image %s has no extracted asset", img.RelID))
			continue
		}
		out.Blocks = append(out.Blocks, &model.ImageBlock{
			Target:  "images/" + asset.Filename,
			AltText: img.AltText,
		})
	}

	return out, warnings
}

// Render serializes a markup tree to markdown text. The output always
// ends with a single trailing newline.
func Render(doc *model.Document) string {
	var groups []string

	for i := 0; i < len(doc.Blocks); i++ {
		b := doc.Blocks[i]
		if b.Kind() == model.KindListItem {
			// Consecutive list items render contiguously.
			j := i
			var lines []string
			for ; j < len(doc.Blocks); j++ {
				item, ok := doc.Blocks[j].(*model.ListItem)
				if !ok {
					break
				}
				lines = append(lines, renderListItem(item))
			}
			groups = append(groups, strings.Join(lines, "\n"))
			i = j - 1
			continue
		}
		if g := renderBlock(b); g != "" {
			groups = append(groups, g)
		}
	}

	if len(groups) == 0 {
		return ""
	}
	return strings.Join(groups, "\n\n") + "\n"
}

func renderBlock(b model.Block) string {
	switch block := b.(type) {
	case *model.Heading:
		return strings.Repeat("#", block.Level) + " " + renderRuns(block.Runs)
	case *model.Paragraph:
		return renderRuns(block.Runs)
	case *model.Quote:
		return renderQuote(block)
	case *model.CodeBlock:
		return "```\n" + strings.TrimRight(block.Text, "\n") + "\n```"
	case *model.ImageBlock:
		return "![" + escapeText(block.AltText) + "](" + block.Target + ")"
	case *model.Table:
		return renderTable(block)
	default:
		return ""
	}
}

// renderListItem renders one list item with two spaces of indentation
// per depth level. Every ordered item uses the literal marker "1.";
// markdown renderers auto-number from it.
func renderListItem(item *model.ListItem) string {
	marker := "* "
	if item.Ordered {
		marker = "1. "
	}
	return strings.Repeat("  ", item.Depth) + marker + renderRuns(item.Runs)
}

func renderQuote(q *model.Quote) string {
	text := renderRuns(q.Runs)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// renderTable emits a pipe table. Ragged rows are padded to the
// widest row with a single blank-space cell, so the dash separator
// always matches the header width.
func renderTable(t *model.Table) string {
	if len(t.Rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return ""
	}

	renderRow := func(row []string) string {
		cells := make([]string, width)
		for i := 0; i < width; i++ {
			cell := " "
			if i < len(row) {
				if c := strings.TrimSpace(row[i]); c != "" {
					cell = escapeCell(c)
				}
			}
			cells[i] = cell
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}

	var sb strings.Builder
	sb.WriteString(renderRow(t.Rows[0]))
	sb.WriteString("\n|")
	for i := 0; i < width; i++ {
		sb.WriteString(" --- |")
	}
	for _, row := range t.Rows[1:] {
		sb.WriteString("\n")
		sb.WriteString(renderRow(row))
	}
	return sb.String()
}

// renderRuns serializes inline runs with markdown emphasis markers.
// Runs of hard-broken text keep single newlines; longer gaps collapse.
func renderRuns(runs []model.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(renderRun(r))
	}
	return collapseNewlines(sb.String())
}

func renderRun(r model.Run) string {
	text := escapeText(r.Text)
	if text == "" {
		return ""
	}
	switch {
	case r.Code:
		text = "`" + r.Text + "`"
	case r.Bold && r.Italic:
		text = "***" + text + "***"
	case r.Bold:
		text = "**" + text + "**"
	case r.Italic:
		text = "*" + text + "*"
	}
	if r.Link != "" {
		text = "[" + text + "](" + r.Link + ")"
	}
	return text
}

// escapeText protects characters that would change markdown structure.
func escapeText(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"`", "\\`",
	)
	return replacer.Replace(s)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// collapseNewlines reduces runs of newlines to a single newline and
// trims surrounding whitespace.
func collapseNewlines(s string) string {
	for strings.Contains(s, "\n\n") {
		s = strings.ReplaceAll(s, "\n\n", "\n")
	}
	return strings.TrimSpace(s)
}
