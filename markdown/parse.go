package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tsawler/docmark/model"
)

// Parse converts markdown text into a markup tree. Parsing is
// best-effort: constructs outside the supported block set (thematic
// breaks, raw HTML that carries no text) are skipped rather than
// rejected.
func Parse(source string) (*model.Document, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	src := []byte(source)
	root := md.Parser().Parse(text.NewReader(src))

	p := &treeParser{src: src}
	p.walk(root, 0)
	return &model.Document{Blocks: p.blocks}, nil
}

type treeParser struct {
	src    []byte
	blocks []model.Block
}

// walk converts block-level nodes. depth carries list nesting.
func (p *treeParser) walk(node ast.Node, depth int) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			runs, images := p.inline(n, inlineStyle{})
			level := n.Level
			if level > 6 {
				level = 6
			}
			p.blocks = append(p.blocks, &model.Heading{Level: level, Runs: runs})
			p.appendImages(images)

		case *ast.Paragraph:
			p.paragraph(n)

		case *ast.TextBlock:
			p.paragraph(n)

		case *ast.List:
			p.list(n, depth)

		case *ast.FencedCodeBlock:
			p.blocks = append(p.blocks, &model.CodeBlock{Text: p.blockText(n)})

		case *ast.CodeBlock:
			p.blocks = append(p.blocks, &model.CodeBlock{Text: p.blockText(n)})

		case *ast.Blockquote:
			p.blockquote(n)

		case *east.Table:
			p.table(n)

		case *ast.HTMLBlock:
			if runs := runsFromHTML(p.blockText(n), inlineStyle{}); len(runs) > 0 {
				p.blocks = append(p.blocks, &model.Paragraph{Runs: runs})
			}

		default:
			// Thematic breaks and anything unrecognized are skipped.
		}
	}
}

// paragraph converts a paragraph node, lifting inline images out as
// image blocks that follow the text.
func (p *treeParser) paragraph(n ast.Node) {
	runs, images := p.inline(n, inlineStyle{})
	if len(runs) > 0 {
		p.blocks = append(p.blocks, &model.Paragraph{Runs: runs})
	}
	p.appendImages(images)
}

func (p *treeParser) appendImages(images []*model.ImageBlock) {
	for _, img := range images {
		p.blocks = append(p.blocks, img)
	}
}

// list converts a list node and its nested sublists.
func (p *treeParser) list(n *ast.List, depth int) {
	ordered := n.IsOrdered()
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		for part := item.FirstChild(); part != nil; part = part.NextSibling() {
			switch inner := part.(type) {
			case *ast.List:
				p.list(inner, depth+1)
			default:
				runs, images := p.inline(part, inlineStyle{})
				if len(runs) > 0 {
					p.blocks = append(p.blocks, &model.ListItem{
						Ordered: ordered,
						Depth:   depth,
						Runs:    runs,
					})
				}
				p.appendImages(images)
			}
		}
	}
}

// blockquote flattens the quote's paragraphs into a single quote
// block, joining lines with spaces.
func (p *treeParser) blockquote(n *ast.Blockquote) {
	var runs []model.Run
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		inner, images := p.inline(child, inlineStyle{})
		if len(runs) > 0 && len(inner) > 0 {
			runs = append(runs, model.Run{Text: " "})
		}
		runs = append(runs, inner...)
		p.appendImages(images)
	}
	if len(runs) > 0 {
		p.blocks = append(p.blocks, &model.Quote{Runs: mergeRuns(runs)})
	}
}

func (p *treeParser) table(n *east.Table) {
	table := &model.Table{}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			runs, _ := p.inline(cell, inlineStyle{})
			cells = append(cells, strings.TrimSpace(model.PlainText(runs)))
		}
		table.Rows = append(table.Rows, cells)
	}
	if len(table.Rows) > 0 {
		p.blocks = append(p.blocks, table)
	}
}

// blockText joins the source lines covered by a block node.
func (p *treeParser) blockText(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(p.src))
	}
	return sb.String()
}

// inlineStyle carries formatting inherited from enclosing inline
// nodes during the walk.
type inlineStyle struct {
	bold      bool
	italic    bool
	underline bool
	code      bool
	link      string
}

// inline converts the inline children of a node into runs, collecting
// inline images separately so callers can lift them to block level.
func (p *treeParser) inline(node ast.Node, style inlineStyle) ([]model.Run, []*model.ImageBlock) {
	var runs []model.Run
	var images []*model.ImageBlock

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			value := string(n.Segment.Value(p.src))
			if value != "" {
				runs = append(runs, p.styledRun(value, style))
			}
			if n.SoftLineBreak() || n.HardLineBreak() {
				runs = append(runs, p.styledRun(" ", style))
			}

		case *ast.String:
			runs = append(runs, p.styledRun(string(n.Value), style))

		case *ast.CodeSpan:
			s := style
			s.code = true
			inner, _ := p.inline(n, s)
			runs = append(runs, inner...)

		case *ast.Emphasis:
			s := style
			if n.Level >= 2 {
				s.bold = true
			} else {
				s.italic = true
			}
			inner, innerImages := p.inline(n, s)
			runs = append(runs, inner...)
			images = append(images, innerImages...)

		case *ast.Link:
			s := style
			s.link = string(n.Destination)
			inner, innerImages := p.inline(n, s)
			runs = append(runs, inner...)
			images = append(images, innerImages...)

		case *ast.AutoLink:
			url := string(n.URL(p.src))
			runs = append(runs, model.Run{Text: url, Link: url})

		case *ast.Image:
			alt, _ := p.inline(n, inlineStyle{})
			images = append(images, &model.ImageBlock{
				Target:  string(n.Destination),
				AltText: model.PlainText(alt),
			})

		case *ast.RawHTML:
			var sb strings.Builder
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				sb.Write(seg.Value(p.src))
			}
			runs = append(runs, runsFromHTML(sb.String(), style)...)

		default:
			inner, innerImages := p.inline(child, style)
			runs = append(runs, inner...)
			images = append(images, innerImages...)
		}
	}

	return mergeRuns(runs), images
}

func (p *treeParser) styledRun(text string, style inlineStyle) model.Run {
	return model.Run{
		Text:      text,
		Bold:      style.bold,
		Italic:    style.italic,
		Underline: style.underline,
		Code:      style.code,
		Link:      style.link,
	}
}

// mergeRuns joins adjacent runs that share identical formatting so
// emphasis boundaries in the source do not fragment the output.
func mergeRuns(runs []model.Run) []model.Run {
	if len(runs) < 2 {
		return runs
	}
	out := runs[:1]
	for _, r := range runs[1:] {
		last := &out[len(out)-1]
		if r.Bold == last.Bold && r.Italic == last.Italic &&
			r.Code == last.Code && r.Underline == last.Underline &&
			r.Link == last.Link {
			last.Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
