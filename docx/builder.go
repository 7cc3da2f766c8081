// Package docx builds the semantic document tree from a
// WordprocessingML package and emits packages from trees. Style names
// decide block kinds, numbering definitions decide list shape, and
// image references stay relationship ids until asset access is needed.
package docx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsawler/docmark/model"
	"github.com/tsawler/docmark/opc"
)

// monospaceFonts marks run fonts that translate to inline code.
var monospaceFonts = map[string]bool{
	"courier new":      true,
	"courier":          true,
	"consolas":         true,
	"menlo":            true,
	"monaco":           true,
	"dejavu sans mono": true,
	"source code pro":  true,
}

// builder carries the per-build state: parsed supporting parts and
// accumulated warnings.
type builder struct {
	pkg       *opc.Package
	rels      *opc.Relationships
	names     map[string]string // styleId -> display name
	styleNums map[string]bool   // styleId -> definition carries numbering
	numbering *NumberingResolver
	warnings  []model.Warning
}

// Build parses the main content part of a package into an ordered
// document tree. Recoverable conditions (dangling image references)
// are reported as warnings; a malformed main part is fatal.
func Build(pkg *opc.Package) (*model.Document, []model.Warning, error) {
	b := &builder{pkg: pkg}

	data, ok := pkg.XMLPart(opc.PartDocument)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", opc.ErrMissingPart, opc.PartDocument)
	}
	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", opc.ErrPackageCorrupt, opc.PartDocument, err)
	}

	b.parseStyles()
	b.parseNumbering()
	if err := b.parseRelationships(); err != nil {
		return nil, nil, err
	}

	tree := &model.Document{}
	if doc.Body != nil {
		for _, el := range doc.Body.Elements {
			switch {
			case el.Paragraph != nil:
				tree.Blocks = append(tree.Blocks, b.buildParagraph(el.Paragraph)...)
			case el.Table != nil:
				if t := b.buildTable(el.Table); t != nil {
					tree.Blocks = append(tree.Blocks, t)
				}
			}
		}
	}

	return tree, b.warnings, nil
}

// Relationships parses the relationship set scoped to the main content
// part. An absent part yields an empty set.
func Relationships(pkg *opc.Package) (*opc.Relationships, error) {
	data, ok := pkg.Part(opc.PartDocumentRels)
	if !ok {
		return opc.NewRelationships(), nil
	}
	return opc.ParseRelationships(data)
}

// parseStyles reads word/styles.xml. Styles are optional; without them
// style ids double as names.
func (b *builder) parseStyles() {
	b.names = make(map[string]string)
	b.styleNums = make(map[string]bool)

	data, ok := b.pkg.XMLPart(opc.PartStyles)
	if !ok {
		return
	}
	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return
	}
	for _, s := range styles.Styles {
		if s.Name.Val != "" {
			b.names[s.StyleID] = s.Name.Val
		}
		if IsListParagraph(s.PPr.NumPr.NumID.Val) {
			b.styleNums[s.StyleID] = true
		}
	}
}

// parseNumbering reads word/numbering.xml. Numbering is optional.
func (b *builder) parseNumbering() {
	var numbering *numberingXML
	if data, ok := b.pkg.XMLPart(opc.PartNumbering); ok {
		var n numberingXML
		if err := xml.Unmarshal(data, &n); err == nil {
			numbering = &n
		}
	}
	b.numbering = NewNumberingResolver(numbering)
}

func (b *builder) parseRelationships() error {
	rels, err := Relationships(b.pkg)
	if err != nil {
		return err
	}
	b.rels = rels
	return nil
}

// styleName resolves a style id to its display name, falling back to
// the id itself.
func (b *builder) styleName(styleID string) string {
	if name, ok := b.names[styleID]; ok {
		return name
	}
	return styleID
}

// buildParagraph converts one paragraph into zero or more blocks: its
// text block (if any) followed by one image block per embedded drawing.
func (b *builder) buildParagraph(p *paragraphXML) []model.Block {
	styleID := p.Properties.Style.Val
	name := b.styleName(styleID)
	numID := p.Properties.NumPr.NumID.Val
	hasNum := IsListParagraph(numID) || b.styleNums[styleID]

	runs := b.buildRuns(p)
	images := b.buildImages(p)

	var blocks []model.Block
	text := strings.TrimSpace(model.PlainText(runs))

	if text != "" {
		kind, level := Classify(name, hasNum)
		switch kind {
		case model.KindHeading:
			blocks = append(blocks, &model.Heading{Level: level, Runs: runs})
		case model.KindQuote:
			blocks = append(blocks, &model.Quote{Runs: runs})
		case model.KindCode:
			blocks = append(blocks, &model.CodeBlock{Text: model.PlainText(runs)})
		case model.KindListItem:
			depth := parseLevel(p.Properties.NumPr.ILvl.Val)
			blocks = append(blocks, &model.ListItem{
				Ordered: b.listOrdered(numID, depth, name),
				Depth:   depth,
				Runs:    runs,
			})
		default:
			blocks = append(blocks, &model.Paragraph{Runs: runs})
		}
	}

	blocks = append(blocks, images...)
	return blocks
}

// listOrdered decides ordered vs unordered for a list paragraph. The
// numbering definition chain wins; when it cannot be resolved the
// style name decides, defaulting to ordered.
func (b *builder) listOrdered(numID string, level int, styleName string) bool {
	if ordered, ok := b.numbering.Ordered(numID, level); ok {
		return ordered
	}
	lower := strings.ToLower(styleName)
	return !strings.Contains(lower, "bullet")
}

// buildRuns flattens the paragraph's ordered children into styled runs.
func (b *builder) buildRuns(p *paragraphXML) []model.Run {
	var runs []model.Run
	for _, child := range p.Children {
		switch {
		case child.Run != nil:
			if r, ok := buildRun(child.Run, ""); ok {
				runs = append(runs, r)
			}
		case child.Hyperlink != nil:
			target := b.hyperlinkTarget(child.Hyperlink)
			for i := range child.Hyperlink.Runs {
				if r, ok := buildRun(&child.Hyperlink.Runs[i], target); ok {
					runs = append(runs, r)
				}
			}
		}
	}
	return runs
}

// hyperlinkTarget resolves a hyperlink's relationship id to its URL.
// Internal anchors have no relationship and yield no target.
func (b *builder) hyperlinkTarget(h *hyperlinkXML) string {
	if h.ID == "" {
		return ""
	}
	rel, ok := b.rels.Resolve(h.ID)
	if !ok || rel.Type != opc.RelHyperlink {
		return ""
	}
	return rel.Target
}

// buildRun converts a single run. Runs with no text content are
// dropped (drawings are handled separately).
func buildRun(r *runXML, link string) (model.Run, bool) {
	text := runText(r)
	if text == "" {
		return model.Run{}, false
	}
	return model.Run{
		Text:      text,
		Bold:      r.Properties.Bold.isSet(),
		Italic:    r.Properties.Italic.isSet(),
		Underline: r.Properties.Underline.Val != "" && r.Properties.Underline.Val != "none",
		Code:      monospaceFonts[strings.ToLower(r.Properties.Font.ASCII)],
		Link:      link,
	}, true
}

// runText extracts the text content of a run, mapping tabs and breaks
// to whitespace.
func runText(r *runXML) string {
	var parts []string
	for _, t := range r.Text {
		parts = append(parts, t.Value)
	}
	for range r.Tabs {
		parts = append(parts, "\t")
	}
	for range r.Breaks {
		parts = append(parts, "\n")
	}
	return strings.Join(parts, "")
}

// buildImages extracts image blocks from the paragraph's drawings.
// Each embedded reference is validated against the relationship set
// and the package: a reference that does not resolve to an image
// relationship with a present media part is dropped with a warning.
func (b *builder) buildImages(p *paragraphXML) []model.Block {
	var blocks []model.Block
	for _, child := range p.Children {
		if child.Run == nil {
			continue
		}
		for _, d := range child.Run.Drawings {
			pic := d.Inline
			if pic == nil {
				pic = d.Anchor
			}
			if pic == nil || pic.Blip == nil || pic.Blip.Embed == "" {
				continue
			}
			relID := pic.Blip.Embed

			rel, ok := b.rels.Resolve(relID)
			if !ok || rel.Type != opc.RelImage {
				b.warnings = append(b.warnings, model.Warningf(model.WarnDanglingImage,
					"image reference %s has no image relationship", relID))
				continue
			}
			if !b.pkg.Has(opc.PartForTarget(rel.Target)) {
				b.warnings = append(b.warnings, model.Warningf(model.WarnDanglingImage,
					"image relationship %s targets missing part %s", relID, rel.Target))
				continue
			}

			alt := pic.DocPr.Descr
			if alt == "" {
				alt = pic.DocPr.Name
			}
			blocks = append(blocks, &model.ImageBlock{RelID: relID, AltText: alt})
		}
	}
	return blocks
}

// buildTable converts a table to rows of plain cell text. Rows keep
// whatever cell count they have; padding is a markup emission concern.
func (b *builder) buildTable(t *tableXML) *model.Table {
	if len(t.Rows) == 0 {
		return nil
	}
	table := &model.Table{}
	for _, row := range t.Rows {
		var cells []string
		for _, cell := range row.Cells {
			cells = append(cells, cellText(&cell))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// cellText joins a cell's paragraphs into one line of text. Newlines
// collapse to spaces so the cell stays on one markup table row.
func cellText(c *tableCellXML) string {
	var parts []string
	for i := range c.Paragraphs {
		var sb strings.Builder
		for _, child := range c.Paragraphs[i].Children {
			if child.Run != nil {
				sb.WriteString(runText(child.Run))
			}
			if child.Hyperlink != nil {
				for j := range child.Hyperlink.Runs {
					sb.WriteString(runText(&child.Hyperlink.Runs[j]))
				}
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			parts = append(parts, s)
		}
	}
	joined := strings.Join(parts, " ")
	return strings.ReplaceAll(joined, "\n", " ")
}
