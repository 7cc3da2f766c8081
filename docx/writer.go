package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsawler/docmark/assets"
	"github.com/tsawler/docmark/model"
	"github.com/tsawler/docmark/opc"
)

// Numbering ids emitted by the writer: one bullet definition, one
// decimal definition, shared by all lists at every depth.
const (
	numIDBullet  = 1
	numIDDecimal = 2
)

// EMU conversions for image extents. OOXML measures drawings in
// English Metric Units: 9525 per pixel at 96 DPI.
const (
	emuPerPixel = 9525
	maxExtentCX = 5486400 // 6 inches, the body width used for oversized images
)

// WriteOptions control optional writer behavior.
type WriteOptions struct {
	// AddCaptions emits a caption paragraph below each image that
	// carries alt text.
	AddCaptions bool
}

// WritePackage serializes a document tree into a complete
// WordprocessingML package. Image blocks are resolved through the
// given resolver; a target that cannot be resolved degrades to a
// plain paragraph holding the alt text, with a warning.
func WritePackage(doc *model.Document, resolver assets.Resolver) ([]byte, []model.Warning, error) {
	return WritePackageWithOptions(doc, resolver, WriteOptions{})
}

// WritePackageWithOptions is WritePackage with explicit options.
func WritePackageWithOptions(doc *model.Document, resolver assets.Resolver, opts WriteOptions) ([]byte, []model.Warning, error) {
	w := &writer{
		pkg:      opc.New(),
		rels:     opc.NewRelationships(),
		ct:       opc.NewContentTypes(),
		resolver: resolver,
		opts:     opts,
	}
	return w.write(doc)
}

type writer struct {
	pkg      *opc.Package
	rels     *opc.Relationships
	ct       *opc.ContentTypes
	resolver assets.Resolver
	opts     WriteOptions
	body     bytes.Buffer
	drawing  int // docPr id counter
	warnings []model.Warning
}

func (w *writer) write(doc *model.Document) ([]byte, []model.Warning, error) {
	for _, b := range doc.Blocks {
		switch block := b.(type) {
		case *model.Heading:
			w.writeStyledParagraph(fmt.Sprintf("Heading%d", clampLevel(block.Level)), block.Runs)
		case *model.Paragraph:
			w.writeStyledParagraph("", block.Runs)
		case *model.Quote:
			w.writeStyledParagraph("Quote", block.Runs)
		case *model.CodeBlock:
			w.writeCodeBlock(block)
		case *model.ListItem:
			w.writeListItem(block)
		case *model.Table:
			w.writeTable(block)
		case *model.ImageBlock:
			w.writeImage(block)
		default:
			w.warnings = append(w.warnings, model.Warningf(model.WarnUnknownBlock,
				"skipping block of kind %s", b.Kind()))
		}
	}

	w.pkg.SetPart(opc.PartDocument, w.documentPart())
	w.pkg.SetPart(opc.PartStyles, []byte(stylesPart))
	w.pkg.SetPart(opc.PartNumbering, numberingPart())
	w.pkg.SetPart(opc.PartRootRels, []byte(rootRelsPart))

	relsData, err := w.rels.Marshal()
	if err != nil {
		return nil, w.warnings, err
	}
	w.pkg.SetPart(opc.PartDocumentRels, relsData)

	w.ct.AddOverride("/word/document.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml")
	w.ct.AddOverride("/word/styles.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml")
	w.ct.AddOverride("/word/numbering.xml",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml")
	ctData, err := w.ct.Marshal()
	if err != nil {
		return nil, w.warnings, err
	}
	w.pkg.SetPart(opc.PartContentTypes, ctData)

	data, err := w.pkg.Save()
	if err != nil {
		return nil, w.warnings, err
	}
	return data, w.warnings, nil
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

// documentPart assembles word/document.xml around the accumulated body.
func (w *writer) documentPart() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<w:document xmlns:w="` + nsW + `"` +
		` xmlns:r="` + nsR + `"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	buf.WriteString(`<w:body>`)
	buf.Write(w.body.Bytes())
	buf.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>`)
	buf.WriteString(`</w:body></w:document>`)
	return buf.Bytes()
}

// writeStyledParagraph emits a paragraph with an optional paragraph
// style and the given runs.
func (w *writer) writeStyledParagraph(style string, runs []model.Run) {
	w.body.WriteString(`<w:p>`)
	if style != "" {
		fmt.Fprintf(&w.body, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	w.writeRuns(runs)
	w.body.WriteString(`</w:p>`)
}

func (w *writer) writeListItem(item *model.ListItem) {
	numID := numIDBullet
	if item.Ordered {
		numID = numIDDecimal
	}
	w.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/>`)
	fmt.Fprintf(&w.body, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr>`,
		item.Depth, numID)
	w.writeRuns(item.Runs)
	w.body.WriteString(`</w:p>`)
}

func (w *writer) writeCodeBlock(block *model.CodeBlock) {
	w.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="Code"/></w:pPr>`)
	lines := strings.Split(strings.TrimRight(block.Text, "\n"), "\n")
	w.body.WriteString(`<w:r><w:rPr><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/></w:rPr>`)
	for i, line := range lines {
		if i > 0 {
			w.body.WriteString(`<w:br/>`)
		}
		w.writeText(line)
	}
	w.body.WriteString(`</w:r></w:p>`)
}

// writeRuns emits runs, wrapping linked runs in hyperlink elements
// with freshly allocated relationships.
func (w *writer) writeRuns(runs []model.Run) {
	for _, r := range runs {
		if r.Link != "" {
			id := w.rels.Insert(opc.RelHyperlink, r.Link)
			fmt.Fprintf(&w.body, `<w:hyperlink r:id="%s">`, id)
			w.writeRun(r)
			w.body.WriteString(`</w:hyperlink>`)
			continue
		}
		w.writeRun(r)
	}
}

func (w *writer) writeRun(r model.Run) {
	w.body.WriteString(`<w:r>`)

	var props bytes.Buffer
	if r.Bold {
		props.WriteString(`<w:b/>`)
	}
	if r.Italic {
		props.WriteString(`<w:i/>`)
	}
	if r.Underline || r.Link != "" {
		props.WriteString(`<w:u w:val="single"/>`)
	}
	if r.Code {
		props.WriteString(`<w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/>`)
	}
	if props.Len() > 0 {
		w.body.WriteString(`<w:rPr>`)
		w.body.Write(props.Bytes())
		w.body.WriteString(`</w:rPr>`)
	}

	lines := strings.Split(r.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			w.body.WriteString(`<w:br/>`)
		}
		w.writeText(line)
	}
	w.body.WriteString(`</w:r>`)
}

// writeText emits a <w:t> element with whitespace preserved.
func (w *writer) writeText(text string) {
	w.body.WriteString(`<w:t xml:space="preserve">`)
	xml.EscapeText(&w.body, []byte(text))
	w.body.WriteString(`</w:t>`)
}

func (w *writer) writeTable(t *model.Table) {
	if len(t.Rows) == 0 {
		return
	}
	w.body.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/>` +
		`<w:tblW w:w="0" w:type="auto"/></w:tblPr>`)
	for _, row := range t.Rows {
		w.body.WriteString(`<w:tr>`)
		for _, cell := range row {
			w.body.WriteString(`<w:tc><w:p><w:r>`)
			w.writeText(cell)
			w.body.WriteString(`</w:r></w:p></w:tc>`)
		}
		w.body.WriteString(`</w:tr>`)
	}
	w.body.WriteString(`</w:tbl>`)
}

// writeImage resolves the block's target, embeds the asset, and emits
// an inline drawing. Resolution failure keeps the alt text as a plain
// paragraph; no placeholder bytes are fabricated.
func (w *writer) writeImage(img *model.ImageBlock) {
	if w.resolver == nil || img.Target == "" {
		w.degradeImage(img)
		return
	}
	asset, err := w.resolver.Resolve(img.Target)
	if err != nil {
		w.warnings = append(w.warnings, model.Warningf(model.WarnFetchFailed,
			"image %s: %v", img.Target, err))
		w.degradeImage(img)
		return
	}

	relID := assets.Embed(w.pkg, w.rels, w.ct, asset)

	cx, cy := imageExtent(asset.Data)
	w.drawing++
	alt := img.AltText

	w.body.WriteString(`<w:p><w:r><w:drawing>`)
	fmt.Fprintf(&w.body, `<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`, cx, cy)
	fmt.Fprintf(&w.body, `<wp:docPr id="%d" name="%s" descr="%s"/>`,
		w.drawing, escapeAttr(asset.Filename), escapeAttr(alt))
	w.body.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
		`<pic:pic><pic:nvPicPr>`)
	fmt.Fprintf(&w.body, `<pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`,
		w.drawing, escapeAttr(asset.Filename))
	fmt.Fprintf(&w.body, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, relID)
	fmt.Fprintf(&w.body, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`, cx, cy)
	w.body.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)

	if w.opts.AddCaptions && alt != "" {
		w.writeStyledParagraph("Caption", []model.Run{{Text: alt}})
	}
}

// degradeImage emits the alt text as a plain paragraph when the asset
// is unavailable.
func (w *writer) degradeImage(img *model.ImageBlock) {
	alt := img.AltText
	if alt == "" {
		alt = img.Target
	}
	if alt == "" {
		return
	}
	w.writeStyledParagraph("", []model.Run{{Text: alt}})
}

// imageExtent derives drawing extents in EMUs from the image pixel
// size, scaled down proportionally when wider than the page body.
func imageExtent(data []byte) (int, int) {
	width, height, ok := assets.Dimensions(data)
	if !ok || width <= 0 || height <= 0 {
		return maxExtentCX, maxExtentCX * 2 / 3
	}
	cx := width * emuPerPixel
	cy := height * emuPerPixel
	if cx > maxExtentCX {
		cy = cy * maxExtentCX / cx
		cx = maxExtentCX
	}
	return cx, cy
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// rootRelsPart is the package-level relationships part, pointing at
// the main content part.
const rootRelsPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// stylesPart defines the styles the writer references: headings,
// quote, code, list paragraphs, and image captions.
const stylesPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading4"><w:name w:val="heading 4"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="3"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading5"><w:name w:val="heading 5"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="4"/></w:pPr><w:rPr><w:b/><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading6"><w:name w:val="heading 6"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="5"/></w:pPr><w:rPr><w:b/><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/><w:basedOn w:val="Normal"/><w:rPr><w:rFonts w:ascii="Courier New" w:hAnsi="Courier New"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="caption"/><w:basedOn w:val="Normal"/><w:rPr><w:i/><w:sz w:val="18"/></w:rPr></w:style>
</w:styles>`

// numberingPart generates word/numbering.xml with one bullet and one
// decimal definition covering nine nesting levels each.
func numberingPart() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.WriteString(`<w:numbering xmlns:w="` + nsW + `">`)

	buf.WriteString(`<w:abstractNum w:abstractNumId="0">`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&buf, `<w:lvl w:ilvl="%d"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/>`+
			`<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`, lvl, 720*(lvl+1))
	}
	buf.WriteString(`</w:abstractNum>`)

	buf.WriteString(`<w:abstractNum w:abstractNumId="1">`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&buf, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%%%d."/>`+
			`<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`, lvl, lvl+1, 720*(lvl+1))
	}
	buf.WriteString(`</w:abstractNum>`)

	fmt.Fprintf(&buf, `<w:num w:numId="%d"><w:abstractNumId w:val="0"/></w:num>`, numIDBullet)
	fmt.Fprintf(&buf, `<w:num w:numId="%d"><w:abstractNumId w:val="1"/></w:num>`, numIDDecimal)
	buf.WriteString(`</w:numbering>`)
	return buf.Bytes()
}
