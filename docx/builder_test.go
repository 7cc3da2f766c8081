package docx

import (
	"strings"
	"testing"

	"github.com/tsawler/docmark/model"
	"github.com/tsawler/docmark/opc"
)

const testDocHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
            xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
            xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
            xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
<w:body>`

const testDocFooter = `</w:body></w:document>`

// testPackage assembles an in-memory package around a document body
// fragment. Extra parts (styles, numbering, rels, media) are added
// verbatim.
func testPackage(t *testing.T, body string, extra map[string]string) *opc.Package {
	t.Helper()

	pkg := opc.New()
	pkg.SetPart(opc.PartContentTypes, []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	pkg.SetPart(opc.PartRootRels, []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`))
	pkg.SetPart(opc.PartDocument, []byte(testDocHeader+body+testDocFooter))

	for name, data := range extra {
		pkg.SetPart(name, []byte(data))
	}
	return pkg
}

const testStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/></w:style>
  <w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/></w:style>
  <w:style w:type="paragraph" w:styleId="Code"><w:name w:val="Code"/></w:style>
  <w:style w:type="paragraph" w:styleId="ListBullet">
    <w:name w:val="List Bullet"/>
    <w:pPr><w:numPr><w:numId w:val="1"/></w:numPr></w:pPr>
  </w:style>
</w:styles>`

func TestBuildParagraphRuns(t *testing.T) {
	body := `<w:p>
  <w:r><w:t>plain </w:t></w:r>
  <w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>
  <w:r><w:rPr><w:i/><w:u w:val="single"/></w:rPr><w:t> styled</w:t></w:r>
  <w:r><w:rPr><w:b w:val="false"/></w:rPr><w:t> negated</w:t></w:r>
</w:p>`
	pkg := testPackage(t, body, nil)

	doc, warnings, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("len(Blocks) = %d, want 1", len(doc.Blocks))
	}

	p, ok := doc.Blocks[0].(*model.Paragraph)
	if !ok {
		t.Fatalf("block = %T, want *Paragraph", doc.Blocks[0])
	}
	if len(p.Runs) != 4 {
		t.Fatalf("len(Runs) = %d, want 4", len(p.Runs))
	}
	if p.Runs[0].Bold || p.Runs[0].Italic {
		t.Errorf("run 0 unexpectedly styled: %+v", p.Runs[0])
	}
	if !p.Runs[1].Bold {
		t.Error("run 1 should be bold")
	}
	if !p.Runs[2].Italic || !p.Runs[2].Underline {
		t.Errorf("run 2 = %+v, want italic underline", p.Runs[2])
	}
	if p.Runs[3].Bold {
		t.Error(`run 3 has <w:b w:val="false"/> and must not be bold`)
	}
}

func TestBuildHeadingsFromStyles(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Top</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Sub</w:t></w:r></w:p>
<w:p><w:r><w:t>Body text.</w:t></w:r></w:p>`
	pkg := testPackage(t, body, map[string]string{opc.PartStyles: testStyles})

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(doc.Blocks))
	}

	h1, ok := doc.Blocks[0].(*model.Heading)
	if !ok || h1.Level != 1 || model.PlainText(h1.Runs) != "Top" {
		t.Errorf("block 0 = %#v, want level-1 heading Top", doc.Blocks[0])
	}
	h2, ok := doc.Blocks[1].(*model.Heading)
	if !ok || h2.Level != 2 {
		t.Errorf("block 1 = %#v, want level-2 heading", doc.Blocks[1])
	}
	if _, ok := doc.Blocks[2].(*model.Paragraph); !ok {
		t.Errorf("block 2 = %T, want *Paragraph", doc.Blocks[2])
	}
}

func TestBuildQuoteAndCode(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr><w:r><w:t>wise words</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Code"/></w:pPr><w:r><w:t>x := 1</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:rFonts w:ascii="Courier New"/></w:rPr><w:t>inline code</w:t></w:r></w:p>`
	pkg := testPackage(t, body, map[string]string{opc.PartStyles: testStyles})

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if q, ok := doc.Blocks[0].(*model.Quote); !ok || model.PlainText(q.Runs) != "wise words" {
		t.Errorf("block 0 = %#v, want quote", doc.Blocks[0])
	}
	if c, ok := doc.Blocks[1].(*model.CodeBlock); !ok || c.Text != "x := 1" {
		t.Errorf("block 1 = %#v, want code block", doc.Blocks[1])
	}
	p, ok := doc.Blocks[2].(*model.Paragraph)
	if !ok || !p.Runs[0].Code {
		t.Errorf("block 2 = %#v, want paragraph with code run", doc.Blocks[2])
	}
}

func TestBuildLists(t *testing.T) {
	body := `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>bullet item</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="2"/></w:numPr></w:pPr><w:r><w:t>nested ordered</w:t></w:r></w:p>`
	numbering := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>
  <w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="1"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`
	pkg := testPackage(t, body, map[string]string{opc.PartNumbering: numbering})

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("len(Blocks) = %d, want 2", len(doc.Blocks))
	}

	first, ok := doc.Blocks[0].(*model.ListItem)
	if !ok || first.Ordered || first.Depth != 0 {
		t.Errorf("block 0 = %#v, want depth-0 bullet item", doc.Blocks[0])
	}
	second, ok := doc.Blocks[1].(*model.ListItem)
	if !ok || !second.Ordered || second.Depth != 1 {
		t.Errorf("block 1 = %#v, want depth-1 ordered item", doc.Blocks[1])
	}
}

func TestBuildListFromStyleNumbering(t *testing.T) {
	// The paragraph has no numPr of its own; the style definition
	// carries it. The style name decides bullet vs ordered.
	body := `<w:p><w:pPr><w:pStyle w:val="ListBullet"/></w:pPr><w:r><w:t>styled item</w:t></w:r></w:p>`
	pkg := testPackage(t, body, map[string]string{opc.PartStyles: testStyles})

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	item, ok := doc.Blocks[0].(*model.ListItem)
	if !ok {
		t.Fatalf("block = %T, want *ListItem", doc.Blocks[0])
	}
	if item.Ordered {
		t.Error(`style "List Bullet" should yield an unordered item`)
	}
}

func TestBuildHyperlink(t *testing.T) {
	body := `<w:p><w:hyperlink r:id="rId2"><w:r><w:t>example</w:t></w:r></w:hyperlink></w:p>
<w:p><w:hyperlink w:anchor="section1"><w:r><w:t>internal</w:t></w:r></w:hyperlink></w:p>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`
	pkg := testPackage(t, body, map[string]string{opc.PartDocumentRels: rels})

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	p := doc.Blocks[0].(*model.Paragraph)
	if p.Runs[0].Link != "https://example.com" {
		t.Errorf("link = %q, want https://example.com", p.Runs[0].Link)
	}
	internal := doc.Blocks[1].(*model.Paragraph)
	if internal.Runs[0].Link != "" {
		t.Errorf("internal anchor produced link %q", internal.Runs[0].Link)
	}
}

const testDrawing = `<w:p><w:r><w:t>See figure.</w:t></w:r>
<w:r><w:drawing><wp:inline>
  <wp:docPr id="1" name="Picture 1" descr="A bar chart"/>
  <a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed="rId5"/></pic:blipFill></pic:pic></a:graphicData></a:graphic>
</wp:inline></w:drawing></w:r></w:p>`

const testImageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

func TestBuildImage(t *testing.T) {
	pkg := testPackage(t, testDrawing, map[string]string{
		opc.PartDocumentRels:    testImageRels,
		"word/media/image1.png": "fake png bytes",
	})

	doc, warnings, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("len(Blocks) = %d, want paragraph + image", len(doc.Blocks))
	}

	img, ok := doc.Blocks[1].(*model.ImageBlock)
	if !ok {
		t.Fatalf("block 1 = %T, want *ImageBlock", doc.Blocks[1])
	}
	if img.RelID != "rId5" {
		t.Errorf("RelID = %q, want rId5", img.RelID)
	}
	if img.AltText != "A bar chart" {
		t.Errorf("AltText = %q, want descr value", img.AltText)
	}
}

func TestBuildImageDangling(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]string
	}{
		{"no relationship", nil},
		{"missing media part", map[string]string{opc.PartDocumentRels: testImageRels}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := testPackage(t, testDrawing, tt.extra)

			doc, warnings, err := Build(pkg)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if len(warnings) != 1 || warnings[0].Code != model.WarnDanglingImage {
				t.Errorf("warnings = %v, want one dangling-image warning", warnings)
			}
			// The text survives; only the image block is dropped.
			if len(doc.Blocks) != 1 {
				t.Errorf("len(Blocks) = %d, want 1", len(doc.Blocks))
			}
			if doc.Blocks[0].Kind() != model.KindParagraph {
				t.Errorf("block = %v, want paragraph", doc.Blocks[0].Kind())
			}
		})
	}
}

func TestBuildTable(t *testing.T) {
	body := `<w:tbl>
  <w:tr><w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Age</w:t></w:r></w:p></w:tc></w:tr>
  <w:tr><w:tc><w:p><w:r><w:t>Ada</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>36</w:t></w:r></w:p><w:p><w:r><w:t>approx</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>`
	pkg := testPackage(t, body, nil)

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	table, ok := doc.Blocks[0].(*model.Table)
	if !ok {
		t.Fatalf("block = %T, want *Table", doc.Blocks[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][0] != "Name" || table.Rows[0][1] != "Age" {
		t.Errorf("header row = %v", table.Rows[0])
	}
	// Multi-paragraph cells join with spaces.
	if table.Rows[1][1] != "36 approx" {
		t.Errorf("cell = %q, want %q", table.Rows[1][1], "36 approx")
	}
}

func TestBuildTabsAndBreaks(t *testing.T) {
	body := `<w:p><w:r><w:t>a</w:t><w:tab/><w:br/></w:r></w:p>`
	pkg := testPackage(t, body, nil)

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := doc.Blocks[0].(*model.Paragraph)
	text := model.PlainText(p.Runs)
	if !strings.Contains(text, "\t") || !strings.Contains(text, "\n") {
		t.Errorf("text = %q, want tab and break preserved", text)
	}
}

func TestBuildEmptyParagraphsDropped(t *testing.T) {
	body := `<w:p/><w:p><w:r><w:t>   </w:t></w:r></w:p><w:p><w:r><w:t>kept</w:t></w:r></w:p>`
	pkg := testPackage(t, body, nil)

	doc, _, err := Build(pkg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Errorf("len(Blocks) = %d, want 1 (blank paragraphs dropped)", len(doc.Blocks))
	}
}

func TestBuildMissingDocument(t *testing.T) {
	pkg := opc.New()
	if _, _, err := Build(pkg); err == nil {
		t.Fatal("Build() on empty package succeeded, want error")
	}
}
