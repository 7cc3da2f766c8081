package docx

import (
	"encoding/xml"
	"io"
)

// XML namespaces used in DOCX parts.
const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Paragraphs and tables must be
// kept in document order, which encoding/xml's field-per-tag decoding
// loses, so the body decodes its children by hand.
type bodyXML struct {
	Elements []bodyElement
}

// bodyElement is a single ordered child of the body: exactly one of
// Paragraph or Table is set.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// UnmarshalXML decodes body children in document order.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Paragraph: &p})
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Table: &tbl})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>). Runs and
// hyperlinks are interleaved in document order, so children decode by
// hand as well.
type paragraphXML struct {
	Properties paragraphPropsXML
	Children   []paragraphChild
}

// paragraphChild is a single ordered child of a paragraph: exactly one
// of Run or Hyperlink is set.
type paragraphChild struct {
	Run       *runXML
	Hyperlink *hyperlinkXML
}

// UnmarshalXML decodes paragraph children in document order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Children = append(p.Children, paragraphChild{Run: &r})
			case "hyperlink":
				var h hyperlinkXML
				if err := d.DecodeElement(&h, &t); err != nil {
					return err
				}
				p.Children = append(p.Children, paragraphChild{Hyperlink: &h})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style      styleRefXML       `xml:"pStyle"`
	NumPr      numberingPropsXML `xml:"numPr"`
	OutlineLvl outlineLvlXML     `xml:"outlineLvl"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// numberingPropsXML represents numbering properties for lists.
type numberingPropsXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

// valXML is the common single-attribute value element.
type valXML struct {
	Val string `xml:"val,attr"`
}

// outlineLvlXML represents outline level.
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Properties runPropsXML  `xml:"rPr"`
	Text       []textXML    `xml:"t"`
	Tabs       []tabXML     `xml:"tab"`
	Breaks     []breakXML   `xml:"br"`
	Drawings   []drawingXML `xml:"drawing"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
	Font      fontXML      `xml:"rFonts"`
}

// boolXML represents a presence-based boolean property. The element
// being present means true unless val says otherwise.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// isSet reports whether the property is present and not negated.
func (b boolXML) isSet() bool {
	return b.XMLName.Local != "" && b.Val != "false" && b.Val != "0"
}

// underlineXML represents underline style.
type underlineXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"`
	Value string `xml:",chardata"`
}

// tabXML represents a tab character.
type tabXML struct{}

// breakXML represents a line or page break.
type breakXML struct {
	Type string `xml:"type,attr"`
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline *pictureXML `xml:"inline"`
	Anchor *pictureXML `xml:"anchor"`
}

// pictureXML covers both inline and anchored images.
type pictureXML struct {
	DocPr docPrXML `xml:"docPr"`
	Blip  *blipXML `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// docPrXML carries the image's document properties, including alt text.
type docPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

// blipXML references an image asset by relationship id.
type blipXML struct {
	Embed string `xml:"embed,attr"`
}

// hyperlinkXML represents a hyperlink wrapping one or more runs.
type hyperlinkXML struct {
	ID     string   `xml:"id,attr"`
	Anchor string   `xml:"anchor,attr"`
	Runs   []runXML `xml:"r"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}
