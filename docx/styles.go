package docx

import "encoding/xml"

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a single style definition.
type styleDefXML struct {
	Type    string            `xml:"type,attr"`
	StyleID string            `xml:"styleId,attr"`
	Name    valXML            `xml:"name"`
	BasedOn valXML            `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

// lvlXML represents a single numbering level.
type lvlXML struct {
	ILvl   string `xml:"ilvl,attr"`
	NumFmt valXML `xml:"numFmt"`
}

// numXML binds a document-visible numbering id to an abstract
// definition.
type numXML struct {
	NumID         string `xml:"numId,attr"`
	AbstractNumID valXML `xml:"abstractNumId"`
}
