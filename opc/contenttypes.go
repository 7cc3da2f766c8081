package opc

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const contentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"

// ContentTypes is the package content-type table: per-extension
// defaults plus per-part overrides.
type ContentTypes struct {
	defaults  []ctDefault
	overrides []ctOverride
	byExt     map[string]string
}

type contentTypesXML struct {
	XMLName   xml.Name     `xml:"Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ParseContentTypes parses the [Content_Types].xml part of a package.
func ParseContentTypes(p *Package) (*ContentTypes, error) {
	data, ok := p.XMLPart(PartContentTypes)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, PartContentTypes)
	}

	var raw contentTypesXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: content types: %v", ErrPackageCorrupt, err)
	}

	ct := &ContentTypes{
		defaults:  raw.Defaults,
		overrides: raw.Overrides,
		byExt:     make(map[string]string, len(raw.Defaults)),
	}
	for _, d := range raw.Defaults {
		ct.byExt[strings.ToLower(d.Extension)] = d.ContentType
	}
	return ct, nil
}

// NewContentTypes returns a table seeded with the defaults every
// WordprocessingML package carries.
func NewContentTypes() *ContentTypes {
	ct := &ContentTypes{byExt: make(map[string]string)}
	ct.EnsureDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
	ct.EnsureDefault("xml", "application/xml")
	return ct
}

// TypeForExtension returns the default MIME type registered for an
// extension (without leading dot), or false when unregistered.
func (ct *ContentTypes) TypeForExtension(ext string) (string, bool) {
	t, ok := ct.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return t, ok
}

// EnsureDefault registers a default MIME type for an extension if one
// is not already present.
func (ct *ContentTypes) EnsureDefault(ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, ok := ct.byExt[ext]; ok {
		return
	}
	ct.byExt[ext] = contentType
	ct.defaults = append(ct.defaults, ctDefault{Extension: ext, ContentType: contentType})
}

// AddOverride registers a per-part content type.
func (ct *ContentTypes) AddOverride(partName, contentType string) {
	for _, o := range ct.overrides {
		if o.PartName == partName {
			return
		}
	}
	ct.overrides = append(ct.overrides, ctOverride{PartName: partName, ContentType: contentType})
}

// Marshal serializes the table back to [Content_Types].xml bytes.
func (ct *ContentTypes) Marshal() ([]byte, error) {
	raw := contentTypesXML{
		XMLName:   xml.Name{Space: contentTypesNamespace, Local: "Types"},
		Defaults:  ct.defaults,
		Overrides: ct.overrides,
	}
	body, err := xml.Marshal(&raw)
	if err != nil {
		return nil, fmt.Errorf("marshaling content types: %w", err)
	}
	out := append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"), body...)
	return out, nil
}
