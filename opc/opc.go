// Package opc reads and writes the Open Packaging Conventions ZIP
// container that DOCX files are built on. A Package is an ordered
// mapping of part path to raw bytes; parts the caller never touches are
// written back byte-for-byte on Save.
package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Well-known part paths inside a WordprocessingML package.
const (
	PartContentTypes = "[Content_Types].xml"
	PartRootRels     = "_rels/.rels"
	PartDocument     = "word/document.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	PartStyles       = "word/styles.xml"
	PartNumbering    = "word/numbering.xml"

	// MediaPrefix is the directory that holds binary image parts.
	MediaPrefix = "word/media/"
)

// Sentinel errors for the package layer. Callers test with errors.Is.
var (
	// ErrPackageCorrupt indicates the archive could not be read or a
	// required XML part is malformed.
	ErrPackageCorrupt = errors.New("package corrupt")

	// ErrMissingPart indicates a required part is absent from the archive.
	ErrMissingPart = errors.New("missing required part")
)

// part is a single named entry in the container.
type part struct {
	name string
	data []byte
}

// Package holds all parts of one document container in archive order.
type Package struct {
	parts []*part
	index map[string]*part
}

// requiredParts must exist for Load to succeed.
var requiredParts = []string{
	PartContentTypes,
	PartRootRels,
	PartDocument,
}

// New returns an empty package for building a document from scratch.
// The caller is responsible for adding the required parts before Save.
func New() *Package {
	return &Package{index: make(map[string]*part)}
}

// Load parses a ZIP container and validates the minimal required part
// set. It returns ErrPackageCorrupt for unreadable archives and
// ErrMissingPart when a required part is absent.
func Load(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackageCorrupt, err)
	}

	p := &Package{index: make(map[string]*part, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", ErrPackageCorrupt, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrPackageCorrupt, f.Name, err)
		}
		p.add(f.Name, content)
	}

	for _, name := range requiredParts {
		if _, ok := p.index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
		}
	}

	return p, nil
}

func (p *Package) add(name string, data []byte) {
	pt := &part{name: name, data: data}
	p.parts = append(p.parts, pt)
	p.index[name] = pt
}

// Part returns the raw bytes of a part, or false when absent.
func (p *Package) Part(name string) ([]byte, bool) {
	pt, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return pt.data, true
}

// Has reports whether a part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// SetPart replaces the bytes of an existing part or appends a new one
// at the end of the archive order.
func (p *Package) SetPart(name string, data []byte) {
	if pt, ok := p.index[name]; ok {
		pt.data = data
		return
	}
	p.add(name, data)
}

// RemovePart deletes a part. Removing an absent part is a no-op.
func (p *Package) RemovePart(name string) {
	pt, ok := p.index[name]
	if !ok {
		return
	}
	delete(p.index, name)
	for i, cur := range p.parts {
		if cur == pt {
			p.parts = append(p.parts[:i], p.parts[i+1:]...)
			break
		}
	}
}

// PartNames returns all part paths in archive order.
func (p *Package) PartNames() []string {
	names := make([]string, len(p.parts))
	for i, pt := range p.parts {
		names[i] = pt.name
	}
	return names
}

// Save serializes the container. Parts keep their original order;
// untouched parts are written back with their original bytes.
func (p *Package) Save() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, pt := range p.parts {
		fw, err := w.Create(pt.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", pt.name, err)
		}
		if _, err := fw.Write(pt.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", pt.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// PartForTarget converts a relationship target scoped to the main
// content part into a package part path. Targets are relative to the
// word/ directory unless they start with a slash.
func PartForTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean("word/" + target)
}

// XMLPart returns a part's bytes normalized to UTF-8 for XML parsing.
// UTF-16 parts (detected by BOM) are transcoded; everything else is
// returned as stored.
func (p *Package) XMLPart(name string) ([]byte, bool) {
	data, ok := p.Part(name)
	if !ok {
		return nil, false
	}
	decoded, err := DecodeXML(data)
	if err != nil {
		return data, true
	}
	return decoded, true
}
