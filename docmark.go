// Package docmark converts word-processing packages to markdown and
// back, and performs structural mutations such as image stripping.
//
// Basic usage:
//
//	md, images, warnings, err := docmark.Open("report.docx").Markdown()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docmark.FormatWarnings(warnings))
//	}
//
// Building a package from markdown:
//
//	data, _, err := docmark.FromMarkdown(source).
//	    ImagesDir("assets").
//	    Package()
//
// For advanced use cases, the lower-level opc, docx, assets, and
// markdown packages are also available.
package docmark

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tsawler/docmark/assets"
	"github.com/tsawler/docmark/docx"
	"github.com/tsawler/docmark/markdown"
	"github.com/tsawler/docmark/model"
	"github.com/tsawler/docmark/opc"
)

// Version is the library version.
const Version = "1.2.0"

// FormatWarnings joins warnings into a single readable string.
func FormatWarnings(ws []model.Warning) string {
	return model.FormatWarnings(ws)
}

// Converter reads one package and exposes terminal conversion
// operations. Configure it fluently, then call Markdown, Tree, or
// StripImages.
type Converter struct {
	filename string
	data     []byte
}

// Open prepares a converter for a package file on disk. The file is
// read when a terminal operation runs.
//
// Example:
//
//	md, _, warnings, err := docmark.Open("notes.docx").Markdown()
func Open(filename string) *Converter {
	return &Converter{filename: filename}
}

// FromBytes prepares a converter for an in-memory package.
func FromBytes(data []byte) *Converter {
	return &Converter{data: data}
}

func (c *Converter) load() (*opc.Package, error) {
	data := c.data
	if data == nil {
		var err error
		data, err = os.ReadFile(c.filename)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.filename, err)
		}
		c.data = data
	}
	return opc.Load(data)
}

// Tree parses the package into its document tree without rendering.
func (c *Converter) Tree() (*model.Document, []model.Warning, error) {
	pkg, err := c.load()
	if err != nil {
		return nil, nil, err
	}
	return docx.Build(pkg)
}

// Markdown converts the package to markdown text. The returned map
// holds the extracted image assets keyed by the relative target path
// each image reference uses in the markdown, so callers can write the
// files next to the output.
func (c *Converter) Markdown() (string, map[string]assets.Asset, []model.Warning, error) {
	pkg, err := c.load()
	if err != nil {
		return "", nil, nil, err
	}

	tree, warnings, err := docx.Build(pkg)
	if err != nil {
		return "", nil, warnings, err
	}

	rels, err := docx.Relationships(pkg)
	if err != nil {
		return "", nil, warnings, err
	}

	byRelID, assetWarnings := assets.Extract(pkg, rels)
	warnings = append(warnings, assetWarnings...)

	markup, bridgeWarnings := markdown.ToMarkup(tree, byRelID)
	warnings = append(warnings, bridgeWarnings...)

	byTarget := make(map[string]assets.Asset, len(byRelID))
	for _, a := range byRelID {
		byTarget["images/"+a.Filename] = a
	}

	return markdown.Render(markup), byTarget, warnings, nil
}

// StripImages removes every image from the package: the drawing
// elements in the main content part, the image relationships, and the
// media parts they target. It returns the rewritten package bytes and
// the number of drawing elements removed.
//
// After stripping, the package holds zero image relationships and no
// orphaned media parts. Untouched parts are preserved byte-for-byte.
func (c *Converter) StripImages() ([]byte, int, error) {
	pkg, err := c.load()
	if err != nil {
		return nil, 0, err
	}

	docXML, _ := pkg.XMLPart(opc.PartDocument)
	stripped, _, removed := docx.StripDrawings(docXML)
	pkg.SetPart(opc.PartDocument, stripped)

	rels, err := docx.Relationships(pkg)
	if err != nil {
		return nil, 0, err
	}
	for _, rel := range rels.AllOfType(opc.RelImage) {
		pkg.RemovePart(opc.PartForTarget(rel.Target))
		rels.Remove(rel.ID)
	}
	for _, name := range pkg.PartNames() {
		if strings.HasPrefix(name, opc.MediaPrefix) {
			pkg.RemovePart(name)
		}
	}

	if pkg.Has(opc.PartDocumentRels) {
		relsData, err := rels.Marshal()
		if err != nil {
			return nil, 0, err
		}
		pkg.SetPart(opc.PartDocumentRels, relsData)
	}

	out, err := pkg.Save()
	if err != nil {
		return nil, 0, err
	}
	return out, removed, nil
}

// Builder assembles a package from markdown source.
type Builder struct {
	source   string
	resolver assets.Resolver
	dir      string
	fetcher  assets.Fetcher
	timeout  time.Duration
	captions bool
}

// FromMarkdown prepares a builder for markdown source text. Image
// references resolve relative to the current directory unless
// ImagesDir or Resolver overrides that.
func FromMarkdown(source string) *Builder {
	return &Builder{source: source}
}

// ImagesDir sets the directory local image references resolve against.
func (b *Builder) ImagesDir(dir string) *Builder {
	b.dir = dir
	return b
}

// FetchRemote enables downloading of http(s) image references with
// the given timeout. A zero timeout uses the default.
func (b *Builder) FetchRemote(timeout time.Duration) *Builder {
	b.fetcher = assets.NewHTTPFetcher(timeout)
	b.timeout = timeout
	return b
}

// Resolver replaces the default image resolution entirely.
func (b *Builder) Resolver(r assets.Resolver) *Builder {
	b.resolver = r
	return b
}

// Captions adds a caption paragraph under each embedded image that
// has alt text.
func (b *Builder) Captions() *Builder {
	b.captions = true
	return b
}

// Package parses the markdown and emits a complete package.
func (b *Builder) Package() ([]byte, []model.Warning, error) {
	doc, err := markdown.Parse(b.source)
	if err != nil {
		return nil, nil, err
	}

	resolver := b.resolver
	if resolver == nil {
		dir := b.dir
		if dir == "" {
			dir = "."
		}
		resolver = assets.NewDefaultResolver(dir, b.fetcher)
	}

	return docx.WritePackageWithOptions(doc, resolver, docx.WriteOptions{
		AddCaptions: b.captions,
	})
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
