// Package assets manages the binary image assets of a document
// package: extraction, embedding, deduplicated naming, and removal
// kept in lockstep with the relationship graph.
package assets

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/tsawler/docmark/model"
	"github.com/tsawler/docmark/opc"
)

// ErrDanglingReference indicates an asset was removed while the tree
// still referenced it. This is a contract violation: callers must
// remove tree references before releasing the asset.
var ErrDanglingReference = errors.New("asset still referenced by document tree")

// Asset is a binary image resource owned by the package.
type Asset struct {
	Filename    string
	Data        []byte
	ContentType string
	RelID       string
}

// Extract collects every image asset referenced by the relationship
// set, keyed by relationship id. Relationships whose media part is
// absent produce a warning and no entry; they are never fabricated.
func Extract(pkg *opc.Package, rels *opc.Relationships) (map[string]Asset, []model.Warning) {
	out := make(map[string]Asset)
	var warnings []model.Warning

	for _, rel := range rels.AllOfType(opc.RelImage) {
		partName := opc.PartForTarget(rel.Target)
		data, ok := pkg.Part(partName)
		if !ok {
			warnings = append(warnings, model.Warningf(model.WarnMissingAsset,
				"relationship %s targets missing part %s", rel.ID, partName))
			continue
		}
		filename := path.Base(rel.Target)
		out[rel.ID] = Asset{
			Filename:    filename,
			Data:        data,
			ContentType: Detect(data, filename),
			RelID:       rel.ID,
		}
	}

	return out, warnings
}

// Embed writes an asset into the package media directory, registers
// its content type, and allocates an image relationship for it. The
// allocated relationship id is returned.
//
// Filename collisions resolve by suffixing a monotonically increasing
// counter before the extension.
func Embed(pkg *opc.Package, rels *opc.Relationships, ct *opc.ContentTypes, a Asset) string {
	filename := a.Filename
	if filename == "" {
		filename = "image" + ExtensionForType(a.ContentType)
	}

	name := filename
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for n := 1; pkg.Has(opc.MediaPrefix + name); n++ {
		name = fmt.Sprintf("%s%d%s", base, n, ext)
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = Detect(a.Data, name)
	}

	pkg.SetPart(opc.MediaPrefix+name, a.Data)
	ct.EnsureDefault(strings.TrimPrefix(path.Ext(name), "."), contentType)
	return rels.Insert(opc.RelImage, "media/"+name)
}

// Remove releases one image asset: it deletes the media part and the
// relationship. The document tree must no longer reference the id;
// a live reference aborts with ErrDanglingReference and leaves the
// package untouched.
func Remove(pkg *opc.Package, rels *opc.Relationships, tree *model.Document, relID string) error {
	if tree != nil {
		for _, b := range tree.Blocks {
			if img, ok := b.(*model.ImageBlock); ok && img.RelID == relID {
				return fmt.Errorf("%w: %s", ErrDanglingReference, relID)
			}
		}
	}

	if rel, ok := rels.Resolve(relID); ok {
		pkg.RemovePart(opc.PartForTarget(rel.Target))
	}
	rels.Remove(relID)
	return nil
}
