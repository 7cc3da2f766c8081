package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"reflect"
	"testing"
)

const minimalContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const minimalRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const minimalDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>Hello</w:t></w:r></w:p></w:body>
</w:document>`

// buildArchive zips parts in the given order for test fixtures.
func buildArchive(t *testing.T, parts [][2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p[0])
		if err != nil {
			t.Fatalf("creating %s: %v", p[0], err)
		}
		if _, err := w.Write([]byte(p[1])); err != nil {
			t.Fatalf("writing %s: %v", p[0], err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func minimalParts() [][2]string {
	return [][2]string{
		{PartContentTypes, minimalContentTypes},
		{PartRootRels, minimalRootRels},
		{PartDocument, minimalDocument},
	}
}

func TestLoad(t *testing.T) {
	data := buildArchive(t, minimalParts())

	pkg, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, name := range []string{PartContentTypes, PartRootRels, PartDocument} {
		if !pkg.Has(name) {
			t.Errorf("Has(%q) = false, want true", name)
		}
	}
}

func TestLoadCorrupt(t *testing.T) {
	_, err := Load([]byte("this is not a zip archive"))
	if !errors.Is(err, ErrPackageCorrupt) {
		t.Errorf("Load() error = %v, want ErrPackageCorrupt", err)
	}
}

func TestLoadMissingPart(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"no content types", PartContentTypes},
		{"no root rels", PartRootRels},
		{"no document", PartDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parts [][2]string
			for _, p := range minimalParts() {
				if p[0] != tt.omit {
					parts = append(parts, p)
				}
			}
			_, err := Load(buildArchive(t, parts))
			if !errors.Is(err, ErrMissingPart) {
				t.Errorf("Load() error = %v, want ErrMissingPart", err)
			}
		})
	}
}

func TestSavePreservesOrderAndBytes(t *testing.T) {
	parts := append(minimalParts(),
		[2]string{"word/media/image1.png", "\x89PNG\r\n\x1a\nfakedata"},
		[2]string{"word/styles.xml", "<styles/>"},
	)
	pkg, err := Load(buildArchive(t, parts))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out, err := pkg.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("reading saved archive: %v", err)
	}

	var gotNames []string
	for _, f := range zr.File {
		gotNames = append(gotNames, f.Name)
	}
	var wantNames []string
	for _, p := range parts {
		wantNames = append(wantNames, p[0])
	}
	if !reflect.DeepEqual(gotNames, wantNames) {
		t.Errorf("saved part order = %v, want %v", gotNames, wantNames)
	}

	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	got, _ := reloaded.Part("word/media/image1.png")
	if string(got) != "\x89PNG\r\n\x1a\nfakedata" {
		t.Errorf("untouched binary part changed after Save")
	}
}

func TestSetPartAndRemovePart(t *testing.T) {
	pkg, err := Load(buildArchive(t, minimalParts()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pkg.SetPart("word/media/chart.png", []byte("img"))
	if !pkg.Has("word/media/chart.png") {
		t.Fatal("new part missing after SetPart")
	}

	pkg.SetPart(PartDocument, []byte("<doc/>"))
	got, _ := pkg.Part(PartDocument)
	if string(got) != "<doc/>" {
		t.Errorf("Part() after replace = %q", got)
	}
	names := pkg.PartNames()
	if names[2] != PartDocument {
		t.Errorf("replacing a part moved it: order = %v", names)
	}

	pkg.RemovePart("word/media/chart.png")
	if pkg.Has("word/media/chart.png") {
		t.Error("part still present after RemovePart")
	}
	// Removing again is a no-op.
	pkg.RemovePart("word/media/chart.png")
}

func TestPartForTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"media/image1.png", "word/media/image1.png"},
		{"/word/media/image1.png", "word/media/image1.png"},
		{"styles.xml", "word/styles.xml"},
		{"../customXml/item1.xml", "customXml/item1.xml"},
	}

	for _, tt := range tests {
		if got := PartForTarget(tt.target); got != tt.want {
			t.Errorf("PartForTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestNewPackageSave(t *testing.T) {
	pkg := New()
	pkg.SetPart(PartContentTypes, []byte(minimalContentTypes))
	pkg.SetPart(PartRootRels, []byte(minimalRootRels))
	pkg.SetPart(PartDocument, []byte(minimalDocument))

	out, err := pkg.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(out); err != nil {
		t.Fatalf("Load(Save()) error = %v", err)
	}
}
