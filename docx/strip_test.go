package docx

import (
	"reflect"
	"strings"
	"testing"
)

func TestStripDrawings(t *testing.T) {
	doc := `<w:document><w:body>` +
		`<w:p><w:r><w:t>before</w:t></w:r>` +
		`<w:r><w:drawing><wp:inline><a:blip r:embed="rId5"/></wp:inline></w:drawing></w:r>` +
		`<w:r><w:t>after</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	out, relIDs, removed := StripDrawings([]byte(doc))

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if !reflect.DeepEqual(relIDs, []string{"rId5"}) {
		t.Errorf("relIDs = %v, want [rId5]", relIDs)
	}
	s := string(out)
	if strings.Contains(s, "drawing") {
		t.Error("drawing element survived stripping")
	}
	// Surrounding runs survive byte-for-byte.
	if !strings.Contains(s, "<w:r><w:t>before</w:t></w:r>") ||
		!strings.Contains(s, "<w:r><w:t>after</w:t></w:r>") {
		t.Errorf("surrounding content altered: %s", s)
	}
}

func TestStripDrawingsAllElementKinds(t *testing.T) {
	doc := `<w:p>` +
		`<w:r><w:drawing><a:blip r:embed="rId1"/></w:drawing></w:r>` +
		`<w:r><w:pict><v:imagedata r:id="rId2"/></w:pict></w:r>` +
		`<w:r><w:object><v:imagedata r:id="rId3"/></w:object></w:r>` +
		`</w:p>`

	out, relIDs, removed := StripDrawings([]byte(doc))

	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if len(relIDs) != 3 {
		t.Errorf("relIDs = %v, want three ids", relIDs)
	}
	for _, frag := range []string{"drawing", "pict", "object"} {
		if strings.Contains(string(out), frag) {
			t.Errorf("%s element survived", frag)
		}
	}
}

func TestStripDrawingsDeduplicatesRelIDs(t *testing.T) {
	doc := `<w:p>` +
		`<w:r><w:drawing><a:blip r:embed="rId5"/></w:drawing></w:r>` +
		`<w:r><w:drawing><a:blip r:embed="rId5"/></w:drawing></w:r>` +
		`</w:p>`

	_, relIDs, removed := StripDrawings([]byte(doc))
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if !reflect.DeepEqual(relIDs, []string{"rId5"}) {
		t.Errorf("relIDs = %v, want deduplicated [rId5]", relIDs)
	}
}

func TestStripDrawingsSelfClosing(t *testing.T) {
	doc := `<w:p><w:r><w:pict/></w:r><w:r><w:t>text</w:t></w:r></w:p>`

	out, _, removed := StripDrawings([]byte(doc))
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if strings.Contains(string(out), "pict") {
		t.Error("self-closing element survived")
	}
	if !strings.Contains(string(out), "text") {
		t.Error("neighboring run lost")
	}
}

func TestStripDrawingsPrefixNames(t *testing.T) {
	// Elements whose names merely start with a stripped name stay.
	doc := `<w:p><w:pictureFrame><w:t>keep</w:t></w:pictureFrame></w:p>`

	out, _, removed := StripDrawings([]byte(doc))
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if string(out) != doc {
		t.Errorf("output changed: %s", out)
	}
}

func TestStripDrawingsNoImages(t *testing.T) {
	doc := `<w:document><w:body><w:p><w:r><w:t>plain</w:t></w:r></w:p></w:body></w:document>`

	out, relIDs, removed := StripDrawings([]byte(doc))
	if removed != 0 || len(relIDs) != 0 {
		t.Errorf("removed = %d, relIDs = %v, want nothing", removed, relIDs)
	}
	if string(out) != doc {
		t.Error("image-free document was modified")
	}
}
