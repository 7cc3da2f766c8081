package docx

import (
	"bytes"
	"regexp"
)

// Image-bearing elements in WordprocessingML: modern drawings, legacy
// VML pictures, and embedded objects.
var strippedElements = []string{"w:drawing", "w:pict", "w:object"}

// embedRefPattern matches the relationship references carried by image
// elements: r:embed on a:blip and r:id on v:imagedata.
var embedRefPattern = regexp.MustCompile(`(?:r:embed|r:id)="([^"]+)"`)

// StripDrawings removes every image-bearing element from document.xml
// bytes. It returns the rewritten part, the relationship ids the
// removed elements referenced, and the number of elements removed.
//
// The removal is a byte-level span deletion so every untouched byte of
// the part survives exactly; the surrounding runs and paragraphs are
// not re-serialized.
func StripDrawings(data []byte) ([]byte, []string, int) {
	out := data
	var relIDs []string
	seen := make(map[string]bool)
	removed := 0

	for _, name := range strippedElements {
		for {
			span, ok := findElement(out, name)
			if !ok {
				break
			}
			for _, m := range embedRefPattern.FindAllSubmatch(out[span.start:span.end], -1) {
				id := string(m[1])
				if !seen[id] {
					seen[id] = true
					relIDs = append(relIDs, id)
				}
			}
			out = append(out[:span.start:span.start], out[span.end:]...)
			removed++
		}
	}

	return out, relIDs, removed
}

type span struct {
	start, end int
}

// findElement locates the first occurrence of an element, including
// its full subtree. These elements do not nest within themselves, so
// the first matching close tag terminates the span.
func findElement(data []byte, name string) (span, bool) {
	open := []byte("<" + name)
	start := 0
	for {
		i := bytes.Index(data[start:], open)
		if i < 0 {
			return span{}, false
		}
		i += start
		after := i + len(open)
		if after >= len(data) {
			return span{}, false
		}
		// Reject prefix matches like <w:drawingX>.
		switch data[after] {
		case '>', ' ', '\t', '\r', '\n', '/':
		default:
			start = after
			continue
		}

		gt := bytes.IndexByte(data[after:], '>')
		if gt < 0 {
			return span{}, false
		}
		gt += after
		if data[gt-1] == '/' {
			return span{start: i, end: gt + 1}, true
		}

		closeTag := []byte("</" + name + ">")
		j := bytes.Index(data[gt:], closeTag)
		if j < 0 {
			return span{}, false
		}
		return span{start: i, end: gt + j + len(closeTag)}, true
	}
}
