package docx

import (
	"strings"

	"github.com/tsawler/docmark/model"
)

// Classify maps a style name and paragraph numbering state to a block
// kind. The mapping is total: every input produces a kind. Checks run
// in a fixed order and the first match wins.
//
// For headings the returned level is 1-6; the first digit 1-4 found in
// the style name selects the level, and any other heading-like name
// falls back to level 5. For every other kind the level is 0.
func Classify(styleName string, hasNumbering bool) (model.Kind, int) {
	name := strings.ToLower(styleName)

	switch {
	case isHeadingName(name):
		return model.KindHeading, headingLevel(name)
	case strings.Contains(name, "quote"):
		return model.KindQuote, 0
	case strings.Contains(name, "code") || strings.Contains(name, "preformatted"):
		return model.KindCode, 0
	case hasNumbering:
		return model.KindListItem, 0
	default:
		return model.KindParagraph, 0
	}
}

// isHeadingName reports whether a lowercased style name is
// heading-like.
func isHeadingName(name string) bool {
	return strings.Contains(name, "heading") || strings.Contains(name, "title")
}

// headingLevel derives a heading level from a lowercased style name.
// The first digit in the name wins when it is 1-4; everything else,
// including digitless names like "title", maps to level 5.
func headingLevel(name string) int {
	for _, r := range name {
		if r >= '1' && r <= '9' {
			if r <= '4' {
				return int(r - '0')
			}
			return 5
		}
	}
	return 5
}
