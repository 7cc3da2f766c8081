package docx

import "strconv"

// NumberingResolver resolves a paragraph's numbering id against the
// definitions in word/numbering.xml to decide whether the list it
// belongs to is ordered.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML
	numMappings  map[string]string // numId -> abstractNumId
}

// NewNumberingResolver builds a resolver from parsed numbering.xml.
// A nil numbering document yields a resolver that knows nothing, which
// callers handle by falling back to the style name.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]string),
	}
	if numbering == nil {
		return nr
	}
	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for _, num := range numbering.Nums {
		nr.numMappings[num.NumID] = num.AbstractNumID.Val
	}
	return nr
}

// Ordered reports whether the numbering definition behind numID
// renders the given level as an ordered list. The second return is
// false when the definition chain cannot be resolved.
func (nr *NumberingResolver) Ordered(numID string, level int) (bool, bool) {
	abstractID, ok := nr.numMappings[numID]
	if !ok {
		return false, false
	}
	abstract, ok := nr.abstractNums[abstractID]
	if !ok {
		return false, false
	}

	levelStr := strconv.Itoa(level)
	for _, lvl := range abstract.Levels {
		if lvl.ILvl != levelStr {
			continue
		}
		// Every numFmt other than bullet (decimal, letters, roman
		// numerals) numbers its items.
		return lvl.NumFmt.Val != "bullet" && lvl.NumFmt.Val != "", true
	}
	return false, false
}

// IsListParagraph reports whether a numbering id marks a paragraph as
// a list item. Word uses numId 0 to cancel inherited numbering.
func IsListParagraph(numID string) bool {
	return numID != "" && numID != "0"
}

// parseLevel parses an ilvl value, defaulting to depth 0 when the
// attribute is absent or malformed.
func parseLevel(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
