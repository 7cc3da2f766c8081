package model

import "strings"

// Kind identifies the structural kind of a block.
type Kind int

const (
	// KindParagraph is ordinary body text.
	KindParagraph Kind = iota
	// KindHeading is a heading at level 1-6.
	KindHeading
	// KindListItem is one item of an ordered or unordered list.
	KindListItem
	// KindTable is a grid of plain-text cells.
	KindTable
	// KindImage is a block-level image reference.
	KindImage
	// KindQuote is quoted body text.
	KindQuote
	// KindCode is preformatted text.
	KindCode
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindQuote:
		return "quote"
	case KindCode:
		return "code"
	default:
		return "paragraph"
	}
}

// Block is a structural unit of the document tree.
type Block interface {
	Kind() Kind
}

// Run is an inline styled span of text within a block.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool
	Link      string // optional hyperlink target
}

// Heading is a heading block. Level is always within 1..6.
type Heading struct {
	Level int
	Runs  []Run
}

// Kind implements Block.
func (h *Heading) Kind() Kind { return KindHeading }

// Paragraph is an ordinary text block.
type Paragraph struct {
	Runs []Run
}

// Kind implements Block.
func (p *Paragraph) Kind() Kind { return KindParagraph }

// ListItem is a single list entry. Depth is 0-based nesting depth.
type ListItem struct {
	Ordered bool
	Depth   int
	Runs    []Run
}

// Kind implements Block.
func (l *ListItem) Kind() Kind { return KindListItem }

// Table holds rows of plain-text cells. Rows may be ragged as
// extracted; padding happens at markup emission time.
type Table struct {
	Rows [][]string
}

// Kind implements Block.
func (t *Table) Kind() Kind { return KindTable }

// ImageBlock references an image asset. Exactly one of RelID and
// Target is set: RelID binds the block into a package's relationship
// graph, Target is the bare relative path used on the markup side.
type ImageBlock struct {
	RelID   string
	Target  string
	AltText string
}

// Kind implements Block.
func (i *ImageBlock) Kind() Kind { return KindImage }

// Quote is a block quotation.
type Quote struct {
	Runs []Run
}

// Kind implements Block.
func (q *Quote) Kind() Kind { return KindQuote }

// CodeBlock is preformatted text. Text may span multiple lines.
type CodeBlock struct {
	Text string
}

// Kind implements Block.
func (c *CodeBlock) Kind() Kind { return KindCode }

// Document is an ordered sequence of blocks.
type Document struct {
	Blocks []Block
}

// PlainText concatenates the text of a run sequence without any
// formatting markers.
func PlainText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
