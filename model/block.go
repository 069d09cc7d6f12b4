package model

// BlockKind identifies a block variant.
type BlockKind int

const (
	BlockKindUnknown BlockKind = iota
	BlockKindHeading
	BlockKindParagraph
	BlockKindList
	BlockKindImage
	BlockKindBlockQuote
	BlockKindThematicBreak
	BlockKindCodeBlock
	BlockKindTable
)

func (k BlockKind) String() string {
	switch k {
	case BlockKindHeading:
		return "Heading"
	case BlockKindParagraph:
		return "Paragraph"
	case BlockKindList:
		return "List"
	case BlockKindImage:
		return "Image"
	case BlockKindBlockQuote:
		return "BlockQuote"
	case BlockKindThematicBreak:
		return "ThematicBreak"
	case BlockKindCodeBlock:
		return "CodeBlock"
	case BlockKindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Block is the interface implemented by all block variants. The variant set
// is closed; renderers dispatch with an exhaustive type switch.
type Block interface {
	Kind() BlockKind
}

// Heading is a section heading with level 1 through 6.
type Heading struct {
	Level   int
	Content []Span
}

func (h *Heading) Kind() BlockKind { return BlockKindHeading }

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Span
}

func (p *Paragraph) Kind() BlockKind { return BlockKindParagraph }

// List is a sequence of items, each holding its own block tree.
type List struct {
	Items []ListItem
}

func (l *List) Kind() BlockKind { return BlockKindList }

// ListItem is a single list entry. Marker holds the rendered marker text
// ("•" for bullets, "1." style for ordered items).
type ListItem struct {
	Marker  string
	Content []Block
}

// Image is a block-level image reference. AltText is empty when the source
// document provided none.
type Image struct {
	URL     string
	AltText string
}

func (i *Image) Kind() BlockKind { return BlockKindImage }

// BlockQuote wraps a nested block tree.
type BlockQuote struct {
	Content []Block
}

func (q *BlockQuote) Kind() BlockKind { return BlockKindBlockQuote }

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

func (t *ThematicBreak) Kind() BlockKind { return BlockKindThematicBreak }

// CodeBlock is a fenced code block. Language is empty when the fence had no
// info string.
type CodeBlock struct {
	Language string
	Content  string
}

func (c *CodeBlock) Kind() BlockKind { return BlockKindCodeBlock }

// Table is an ordered sequence of rows. Header and data rows are not
// distinguished; both appear in source order.
type Table struct {
	Rows []TableRow
}

func (t *Table) Kind() BlockKind { return BlockKindTable }

// TableRow is an ordered sequence of cells.
type TableRow struct {
	Cells []TableCell
}

// TableCell holds a cell's inline content.
type TableCell struct {
	Content []Span
}
