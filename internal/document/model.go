// Package document turns an order into a render-target independent delivery note.
// A Model is built once per request and never mutated afterwards; renderers only read it.
package document

import "time"

// FontWeight selects one of the three faces of the document typeface.
type FontWeight int

const (
	WeightLight FontWeight = iota
	WeightRegular
	WeightSemiBold
)

func (w FontWeight) String() string {
	switch w {
	case WeightRegular:
		return "regular"
	case WeightSemiBold:
		return "semibold"
	default:
		return "light"
	}
}

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// PageSize names a physical page format.
type PageSize string

const PageA4 PageSize = "A4"

// Model is the whole delivery note.
type Model struct {
	Title    string
	Subject  string
	FileName string
	// IssuedAt is the parsed order creation time, zero when it could not be parsed.
	IssuedAt time.Time
	Pages    []Page
}

// Page is one logical page. Renderers may flow it over several physical pages.
type Page struct {
	Size      PageSize
	Watermark *Image
	Sections  []Section
}

// SectionKind identifies a section of the delivery note.
type SectionKind string

const (
	SectionHeader       SectionKind = "header"
	SectionRecipient    SectionKind = "recipient"
	SectionMeta         SectionKind = "meta"
	SectionInstructions SectionKind = "instructions"
	SectionItems        SectionKind = "items"
	SectionSubtotal     SectionKind = "subtotal"
	SectionSignatures   SectionKind = "signatures"
)

// Section is a titled group of blocks. Title may be empty.
type Section struct {
	Kind   SectionKind
	Title  string
	Blocks []Block
}

// BlockKind discriminates the Block implementations.
type BlockKind string

const (
	BlockText      BlockKind = "text"
	BlockTable     BlockKind = "table"
	BlockImage     BlockKind = "image"
	BlockSignature BlockKind = "signature"
	BlockColumns   BlockKind = "columns"
)

// Block is one of TextBlock, Table, Image, SignatureBlock or Columns.
type Block interface {
	Kind() BlockKind
}

// Span is a run of text in a single weight.
type Span struct {
	Text   string
	Weight FontWeight
}

// Line is one visual line made of spans.
type Line struct {
	Spans []Span
}

// Text concatenates the spans of the line.
func (l Line) Text() string {
	var s string
	for _, span := range l.Spans {
		s += span.Text
	}
	return s
}

// TextBlock is a stack of lines. Size 0 means the base font size.
type TextBlock struct {
	Lines []Line
	Size  float64
	Align Align
}

func (TextBlock) Kind() BlockKind { return BlockText }

// TableStyle selects how a table's borders are drawn.
type TableStyle string

const (
	// TableGrid draws vertical separators between cells.
	TableGrid TableStyle = "grid"
	// TableRows draws a rule under every row.
	TableRows TableStyle = "rows"
)

// Column is a table column. Width is a percentage of the table width.
type Column struct {
	Header string
	Width  float64
	Align  Align
}

// Row is a table row. A placeholder row has a single cell spanning the full width.
type Row struct {
	Cells       []string
	Placeholder bool
}

// Table is a header row followed by data rows.
type Table struct {
	Style   TableStyle
	Columns []Column
	Rows    []Row
}

func (Table) Kind() BlockKind { return BlockTable }

// Image references an image by absolute URL. Opacity 1 is fully opaque.
type Image struct {
	Ref     string
	Width   float64
	Height  float64
	Opacity float64
	Align   Align
}

func (Image) Kind() BlockKind { return BlockImage }

// SignatureBlock is a row of blank signature lines, one per label.
type SignatureBlock struct {
	Labels []string
}

func (SignatureBlock) Kind() BlockKind { return BlockSignature }

// Columns places two block stacks side by side. LeftWidth is a percentage.
type Columns struct {
	Left      []Block
	Right     []Block
	LeftWidth float64
}

func (Columns) Kind() BlockKind { return BlockColumns }
