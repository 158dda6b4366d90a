// Package mdevent turns CommonMark (plus the book's enabled GFM extensions)
// into a flat, positioned event stream, the way pulldown-cmark's Parser
// yields a Vec<(Event, Range)> rather than a tree. A flat stream is what the
// grouper (internal/group) and reconstructor (internal/reconstruct) need:
// both operate on arbitrary contiguous subsequences, which a tree makes
// awkward and a stream makes natural.
package mdevent

// Kind tags an Event's variant for structural comparisons that don't care
// about payload (e.g. the grouper's "is this a Start(Paragraph)?" checks).
type Kind int

const (
	KindStartParagraph Kind = iota
	KindEndParagraph
	KindStartHeading
	KindEndHeading
	KindStartBlockQuote
	KindEndBlockQuote
	KindStartCodeBlock
	KindEndCodeBlock
	KindStartHTMLBlock
	KindEndHTMLBlock
	KindStartList
	KindEndList
	KindStartItem
	KindEndItem
	KindStartFootnoteDefinition
	KindEndFootnoteDefinition
	KindStartTable
	KindEndTable
	KindStartTableHead
	KindEndTableHead
	KindStartTableRow
	KindEndTableRow
	KindStartTableCell
	KindEndTableCell

	KindStartEmphasis
	KindEndEmphasis
	KindStartStrong
	KindEndStrong
	KindStartStrikethrough
	KindEndStrikethrough
	KindStartLink
	KindEndLink
	KindStartImage
	KindEndImage

	KindText
	KindCode
	KindHTML
	KindInlineHTML
	KindFootnoteReference
	KindSoftBreak
	KindHardBreak
	KindRule
	KindTaskListMarker
	KindMath
)

// IsStart reports whether k opens a block/inline span.
func (k Kind) IsStart() bool {
	switch k {
	case KindStartParagraph, KindStartHeading, KindStartBlockQuote, KindStartCodeBlock,
		KindStartHTMLBlock, KindStartList, KindStartItem, KindStartFootnoteDefinition,
		KindStartTable, KindStartTableHead, KindStartTableRow, KindStartTableCell,
		KindStartEmphasis, KindStartStrong, KindStartStrikethrough, KindStartLink, KindStartImage:
		return true
	}
	return false
}

// IsEnd reports whether k closes a block/inline span opened by IsStart.
func (k Kind) IsEnd() bool {
	switch k {
	case KindEndParagraph, KindEndHeading, KindEndBlockQuote, KindEndCodeBlock,
		KindEndHTMLBlock, KindEndList, KindEndItem, KindEndFootnoteDefinition,
		KindEndTable, KindEndTableHead, KindEndTableRow, KindEndTableCell,
		KindEndEmphasis, KindEndStrong, KindEndStrikethrough, KindEndLink, KindEndImage:
		return true
	}
	return false
}

// IsBlock reports whether k is a block-level start/end (as opposed to
// inline or leaf). Used by the grouper's "block boundary" transitions.
func (k Kind) IsBlock() bool {
	switch k {
	case KindStartParagraph, KindEndParagraph, KindStartHeading, KindEndHeading,
		KindStartBlockQuote, KindEndBlockQuote, KindStartCodeBlock, KindEndCodeBlock,
		KindStartHTMLBlock, KindEndHTMLBlock, KindStartList, KindEndList,
		KindStartItem, KindEndItem, KindStartFootnoteDefinition, KindEndFootnoteDefinition,
		KindStartTable, KindEndTable, KindStartTableHead, KindEndTableHead,
		KindStartTableRow, KindEndTableRow, KindStartTableCell, KindEndTableCell, KindRule:
		return true
	}
	return false
}

// LinkType mirrors CommonMark's three reference-link forms.
type LinkType int

const (
	LinkInline LinkType = iota
	LinkReference
	LinkShortcut
	LinkCollapsed
	LinkAutolink
)

// Heading carries the payload for Start(Heading).
type Heading struct {
	Level   int
	ID      string
	Classes []string
	Attrs   map[string]string
}

// CodeBlock carries the payload for Start(CodeBlock).
type CodeBlock struct {
	Fenced   bool
	Info     string // the fence info string, e.g. "python" or "python,ignore"
	FenceLen int    // set to 3 by Extract for fenced blocks; the original fence length is not recorded
}

// List carries the payload for Start(List).
type List struct {
	Ordered bool
	Start   int
}

// Alignment is a table column's GFM alignment directive, mirrored from
// goldmark's extension/ast.Alignment so mdevent stays independent of the
// goldmark import outside internal/mdevent itself.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Table carries the payload for Start(Table): one Alignment per column, in
// document order, so the reconstructor can emit the GFM header-delimiter
// row without re-deriving it from cell counts alone.
type Table struct {
	Alignments []Alignment
}

// Link carries the payload for Start(Link) / Start(Image).
type Link struct {
	Type  LinkType
	Dest  string
	Title string
	ID    string // reference label; Extract leaves it empty, and links are reconstructed in inline form
}

// Math distinguishes inline vs display math spans.
type Math struct {
	Display bool
}

// Event is a discriminated union over one CommonMark (+ extension) construct.
type Event struct {
	Kind Kind

	Heading   *Heading
	CodeBlock *CodeBlock
	List      *List
	Link      *Link
	Math      *Math
	Table     *Table

	Text           string // Text, Code, HTML, InlineHTML, FootnoteReference payload
	TaskListMarker bool
}

// Positioned pairs an Event with its 1-based source line number: the line
// on which the underlying byte range begins.
type Positioned struct {
	Line  int
	Event Event
}

func textEvent(k Kind, s string) Positioned {
	return Positioned{Event: Event{Kind: k, Text: s}}
}
