package mdevent

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/google/mdbook-i18n-helpers/internal/mderr"
)

// ParseState threads resume information across Extract calls the way a
// reconstructor's ParseState threads across Reconstruct calls: minimally,
// whether the caller is mid code-block (in which case Extract must not
// invoke the Markdown parser at all, per §4.1).
type ParseState struct {
	InCodeBlock bool
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.TaskList, extension.Footnote),
	goldmark.WithParserOptions(parser.WithAttribute()),
)

// Extract parses text into a positioned event stream.
//
// If state.InCodeBlock is true the Markdown parser is bypassed entirely:
// text is split on line terminators (terminators preserved) and one Text
// event is emitted per line, so a reconstructor paused mid fence can resume
// byte-for-byte.
func Extract(text_ string, state *ParseState) ([]Positioned, error) {
	if state != nil && state.InCodeBlock {
		return extractVerbatimLines(text_), nil
	}
	source := []byte(text_)
	root := md.Parser().Parse(text.NewReader(source))

	w := &walker{source: source}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, mderr.New(mderr.ParseError, "parsing markdown", err)
	}
	return w.out, nil
}

func extractVerbatimLines(s string) []Positioned {
	var out []Positioned
	line := 1
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, Positioned{Line: line, Event: Event{Kind: KindText, Text: s[start : i+1]}})
			start = i + 1
			line++
		}
	}
	if start < len(s) {
		out = append(out, Positioned{Line: line, Event: Event{Kind: KindText, Text: s[start:]}})
	}
	return out
}

func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

type walker struct {
	source []byte
	out    []Positioned
}

func (w *walker) emit(line int, e Event) {
	w.out = append(w.out, Positioned{Line: line, Event: e})
}

func (w *walker) lineAt(n ast.Node) int {
	if seg := firstSegment(n); seg != nil {
		return lineOf(w.source, seg.Start)
	}
	return 0
}

// firstSegment finds a representative byte-range for a node, used purely to
// compute its line number: the node's own Lines() for block nodes with
// lines, or the first text-bearing descendant's segment for others.
func firstSegment(n ast.Node) *text.Segment {
	if lbn, ok := n.(interface{ Lines() *text.Segments }); ok {
		if lines := lbn.Lines(); lines != nil && lines.Len() > 0 {
			s := lines.At(0)
			return &s
		}
	}
	switch tn := n.(type) {
	case *ast.Text:
		s := tn.Segment
		return &s
	case *ast.String:
		return nil
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := firstSegment(c); s != nil {
			return s
		}
	}
	return nil
}

func textOf(source []byte, n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(textOf(source, c))
		}
	}
	return b.String()
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		// container only

	case *ast.Paragraph:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartParagraph})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndParagraph})
		}

	case *ast.Heading:
		if entering {
			h := &Heading{Level: node.Level}
			if id, ok := node.AttributeString("id"); ok {
				h.ID = fmt.Sprintf("%s", id)
			}
			if cls, ok := node.AttributeString("class"); ok {
				h.Classes = strings.Fields(fmt.Sprintf("%s", cls))
			}
			w.emit(w.lineAt(node), Event{Kind: KindStartHeading, Heading: h})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndHeading})
		}

	case *ast.Blockquote:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartBlockQuote})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndBlockQuote})
		}

	case *ast.FencedCodeBlock:
		if entering {
			info := ""
			if node.Info != nil {
				info = string(node.Info.Segment.Value(w.source))
			}
			w.emit(w.lineAt(node), Event{Kind: KindStartCodeBlock, CodeBlock: &CodeBlock{Fenced: true, Info: info, FenceLen: 3}})
			w.emitCodeLines(node)
			w.emit(w.lineAt(node), Event{Kind: KindEndCodeBlock})
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartCodeBlock, CodeBlock: &CodeBlock{Fenced: false}})
			w.emitCodeLines(node)
			w.emit(w.lineAt(node), Event{Kind: KindEndCodeBlock})
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		if entering {
			content := htmlBlockText(w.source, node)
			w.emit(w.lineAt(node), Event{Kind: KindStartHTMLBlock})
			w.emit(w.lineAt(node), Event{Kind: KindHTML, Text: content})
			w.emit(w.lineAt(node), Event{Kind: KindEndHTMLBlock})
		}
		return ast.WalkSkipChildren, nil

	case *ast.List:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartList, List: &List{Ordered: node.IsOrdered(), Start: node.Start}})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndList})
		}

	case *ast.ListItem:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartItem})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndItem})
		}

	case *ast.ThematicBreak:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindRule})
		}

	case *extast.Table:
		if entering {
			aligns := make([]Alignment, len(node.Alignments))
			for i, a := range node.Alignments {
				switch a {
				case extast.AlignLeft:
					aligns[i] = AlignLeft
				case extast.AlignCenter:
					aligns[i] = AlignCenter
				case extast.AlignRight:
					aligns[i] = AlignRight
				default:
					aligns[i] = AlignNone
				}
			}
			w.emit(w.lineAt(node), Event{Kind: KindStartTable, Table: &Table{Alignments: aligns}})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndTable})
		}

	case *extast.TableHeader:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartTableHead})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndTableHead})
		}

	case *extast.TableRow:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartTableRow})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndTableRow})
		}

	case *extast.TableCell:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartTableCell})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndTableCell})
		}

	case *extast.Strikethrough:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartStrikethrough})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndStrikethrough})
		}

	case *extast.Footnote:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartFootnoteDefinition, Text: string(node.Ref)})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndFootnoteDefinition})
		}

	case *extast.FootnoteList:
		// transparent container

	case *extast.FootnoteLink:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindFootnoteReference, Text: string(node.Ref)})
		}

	case *extast.TaskCheckBox:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindTaskListMarker, TaskListMarker: node.IsChecked})
		}

	case *ast.Emphasis:
		kindStart, kindEnd := KindStartEmphasis, KindEndEmphasis
		if node.Level >= 2 {
			kindStart, kindEnd = KindStartStrong, KindEndStrong
		}
		if entering {
			w.emit(w.lineAt(node), Event{Kind: kindStart})
		} else {
			w.emit(w.lineAt(node), Event{Kind: kindEnd})
		}

	case *ast.Link:
		if entering {
			lt := LinkReference
			w.emit(w.lineAt(node), Event{Kind: KindStartLink, Link: &Link{Type: lt, Dest: string(node.Destination), Title: string(node.Title)}})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndLink})
		}

	case *ast.Image:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindStartImage, Link: &Link{Type: LinkReference, Dest: string(node.Destination), Title: string(node.Title)}})
		} else {
			w.emit(w.lineAt(node), Event{Kind: KindEndImage})
		}

	case *ast.AutoLink:
		if entering {
			url := string(node.URL(w.source))
			w.emit(w.lineAt(node), Event{Kind: KindStartLink, Link: &Link{Type: LinkAutolink, Dest: url}})
			w.emit(w.lineAt(node), Event{Kind: KindText, Text: url})
			w.emit(w.lineAt(node), Event{Kind: KindEndLink})
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			var b strings.Builder
			segs := node.Segments
			for i := 0; i < segs.Len(); i++ {
				b.Write(segs.At(i).Value(w.source))
			}
			w.emit(w.lineAt(node), Event{Kind: KindInlineHTML, Text: b.String()})
		}

	case *ast.CodeSpan:
		if entering {
			w.emit(w.lineAt(node), Event{Kind: KindCode, Text: textOf(w.source, node)})
		}
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		if entering {
			s := string(node.Segment.Value(w.source))
			line := lineOf(w.source, node.Segment.Start)
			w.emit(line, Event{Kind: KindText, Text: s})
			if node.HardLineBreak() {
				w.emit(line, Event{Kind: KindHardBreak})
			} else if node.SoftLineBreak() {
				// §4.1: SoftBreak is replaced by Text(" ") so that source
				// line wrapping does not change the extracted message.
				w.emit(line, Event{Kind: KindText, Text: " "})
			}
		}

	case *ast.String:
		if entering {
			w.emit(0, Event{Kind: KindText, Text: string(node.Value)})
		}

	default:
		// unrecognized node kind: descend into children without emitting.
	}
	return ast.WalkContinue, nil
}

func (w *walker) emitCodeLines(n interface{ Lines() *text.Segments }) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.out = append(w.out, Positioned{Line: lineOf(w.source, seg.Start), Event: Event{Kind: KindText, Text: string(seg.Value(w.source))}})
	}
}

func htmlBlockText(source []byte, n *ast.HTMLBlock) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		b.Write(lines.At(i).Value(source))
	}
	if n.HasClosure() {
		b.Write(n.ClosureLine.Value(source))
	}
	return b.String()
}
