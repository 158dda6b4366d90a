// Package reconstruct renders an mdevent event subsequence back to
// canonical Markdown. Unlike a whole-document AST renderer (the teacher's
// goldmark-markdown, or the upstream pulldown-cmark-to-cmark), it must be
// able to resume mid-stream: a code block paused at a translate boundary,
// a blockquote whose opening event was in a previous call. State threading
// (ParseState) and the double-pass trick below exist for exactly that.
package reconstruct

import (
	"strings"

	"github.com/google/mdbook-i18n-helpers/internal/mderr"
	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
)

// ParseState is opaque resume context threaded between Reconstruct calls.
type ParseState struct {
	InCodeBlock         bool
	NewlinesBeforeStart int
	Padding             []string
	LastWasText         bool
}

// Clone returns a deep-enough copy for independent mutation.
func (s ParseState) Clone() ParseState {
	p := make([]string, len(s.Padding))
	copy(p, s.Padding)
	s.Padding = p
	return s
}

// Reconstruct renders events to Markdown, threading state. It runs the
// serializer twice per §4.4: once with the real state (output discarded,
// to advance state correctly across calls), once with a simplified state
// (no leading blank lines, no inherited padding) whose output is returned.
func Reconstruct(events []mdevent.Positioned, state *ParseState) (string, ParseState, error) {
	var in ParseState
	if state != nil {
		in = state.Clone()
	}

	real := in.Clone()
	discard := &strings.Builder{}
	w := &writer{state: &real, out: discard}
	if err := w.run(events); err != nil {
		return "", ParseState{}, err
	}

	simplified := in.Clone()
	simplified.NewlinesBeforeStart = 0
	simplified.Padding = nil
	out := &strings.Builder{}
	w2 := &writer{state: &simplified, out: out}
	if err := w2.run(events); err != nil {
		return "", ParseState{}, err
	}

	result := strings.TrimPrefix(out.String(), "\n")
	return result, real, nil
}

type writer struct {
	state *ParseState
	out   *strings.Builder
}

func (w *writer) writeLinePrefixedNewline() {
	w.out.WriteString("\n")
	for _, p := range w.state.Padding {
		w.out.WriteString(p)
	}
}

func (w *writer) writeText(s string) {
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			w.writeLinePrefixedNewline()
		}
		w.out.WriteString(part)
	}
}

func (w *writer) blankLineBefore() {
	if w.state.NewlinesBeforeStart > 0 {
		w.writeLinePrefixedNewline()
	}
	w.writeLinePrefixedNewline()
	w.state.NewlinesBeforeStart = 0
}

func (w *writer) run(events []mdevent.Positioned) error {
	var tableAlignments []mdevent.Alignment
	for i := 0; i < len(events); i++ {
		e := events[i].Event
		switch e.Kind {
		case mdevent.KindStartParagraph:
			w.blankLineBefore()
		case mdevent.KindEndParagraph:
			w.state.NewlinesBeforeStart = 1
			w.state.LastWasText = false

		case mdevent.KindStartHeading:
			w.blankLineBefore()
			w.out.WriteString(strings.Repeat("#", e.Heading.Level) + " ")
		case mdevent.KindEndHeading:
			if e.Heading != nil && e.Heading.ID != "" {
				w.out.WriteString(" {#" + e.Heading.ID + "}")
			}
			w.state.NewlinesBeforeStart = 1
			w.state.LastWasText = false

		case mdevent.KindStartBlockQuote:
			w.blankLineBefore()
			w.state.Padding = append(w.state.Padding, "> ")
		case mdevent.KindEndBlockQuote:
			if len(w.state.Padding) > 0 {
				w.state.Padding = w.state.Padding[:len(w.state.Padding)-1]
			}
			w.state.NewlinesBeforeStart = 1

		case mdevent.KindStartCodeBlock:
			w.blankLineBefore()
			fence := strings.Repeat("`", maxFenceLen(events, i, e.CodeBlock))
			w.out.WriteString(fence + e.CodeBlock.Info)
			w.state.InCodeBlock = true
		case mdevent.KindEndCodeBlock:
			w.state.InCodeBlock = false
			w.writeLinePrefixedNewline()
			fence := strings.Repeat("`", maxFenceLenFromPrior(events, i))
			w.out.WriteString(fence)
			w.state.NewlinesBeforeStart = 1
			w.state.LastWasText = false

		case mdevent.KindStartHTMLBlock:
			w.blankLineBefore()
		case mdevent.KindEndHTMLBlock:
			w.state.NewlinesBeforeStart = 1

		case mdevent.KindStartList:
			w.blankLineBefore()
		case mdevent.KindEndList:
			w.state.NewlinesBeforeStart = 1

		case mdevent.KindStartItem:
			w.writeLinePrefixedNewline()
			w.out.WriteString("- ")
			w.state.Padding = append(w.state.Padding, "  ")
		case mdevent.KindEndItem:
			if len(w.state.Padding) > 0 {
				w.state.Padding = w.state.Padding[:len(w.state.Padding)-1]
			}

		case mdevent.KindStartFootnoteDefinition:
			w.blankLineBefore()
			w.out.WriteString("[^" + e.Text + "]: ")
		case mdevent.KindEndFootnoteDefinition:
			w.state.NewlinesBeforeStart = 1

		case mdevent.KindStartTable:
			w.blankLineBefore()
			tableAlignments = nil
			if e.Table != nil {
				tableAlignments = e.Table.Alignments
			}
		case mdevent.KindEndTable:
			w.state.NewlinesBeforeStart = 1
			tableAlignments = nil
		case mdevent.KindStartTableHead, mdevent.KindStartTableRow:
			w.writeLinePrefixedNewline()
		case mdevent.KindEndTableHead:
			w.writeLinePrefixedNewline()
			w.writeTableDelimiterRow(countCellsInRow(events, i), tableAlignments)
		case mdevent.KindEndTableRow:
		case mdevent.KindStartTableCell:
			if isFirstCellInRow(events, i) {
				w.out.WriteString("| ")
			} else {
				w.out.WriteString(" ")
			}
		case mdevent.KindEndTableCell:
			w.out.WriteString(" |")

		case mdevent.KindStartEmphasis:
			w.out.WriteString("_")
		case mdevent.KindEndEmphasis:
			w.out.WriteString("_")
		case mdevent.KindStartStrong:
			w.out.WriteString("**")
		case mdevent.KindEndStrong:
			w.out.WriteString("**")
		case mdevent.KindStartStrikethrough:
			w.out.WriteString("~~")
		case mdevent.KindEndStrikethrough:
			w.out.WriteString("~~")

		case mdevent.KindStartLink:
			w.out.WriteString("[")
		case mdevent.KindEndLink:
			l := e.Link
			// look back for the matching Start(Link) to read dest/title;
			// in practice Link payload is carried on Start only, so callers
			// needing dest at End must consult a stack. Reconstructed Link
			// text is only ever inline per §4's self-containment rule.
			_ = l
			w.out.WriteString("]")
			w.closeLinkTarget(events, i, false)

		case mdevent.KindStartImage:
			w.out.WriteString("![")
		case mdevent.KindEndImage:
			w.out.WriteString("]")
			w.closeLinkTarget(events, i, true)

		case mdevent.KindText:
			w.writeText(e.Text)
			w.state.LastWasText = true
		case mdevent.KindCode:
			w.out.WriteString("`" + e.Text + "`")
			w.state.LastWasText = true
		case mdevent.KindHTML, mdevent.KindInlineHTML:
			w.writeText(e.Text)
		case mdevent.KindFootnoteReference:
			w.out.WriteString("[^" + e.Text + "]")
		case mdevent.KindHardBreak:
			w.out.WriteString("\\")
			w.writeLinePrefixedNewline()
		case mdevent.KindRule:
			w.blankLineBefore()
			w.out.WriteString("---")
			w.state.NewlinesBeforeStart = 1
		case mdevent.KindTaskListMarker:
			if e.TaskListMarker {
				w.out.WriteString("[x] ")
			} else {
				w.out.WriteString("[ ] ")
			}
		case mdevent.KindMath:
			delim := "$"
			if e.Math != nil && e.Math.Display {
				delim = "$$"
			}
			w.out.WriteString(delim + e.Text + delim)
		default:
			return mderr.UnexpectedEventError(nil)
		}
	}
	return nil
}

// closeLinkTarget finds the matching Start(Link)/Start(Image) for the End
// event at index end and writes its "(dest "title")" suffix. Per the
// observed behavior (spec §8 S2), links always round-trip in inline form:
// this is what keeps a reconstructed message self-contained without a
// separate reference-definition list.
func (w *writer) closeLinkTarget(events []mdevent.Positioned, end int, image bool) {
	depth := 0
	for j := end; j >= 0; j-- {
		k := events[j].Event.Kind
		isStart := k == mdevent.KindStartLink || k == mdevent.KindStartImage
		isEnd := k == mdevent.KindEndLink || k == mdevent.KindEndImage
		if isEnd && j != end {
			depth++
		}
		if isStart {
			if depth == 0 {
				l := events[j].Event.Link
				if l == nil {
					return
				}
				w.out.WriteString("(" + l.Dest)
				if l.Title != "" {
					w.out.WriteString(" \"" + l.Title + "\"")
				}
				w.out.WriteString(")")
				return
			}
			depth--
		}
	}
}

// isFirstCellInRow reports whether the Start(TableCell) event at idx opens
// the first cell of its row: the preceding event is then Start(TableHead)
// or Start(TableRow) rather than another cell's End.
func isFirstCellInRow(events []mdevent.Positioned, idx int) bool {
	if idx == 0 {
		return true
	}
	switch events[idx-1].Event.Kind {
	case mdevent.KindStartTableHead, mdevent.KindStartTableRow:
		return true
	}
	return false
}

// countCellsInRow counts the Start(TableCell) events belonging to the row
// that ends at the End(TableHead)/End(TableRow) event at endIdx, by
// scanning back to the matching Start.
func countCellsInRow(events []mdevent.Positioned, endIdx int) int {
	count := 0
	for j := endIdx - 1; j >= 0; j-- {
		switch events[j].Event.Kind {
		case mdevent.KindStartTableHead, mdevent.KindStartTableRow:
			return count
		case mdevent.KindStartTableCell:
			count++
		}
	}
	return count
}

// writeTableDelimiterRow emits the GFM header-delimiter row (e.g.
// "| --- | :---: |") required between a table's header row and its body.
func (w *writer) writeTableDelimiterRow(n int, aligns []mdevent.Alignment) {
	w.out.WriteString("|")
	for i := 0; i < n; i++ {
		align := mdevent.AlignNone
		if i < len(aligns) {
			align = aligns[i]
		}
		w.out.WriteString(" " + delimiterCell(align) + " |")
	}
}

func delimiterCell(a mdevent.Alignment) string {
	switch a {
	case mdevent.AlignLeft:
		return ":---"
	case mdevent.AlignCenter:
		return ":---:"
	case mdevent.AlignRight:
		return "---:"
	default:
		return "---"
	}
}

func maxFenceLen(events []mdevent.Positioned, startIdx int, cb *mdevent.CodeBlock) int {
	max := 2
	for j := startIdx + 1; j < len(events); j++ {
		if events[j].Event.Kind == mdevent.KindEndCodeBlock {
			break
		}
		if events[j].Event.Kind == mdevent.KindText {
			if n := longestBacktickRun(events[j].Event.Text); n > max {
				max = n
			}
		}
	}
	n := max + 1
	if n < 3 {
		n = 3
	}
	return n
}

func maxFenceLenFromPrior(events []mdevent.Positioned, endIdx int) int {
	// find the matching Start(CodeBlock) preceding endIdx
	depth := 0
	for j := endIdx - 1; j >= 0; j-- {
		k := events[j].Event.Kind
		if k == mdevent.KindEndCodeBlock {
			depth++
		}
		if k == mdevent.KindStartCodeBlock {
			if depth == 0 {
				return maxFenceLen(events, j, events[j].Event.CodeBlock)
			}
			depth--
		}
	}
	return 3
}

func longestBacktickRun(s string) int {
	max, cur := 0, 0
	for _, r := range s {
		if r == '`' {
			cur++
			if cur > max {
				max = cur
			}
		} else {
			cur = 0
		}
	}
	return max
}
