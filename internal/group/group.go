// Package group partitions a positioned event stream into Translate/Skip
// groups (C3), the state machine of spec §4.3, including directive
// handling (C2) and code-block sub-parsing (internal/group/codeblock.go).
package group

import (
	"strings"

	"github.com/google/mdbook-i18n-helpers/internal/directive"
	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
)

// Kind classifies a Group.
type Kind int

const (
	Skip Kind = iota
	Translate
)

// Group is a maximal contiguous run of events that is either wholly
// translatable or wholly skipped.
type Group struct {
	Kind    Kind
	Events  []mdevent.Positioned
	Comment string
}

type state int

const (
	stSkip state = iota
	stTranslate
)

// Events groups events over a chapter body. The Group.events invariant
// (§3): concatenating every Events in order reproduces the input exactly.
func Events(events []mdevent.Positioned) []Group {
	var groups []Group
	st := stSkip
	start := 0
	var pendingComments []string
	skipNext := false

	emitSkip := func(to int) {
		if to <= start {
			return
		}
		groups = append(groups, Group{Kind: Skip, Events: events[start:to]})
		start = to
	}
	emitTranslate := func(to int) {
		if to <= start {
			return
		}
		g := Group{Kind: Translate, Events: events[start:to]}
		if len(pendingComments) > 0 {
			g.Comment = strings.Join(pendingComments, " ")
			pendingComments = nil
		}
		if skipNext {
			g.Kind = Skip
			skipNext = false
		}
		groups = append(groups, expandCodeBlock(g)...)
		start = to
	}

	i := 0
	for i < len(events) {
		k := events[i].Event.Kind

		if d, ok := htmlDirective(events[i].Event); ok {
			if st == stTranslate {
				emitTranslate(i)
			} else {
				emitSkip(i)
			}
			groups = append(groups, Group{Kind: Skip, Events: events[i : i+1]})
			start = i + 1
			switch d.Kind {
			case directive.Skip:
				skipNext = true
			case directive.Comment:
				pendingComments = append(pendingComments, d.Text)
			}
			st = stSkip
			i++
			continue
		}

		switch {
		case k == mdevent.KindStartParagraph || k == mdevent.KindStartCodeBlock:
			if st == stSkip {
				emitSkip(i)
			} else {
				emitTranslate(i)
			}
			st = stTranslate

		case k == mdevent.KindEndParagraph || k == mdevent.KindEndCodeBlock:
			// "impossible" from Skip per the transition table; tolerate
			// defensively by treating it like any other block boundary.
			if st == stTranslate {
				emitTranslate(i + 1)
				st = stSkip
			}

		case isInlineLeaf(k):
			if st == stSkip {
				emitSkip(i)
				st = stTranslate
			}

		case k == mdevent.KindInlineHTML:
			if st == stSkip {
				emitSkip(i)
				st = stTranslate
			}

		case k == mdevent.KindStartHTMLBlock:
			if st == stTranslate {
				emitTranslate(i)
				st = stSkip
			}

		case k == mdevent.KindHTML || k == mdevent.KindEndHTMLBlock:
			// continuation of a block-HTML run; never itself a trigger.

		default:
			// "any other block event"
			if st == stTranslate {
				emitTranslate(i)
				st = stSkip
			}
		}
		i++
	}

	if st == stTranslate {
		emitTranslate(len(events))
	} else {
		emitSkip(len(events))
	}
	return groups
}

func isInlineLeaf(k mdevent.Kind) bool {
	switch k {
	case mdevent.KindStartEmphasis, mdevent.KindEndEmphasis,
		mdevent.KindStartStrong, mdevent.KindEndStrong,
		mdevent.KindStartStrikethrough, mdevent.KindEndStrikethrough,
		mdevent.KindStartLink, mdevent.KindEndLink,
		mdevent.KindStartImage, mdevent.KindEndImage,
		mdevent.KindText, mdevent.KindCode, mdevent.KindMath,
		mdevent.KindFootnoteReference, mdevent.KindSoftBreak, mdevent.KindHardBreak:
		return true
	}
	return false
}

// htmlDirective checks an event that carries raw HTML text for a
// recognized directive comment.
func htmlDirective(e mdevent.Event) (directive.Directive, bool) {
	switch e.Kind {
	case mdevent.KindInlineHTML, mdevent.KindHTML:
		return directive.Parse(strings.TrimSpace(e.Text))
	}
	return directive.Directive{}, false
}
