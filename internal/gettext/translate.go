// Package gettext implements the translator (C6): substituting catalog
// translations into a chapter's event stream and re-rendering it.
package gettext

import (
	"strings"

	"github.com/google/mdbook-i18n-helpers/internal/catalog"
	"github.com/google/mdbook-i18n-helpers/internal/group"
	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
	"github.com/google/mdbook-i18n-helpers/internal/reconstruct"
)

// TranslateChapter runs the full per-chapter procedure: extract, group,
// look up each Translate group's msgid, splice in the msgstr's re-parsed
// events, and reconstruct the final Markdown.
func TranslateChapter(content string, cat *catalog.Catalog) (string, error) {
	events, err := mdevent.Extract(content, nil)
	if err != nil {
		return "", err
	}
	groups := group.Events(events)

	var all []mdevent.Positioned
	var state *reconstruct.ParseState
	for _, g := range groups {
		translated, newState, err := translateGroup(g, cat, state)
		if err != nil {
			return "", err
		}
		state = &newState
		all = append(all, translated...)
	}

	out, _, err := reconstruct.Reconstruct(all, nil)
	return out, err
}

// translateGroup handles one group: Skip groups pass through unchanged
// (the reconstructor is still run, in discard form, purely to advance
// state for the caller); Translate groups are looked up and spliced.
func translateGroup(g group.Group, cat *catalog.Catalog, state *reconstruct.ParseState) ([]mdevent.Positioned, reconstruct.ParseState, error) {
	if g.Kind == group.Skip {
		_, newState, err := reconstruct.Reconstruct(g.Events, state)
		return g.Events, newState, err
	}

	msgid, newState, err := reconstruct.Reconstruct(g.Events, state)
	if err != nil {
		return nil, reconstruct.ParseState{}, err
	}

	msg := cat.Find(msgid)
	if msg == nil || !msg.Translated() || msg.IsFuzzy() {
		return g.Events, newState, nil
	}

	newEvents, err := mdevent.Extract(msg.MsgStr, nil)
	if err != nil {
		return nil, reconstruct.ParseState{}, err
	}
	newEvents = maybeStripOuterParagraph(newEvents, g.Events)
	return newEvents, newState, nil
}

// maybeStripOuterParagraph strips a Start/EndParagraph wrapper from
// re-extracted msgstr events when the original Translate group was not
// itself paragraph-wrapped (§4.6, S4).
func maybeStripOuterParagraph(newEvents, originalEvents []mdevent.Positioned) []mdevent.Positioned {
	if len(newEvents) < 2 {
		return newEvents
	}
	if newEvents[0].Event.Kind != mdevent.KindStartParagraph || newEvents[len(newEvents)-1].Event.Kind != mdevent.KindEndParagraph {
		return newEvents
	}
	if len(originalEvents) > 0 && originalEvents[0].Event.Kind == mdevent.KindStartParagraph {
		return newEvents
	}
	return newEvents[1 : len(newEvents)-1]
}

// StripFormatting reduces an event stream's reconstructed text to bare
// Text/Code content joined with single spaces for SoftBreaks, the same
// flattening mdbook's own stringify_events performs: used to build
// plain-label lookups for SUMMARY.md entries.
func StripFormatting(content string) (string, error) {
	events, err := mdevent.Extract(content, nil)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range events {
		switch p.Event.Kind {
		case mdevent.KindText, mdevent.KindCode:
			b.WriteString(p.Event.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// AddStrippedSummaryTranslations builds formatting-stripped duplicates of
// every SUMMARY.md-sourced message (both msgid and msgstr reduced to bare
// text) so a lookup by the plain rendered label mdbook hands preprocessors
// still finds a translation.
func AddStrippedSummaryTranslations(cat *catalog.Catalog) error {
	for _, m := range cat.Messages() {
		if !strings.Contains(m.Source, "SUMMARY.md") {
			continue
		}
		strippedID, err := StripFormatting(m.MsgID)
		if err != nil {
			return err
		}
		strippedStr := m.MsgStr
		if m.MsgStr != "" {
			strippedStr, err = StripFormatting(m.MsgStr)
			if err != nil {
				return err
			}
		}
		if strippedID == m.MsgID {
			continue
		}
		cat.AppendOrUpdate(catalog.Message{MsgID: strippedID, MsgStr: strippedStr, Source: m.Source, Flags: copyFlags(m.Flags)})
	}
	return nil
}

func copyFlags(f map[string]bool) map[string]bool {
	if f == nil {
		return nil
	}
	out := make(map[string]bool, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// TranslateBookText translates a single bare string (a chapter name or part
// title) as a whole message, not through the group pipeline: the whole
// string is the msgid.
func TranslateBookText(text string, cat *catalog.Catalog) string {
	msg := cat.Find(text)
	if msg == nil || !msg.Translated() || msg.IsFuzzy() {
		return text
	}
	return msg.MsgStr
}
