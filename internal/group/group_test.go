package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
)

func posEvents(kinds ...mdevent.Event) []mdevent.Positioned {
	out := make([]mdevent.Positioned, len(kinds))
	for i, e := range kinds {
		out[i] = mdevent.Positioned{Line: i + 1, Event: e}
	}
	return out
}

func TestPartitionInvariant(t *testing.T) {
	events := posEvents(
		mdevent.Event{Kind: mdevent.KindStartParagraph},
		mdevent.Event{Kind: mdevent.KindText, Text: "foo"},
		mdevent.Event{Kind: mdevent.KindEndParagraph},
	)
	groups := Events(events)

	var total int
	for _, g := range groups {
		total += len(g.Events)
	}
	assert.Equal(t, len(events), total)
}

func TestParagraphIsTranslated(t *testing.T) {
	events := posEvents(
		mdevent.Event{Kind: mdevent.KindStartParagraph},
		mdevent.Event{Kind: mdevent.KindText, Text: "foo"},
		mdevent.Event{Kind: mdevent.KindEndParagraph},
	)
	groups := Events(events)
	require.Len(t, groups, 1)
	assert.Equal(t, Translate, groups[0].Kind)
}

func TestSkipDirectiveAffectsOnlyNextGroup(t *testing.T) {
	events := posEvents(
		mdevent.Event{Kind: mdevent.KindStartParagraph},
		mdevent.Event{Kind: mdevent.KindInlineHTML, Text: "<!-- i18n: skip -->"},
		mdevent.Event{Kind: mdevent.KindText, Text: "one"},
		mdevent.Event{Kind: mdevent.KindEndParagraph},
		mdevent.Event{Kind: mdevent.KindStartParagraph},
		mdevent.Event{Kind: mdevent.KindText, Text: "two"},
		mdevent.Event{Kind: mdevent.KindEndParagraph},
	)
	groups := Events(events)

	var translateTexts []string
	for _, g := range groups {
		if g.Kind != Translate {
			continue
		}
		for _, e := range g.Events {
			if e.Event.Kind == mdevent.KindText {
				translateTexts = append(translateTexts, e.Event.Text)
			}
		}
	}
	assert.Contains(t, translateTexts, "two")
	assert.NotContains(t, translateTexts, "one")
}

func TestCommentDirectiveAttaches(t *testing.T) {
	events := posEvents(
		mdevent.Event{Kind: mdevent.KindInlineHTML, Text: "<!-- i18n: comment: translator note -->"},
		mdevent.Event{Kind: mdevent.KindStartParagraph},
		mdevent.Event{Kind: mdevent.KindText, Text: "hi"},
		mdevent.Event{Kind: mdevent.KindEndParagraph},
	)
	groups := Events(events)

	var found bool
	for _, g := range groups {
		if g.Kind == Translate && g.Comment == "translator note" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCodeBlockHeuristicSkipsPlainCode(t *testing.T) {
	events := posEvents(
		mdevent.Event{Kind: mdevent.KindStartCodeBlock, CodeBlock: &mdevent.CodeBlock{Fenced: true}},
		mdevent.Event{Kind: mdevent.KindText, Text: "def g(x):\n  pass\n"},
		mdevent.Event{Kind: mdevent.KindEndCodeBlock},
	)
	groups := Events(events)

	for _, g := range groups {
		assert.NotEqual(t, Translate, g.Kind, "plain code block without quotes or // should not be translatable")
	}
}

func TestCodeBlockHeuristicTranslatesQuoted(t *testing.T) {
	events := posEvents(
		mdevent.Event{Kind: mdevent.KindStartCodeBlock, CodeBlock: &mdevent.CodeBlock{Fenced: true}},
		mdevent.Event{Kind: mdevent.KindText, Text: "def f(x):\n  print(\"hi\")\n"},
		mdevent.Event{Kind: mdevent.KindEndCodeBlock},
	)
	groups := Events(events)

	var sawTranslate bool
	for _, g := range groups {
		if g.Kind == Translate {
			sawTranslate = true
		}
	}
	assert.True(t, sawTranslate)
}
