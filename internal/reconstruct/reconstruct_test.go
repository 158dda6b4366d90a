package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
)

func ev(kind mdevent.Kind) mdevent.Positioned {
	return mdevent.Positioned{Event: mdevent.Event{Kind: kind}}
}

func text(s string) mdevent.Positioned {
	return mdevent.Positioned{Event: mdevent.Event{Kind: mdevent.KindText, Text: s}}
}

func TestReconstructSimpleParagraph(t *testing.T) {
	events := []mdevent.Positioned{
		ev(mdevent.KindStartParagraph),
		text("foo bar"),
		ev(mdevent.KindEndParagraph),
	}
	out, _, err := Reconstruct(events, nil)
	require.NoError(t, err)
	assert.Equal(t, "foo bar", out)
}

func TestReconstructEmphasisAndStrong(t *testing.T) {
	events := []mdevent.Positioned{
		ev(mdevent.KindStartParagraph),
		text("Foo "),
		ev(mdevent.KindStartEmphasis),
		text("Bar"),
		ev(mdevent.KindEndEmphasis),
		ev(mdevent.KindEndParagraph),
	}
	out, _, err := Reconstruct(events, nil)
	require.NoError(t, err)
	assert.Equal(t, "Foo _Bar_", out)
}

func TestReconstructTableEmitsDelimiterRowAndClosingPipes(t *testing.T) {
	events := []mdevent.Positioned{
		mdevent.Positioned{Event: mdevent.Event{Kind: mdevent.KindStartTable, Table: &mdevent.Table{
			Alignments: []mdevent.Alignment{mdevent.AlignLeft, mdevent.AlignRight},
		}}},
		ev(mdevent.KindStartTableHead),
		ev(mdevent.KindStartTableCell),
		text("A"),
		ev(mdevent.KindEndTableCell),
		ev(mdevent.KindStartTableCell),
		text("B"),
		ev(mdevent.KindEndTableCell),
		ev(mdevent.KindEndTableHead),
		ev(mdevent.KindStartTableRow),
		ev(mdevent.KindStartTableCell),
		text("1"),
		ev(mdevent.KindEndTableCell),
		ev(mdevent.KindStartTableCell),
		text("2"),
		ev(mdevent.KindEndTableCell),
		ev(mdevent.KindEndTableRow),
		ev(mdevent.KindEndTable),
	}
	out, _, err := Reconstruct(events, nil)
	require.NoError(t, err)
	assert.Equal(t, "\n| A | B |\n| :--- | ---: |\n| 1 | 2 |", out)

	// Every row must close with a trailing pipe and the delimiter row
	// must separate header from body for the result to re-parse as a
	// table at all.
	for _, line := range []string{"| A | B |", "| :--- | ---: |", "| 1 | 2 |"} {
		assert.Contains(t, out, line)
	}
}

func TestReconstructLinkInlineForm(t *testing.T) {
	events := []mdevent.Positioned{
		ev(mdevent.KindStartParagraph),
		text("Click "),
		mdevent.Positioned{Event: mdevent.Event{Kind: mdevent.KindStartLink, Link: &mdevent.Link{Dest: "http://example.net/"}}},
		text("here"),
		ev(mdevent.KindEndLink),
		text("!"),
		ev(mdevent.KindEndParagraph),
	}
	out, _, err := Reconstruct(events, nil)
	require.NoError(t, err)
	assert.Equal(t, "Click [here](http://example.net/)!", out)
}
