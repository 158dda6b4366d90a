package gettext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/mdbook-i18n-helpers/internal/catalog"
)

func TestTranslateIdentityWithEmptyCatalog(t *testing.T) {
	cat := catalog.New(catalog.NewMetadata("", "", time.Unix(0, 0)))
	out, err := TranslateChapter("foo bar\n", cat)
	require.NoError(t, err)
	assert.Equal(t, "foo bar", out)
}

func TestTranslateSplicesParagraph(t *testing.T) {
	cat := catalog.New(catalog.NewMetadata("", "", time.Unix(0, 0)))
	cat.AppendOrUpdate(catalog.Message{MsgID: "foo bar", MsgStr: "FOO BAR"})

	out, err := TranslateChapter("foo bar\n", cat)
	require.NoError(t, err)
	assert.Equal(t, "FOO BAR", out)
}

func TestTranslateSkipsFuzzy(t *testing.T) {
	cat := catalog.New(catalog.NewMetadata("", "", time.Unix(0, 0)))
	msg := catalog.Message{MsgID: "foo bar", MsgStr: "FOO BAR"}
	msg.SetFuzzy(true)
	cat.AppendOrUpdate(msg)

	out, err := TranslateChapter("foo bar\n", cat)
	require.NoError(t, err)
	assert.Equal(t, "foo bar", out)
}

func TestStripFormatting(t *testing.T) {
	got, err := StripFormatting("Foo *bar* `baz`")
	require.NoError(t, err)
	assert.Equal(t, "Foo bar baz", got)
}
