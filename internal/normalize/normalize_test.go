package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/mdbook-i18n-helpers/internal/catalog"
)

func newCatalog(pairs [][2]string) *catalog.Catalog {
	cat := catalog.New(catalog.NewMetadata("", "", time.Unix(0, 0)))
	for i, p := range pairs {
		cat.AppendOrUpdate(catalog.Message{
			Source: sourceAt(i),
			MsgID:  p[0],
			MsgStr: p[1],
		})
	}
	return cat
}

func sourceAt(i int) string {
	return "foo.md:" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := ""
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	return digits
}

func messagePairs(cat *catalog.Catalog) [][3]interface{} {
	var out [][3]interface{}
	for _, m := range cat.Messages() {
		out = append(out, [3]interface{}{m.IsFuzzy(), m.MsgID, m.MsgStr})
	}
	return out
}

func TestNormalizeUntranslated(t *testing.T) {
	cat := newCatalog([][2]string{{"foo bar", ""}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{{false, "foo bar", ""}}, messagePairs(got))
}

func TestNormalizeFirstWins(t *testing.T) {
	cat := newCatalog([][2]string{{"foo", "FOO 1"}, {"# foo", "# FOO 2"}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{{false, "foo", "FOO 1"}}, messagePairs(got))
}

func TestNormalizeEarlyTranslationWins(t *testing.T) {
	cat := newCatalog([][2]string{{"foo", "FOO 1"}, {"# foo", ""}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{{false, "foo", "FOO 1"}}, messagePairs(got))
}

func TestNormalizeLateTranslationWins(t *testing.T) {
	cat := newCatalog([][2]string{{"foo", ""}, {"# foo", "# FOO 2"}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{{false, "foo", "FOO 2"}}, messagePairs(got))
}

func TestNormalizeFuzzyWins(t *testing.T) {
	cat := newCatalog([][2]string{{"foo", ""}, {"# foo", "# FOO 2"}})
	cat.Messages()[1].SetFuzzy(true)
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{{true, "foo", "FOO 2"}}, messagePairs(got))
}

func TestNormalizeParagraphs(t *testing.T) {
	cat := newCatalog([][2]string{{"foo\n\nbar", "FOO\n\nBAR"}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{
		{false, "foo", "FOO"},
		{false, "bar", "BAR"},
	}, messagePairs(got))
}

func TestNormalizeFuzzyParagraphsTooMany(t *testing.T) {
	cat := newCatalog([][2]string{{"foo\n\nbar", "FOO\n\nBAR\n\nBAZ"}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{
		{true, "foo", "FOO"},
		{true, "bar", "BAR\n\nBAZ"},
	}, messagePairs(got))
}

func TestNormalizeFuzzyParagraphsTooFew(t *testing.T) {
	cat := newCatalog([][2]string{{"foo\n\nbar\n\nbaz", "FOO\n\nBAR"}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Equal(t, [][3]interface{}{
		{true, "foo", "FOO"},
		{true, "bar", "BAR"},
		{true, "baz", ""},
	}, messagePairs(got))
}

func TestNormalizeDisappearingHTML(t *testing.T) {
	cat := newCatalog([][2]string{{"<b>", "FOO"}})
	got, err := Normalize(cat, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Messages())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	cat := newCatalog([][2]string{{"foo\n\nbar", "FOO\n\nBAR\n\nBAZ"}})
	once, err := Normalize(cat, nil)
	require.NoError(t, err)
	twice, err := Normalize(once, nil)
	require.NoError(t, err)
	assert.Equal(t, messagePairs(once), messagePairs(twice))
}
