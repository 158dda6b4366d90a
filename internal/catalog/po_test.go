package catalog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenParseRoundTrips(t *testing.T) {
	c := New(NewMetadata("book 1.0", "fr", time.Unix(1700000000, 0)))
	c.AppendOrUpdate(Message{MsgID: "Hello\nworld", MsgStr: "Bonjour\nle monde", Source: "ch1.md:3", Comment: "greeting"})
	msg := c.Find("Hello\nworld")
	msg.SetFuzzy(true)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, parsed.Len())

	got := parsed.Find("Hello\nworld")
	require.NotNil(t, got)
	assert.Equal(t, "Bonjour\nle monde", got.MsgStr)
	assert.Equal(t, "ch1.md:3", got.Source)
	assert.Equal(t, "greeting", got.Comment)
	assert.True(t, got.IsFuzzy())
	assert.Equal(t, "fr", parsed.Metadata.Language)
	assert.Equal(t, "book 1.0", parsed.Metadata.ProjectIDVersion)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g)

	g, err = ParseGranularity(3)
	require.NoError(t, err)
	assert.Equal(t, 3, g)

	_, err = ParseGranularity("not-a-number")
	assert.Error(t, err)

	_, err = ParseGranularity(true)
	assert.Error(t, err)
}
