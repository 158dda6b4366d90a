package xgettext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSourceGranularity(t *testing.T) {
	assert.Equal(t, "ch.md", buildSource("ch.md", 42, 0))
	assert.Equal(t, "ch.md:42", buildSource("ch.md", 42, 1))
	assert.Equal(t, "ch.md:40", buildSource("ch.md", 42, 10))
	assert.Equal(t, "ch.md:1", buildSource("ch.md", 3, 10))
}

func TestExtractMessagesFromParagraph(t *testing.T) {
	msgs, err := ExtractMessages("Hello world\n")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello world", msgs[0].MsgID)
	assert.Equal(t, 1, msgs[0].Line)
}
