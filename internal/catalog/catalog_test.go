package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendOrUpdateMergesSources(t *testing.T) {
	c := New(NewMetadata("", "", time.Unix(0, 0)))
	c.AppendOrUpdate(Message{MsgID: "foo", Source: "a.md:1"})
	c.AppendOrUpdate(Message{MsgID: "foo", Source: "b.md:2"})

	require.Equal(t, 1, c.Len())
	msg := c.Find("foo")
	require.NotNil(t, msg)
	assert.Equal(t, "a.md:1\nb.md:2", msg.Source)
}

func TestCatalogKeyUniqueness(t *testing.T) {
	c := New(CatalogMetadata{})
	for i := 0; i < 5; i++ {
		c.AppendOrUpdate(Message{MsgID: "same", Source: "x.md:1"})
	}
	assert.Equal(t, 1, c.Len())
}

func TestFuzzyFlag(t *testing.T) {
	m := Message{MsgID: "a"}
	assert.False(t, m.IsFuzzy())
	m.SetFuzzy(true)
	assert.True(t, m.IsFuzzy())
	m.SetFuzzy(false)
	assert.False(t, m.IsFuzzy())
}

func TestDedupSources(t *testing.T) {
	got := DedupSources("a.md:1\na.md:1\nb.md:2")
	assert.Equal(t, "a.md:1 b.md:2", got)
}

func TestWrapSourcesSplitsAtColumn(t *testing.T) {
	long := ""
	for i := 0; i < 10; i++ {
		long += "some/fairly/long/chapter/path/name.md:123 "
	}
	wrapped := WrapSources(long)
	for _, line := range splitLines(wrapped) {
		assert.LessOrEqual(t, len(line), wrapColumn)
	}
}

func splitLines(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == '\n' {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	out = append(out, cur)
	return out
}
