package xgettext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "hello-world", slug("Hello World"))
	assert.Equal(t, "cpp-guide", slug("C++ Guide"))
	assert.Equal(t, "null", slug("!!!"))
}

func TestPathBuilderBasicUsage(t *testing.T) {
	b := NewPathBuilder(2)
	b.Push("foo")
	b.Push("bar")
	assert.Equal(t, "foo/bar.pot", b.Get())
	b.Pop()
	b.Pop()

	b.Push("foo")
	b.Push("bar")
	assert.Equal(t, "foo-1/bar-1.pot", b.Get())
}

func TestPathBuilderDepth0(t *testing.T) {
	b := NewPathBuilder(0)
	b.Push("foo")
	assert.Equal(t, "messages.pot", b.Get())
}

func TestPathBuilderPopAtDepth0IsNoOp(t *testing.T) {
	b := NewPathBuilder(2)
	b.Pop()
	b.Pop()
	assert.Equal(t, "messages.pot", b.Get())

	b.Push("foo")
	b.Push("bar")
	assert.Equal(t, "foo/bar.pot", b.Get())
}

func TestPathBuilderDuplicatePartNames(t *testing.T) {
	b := NewPathBuilder(2)
	for i := 0; i < 3; i++ {
		b.Push("Foo")
		b.Push("chapter")
		b.Get()
		b.Pop()
		b.Pop()
	}

	b2 := NewPathBuilder(2)
	var got []string
	for i := 0; i < 3; i++ {
		b2.Push("Foo")
		b2.Push("chapter")
		got = append(got, b2.Get())
		b2.Pop()
		b2.Pop()
	}
	assert.Equal(t, []string{"foo/chapter.pot", "foo-1/chapter-1.pot", "foo-2/chapter-2.pot"}, got)
}
