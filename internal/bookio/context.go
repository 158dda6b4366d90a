// Package bookio decodes the RenderContext JSON envelope that mdbook hands
// to preprocessors and renderers on stdin (§6) — the one external wire
// shape this core must consume directly, everything else about the host
// toolchain is an external collaborator out of scope.
package bookio

import (
	"encoding/json"
	"io"

	"github.com/google/mdbook-i18n-helpers/internal/mderr"
)

// Chapter is one chapter of the book; a draft chapter has no Path. Part
// titles are not Chapters: they are carried by BookItem.PartTitle.
type Chapter struct {
	Name      string     `json:"name"`
	Content   string     `json:"content"`
	Path      *string    `json:"path"`
	SubItems  []BookItem `json:"sub_items"`
	ParentIDs []int      `json:"parent_names,omitempty"`
}

// BookItem is a tagged union over {Chapter, PartTitle, Separator}; exactly
// one of Chapter/PartTitle is non-nil, or both are nil for a Separator.
type BookItem struct {
	Chapter   *Chapter  `json:"Chapter,omitempty"`
	PartTitle *string   `json:"PartTitle,omitempty"`
	Separator *struct{} `json:"Separator,omitempty"`
}

// BookConfig is the subset of book.toml this core reads.
type BookConfig struct {
	Src         string `json:"src"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// Book is the book object: its section list. The [book] configuration is
// carried separately, in RenderConfig.Book.
type Book struct {
	Sections []BookItem `json:"sections"`
}

// RenderContext is the full JSON envelope handed to a renderer on stdin.
type RenderContext struct {
	Version     string       `json:"version"`
	Root        string       `json:"root"`
	Book        Book         `json:"book"`
	Config      RenderConfig `json:"config"`
	Destination string       `json:"destination"`
}

// RenderConfig carries [book] and the renderer/preprocessor [output.*] /
// [preprocessor.*] tables, looked up via Get with forward-compatible
// ignore-unknown semantics (§9).
type RenderConfig struct {
	Book    BookConfig     `json:"book"`
	rawTail map[string]any `json:"-"`
}

// UnmarshalJSON captures the [book] table strongly and everything else into
// a generic map so renderer/preprocessor-specific keys (e.g.
// "output.xgettext.granularity") remain queryable without a fixed schema.
func (c *RenderConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.rawTail = raw
	if book, ok := raw["book"]; ok {
		b, err := json.Marshal(book)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &c.Book); err != nil {
			return err
		}
	}
	return nil
}

// Get performs a dotted-path lookup, e.g. Get("output.xgettext.granularity").
// Unknown/missing keys return (nil, false) rather than an error, per §9's
// forward-compatibility requirement to ignore unrecognized options.
func (c *RenderConfig) Get(dottedKey string) (any, bool) {
	cur := any(c.rawTail)
	for _, part := range splitDots(dottedKey) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// Decode reads a RenderContext from r.
func Decode(r io.Reader) (*RenderContext, error) {
	var ctx RenderContext
	if err := json.NewDecoder(r).Decode(&ctx); err != nil {
		return nil, mderr.New(mderr.IoError, "decoding RenderContext", err)
	}
	return &ctx, nil
}

// Encode writes ctx as JSON to w, used by the translator to hand the
// rewritten book back to the toolchain on stdout.
func Encode(w io.Writer, ctx *RenderContext) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(ctx); err != nil {
		return mderr.New(mderr.IoError, "encoding RenderContext", err)
	}
	return nil
}
