// Package catalog implements the GNU-gettext PO/POT data model (Message,
// Catalog, CatalogMetadata, CatalogMap) and the source-wrapping helper
// shared by the extractor and normalizer. No ecosystem PO library is used:
// none of the retrieved example repositories import one (every Go
// precedent in the pack hand-rolls its own reader/writer), so this package
// is a from-scratch implementation in that same tradition.
package catalog

import (
	"sort"
	"strings"
	"time"
)

// Message is one source string and its translation.
type Message struct {
	MsgID   string
	MsgStr  string
	Source  string // whitespace-separated "path:line" tokens, wrapped at <=76 cols
	Comment string // translator note, from a directive
	Flags   map[string]bool
}

// IsFuzzy reports whether the "fuzzy" flag is set.
func (m *Message) IsFuzzy() bool { return m.Flags != nil && m.Flags["fuzzy"] }

// SetFuzzy sets or clears the "fuzzy" flag.
func (m *Message) SetFuzzy(v bool) {
	if m.Flags == nil {
		m.Flags = map[string]bool{}
	}
	if v {
		m.Flags["fuzzy"] = true
	} else {
		delete(m.Flags, "fuzzy")
	}
}

// Translated reports whether MsgStr is non-empty.
func (m *Message) Translated() bool { return m.MsgStr != "" }

// CatalogMetadata is the catalog header, stored as the empty-msgid entry.
type CatalogMetadata struct {
	ProjectIDVersion        string
	Language                string
	POTCreationDate         string // RFC3339 seconds
	MimeVersion             string
	ContentType             string
	ContentTransferEncoding string
}

// NewMetadata builds a metadata block with the fixed content-type fields
// and a creation date derived from now.
func NewMetadata(projectIDVersion, language string, now time.Time) CatalogMetadata {
	return CatalogMetadata{
		ProjectIDVersion:        projectIDVersion,
		Language:                language,
		POTCreationDate:         now.UTC().Truncate(time.Second).Format(time.RFC3339),
		MimeVersion:             "1.0",
		ContentType:             "text/plain; charset=UTF-8",
		ContentTransferEncoding: "8bit",
	}
}

// Catalog is an ordered collection of Messages keyed by msgid, plus
// metadata. The empty msgid is reserved for metadata and is never one of
// Messages.
type Catalog struct {
	Metadata CatalogMetadata
	order    []string
	byID     map[string]*Message
}

// New returns an empty catalog.
func New(meta CatalogMetadata) *Catalog {
	return &Catalog{Metadata: meta, byID: map[string]*Message{}}
}

// Find returns the message with the given msgid, or nil.
func (c *Catalog) Find(msgid string) *Message {
	return c.byID[msgid]
}

// AppendOrUpdate inserts msg, or if its msgid already exists, appends the
// new source locations to the existing entry (§3 Catalog uniqueness
// invariant).
func (c *Catalog) AppendOrUpdate(msg Message) {
	if existing, ok := c.byID[msg.MsgID]; ok {
		if existing.Source == "" {
			existing.Source = msg.Source
		} else if msg.Source != "" {
			existing.Source = existing.Source + "\n" + msg.Source
		}
		if existing.Comment == "" {
			existing.Comment = msg.Comment
		}
		return
	}
	m := msg
	if c.byID == nil {
		c.byID = map[string]*Message{}
	}
	c.byID[msg.MsgID] = &m
	c.order = append(c.order, msg.MsgID)
}

// Put unconditionally inserts or replaces the message at msgid, preserving
// insertion order on first insert. Used by the normalizer, which computes
// merge semantics itself.
func (c *Catalog) Put(msg Message) {
	if _, ok := c.byID[msg.MsgID]; !ok {
		c.order = append(c.order, msg.MsgID)
	}
	if c.byID == nil {
		c.byID = map[string]*Message{}
	}
	m := msg
	c.byID[msg.MsgID] = &m
}

// Messages returns all messages in insertion order.
func (c *Catalog) Messages() []*Message {
	out := make([]*Message, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of messages (excluding the metadata entry).
func (c *Catalog) Len() int { return len(c.order) }

// SortByMsgID reorders messages lexicographically, useful for deterministic
// output independent of extraction walk order.
func (c *Catalog) SortByMsgID() {
	sort.Strings(c.order)
}

// CatalogMap maps an output-relative path (including its ".pot" extension)
// to its Catalog, used by the depth-splitting extractor (C5/C8).
type CatalogMap map[string]*Catalog

// Get returns the catalog at path, creating one with meta if absent.
func (m CatalogMap) Get(path string, meta CatalogMetadata) *Catalog {
	if c, ok := m[path]; ok {
		return c
	}
	c := New(meta)
	m[path] = c
	return c
}

// Paths returns the map's keys, sorted for deterministic iteration.
func (m CatalogMap) Paths() []string {
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DedupSources splits source on newlines, removes consecutive duplicate
// lines, and rewraps at <=76 columns (§4.5 step 6).
func DedupSources(source string) string {
	lines := strings.Split(source, "\n")
	var deduped []string
	for _, l := range lines {
		if l == "" {
			continue
		}
		if len(deduped) > 0 && deduped[len(deduped)-1] == l {
			continue
		}
		deduped = append(deduped, l)
	}
	return WrapSources(strings.Join(deduped, " "))
}
