// Package normalize implements the catalog normalizer (C7): re-running
// every msgid/msgstr through the extractor so a catalog written against an
// older chapter revision (or hand-edited) collapses back onto the same
// message shapes a fresh xgettext pass would produce.
package normalize

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/mdbook-i18n-helpers/internal/catalog"
	"github.com/google/mdbook-i18n-helpers/internal/xgettext"
)

// SourceLookup resolves a source path (as found in a "path:line" token) to
// its on-disk content. Used to repair a reference-style link in a msgid
// whose definition lived in a sibling message from a catalog written before
// i18n-helpers 0.2, when that sibling is no longer present either.
type SourceLookup func(path string) (string, bool)

// FileSourceLookup reads path directly off disk, the default lookup used by
// the normalize command.
func FileSourceLookup(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

var (
	linkDefPattern = regexp.MustCompile(`(?m)^ {0,3}\[([^\]]+)\]:\s*\S`)
	linkRefPattern = regexp.MustCompile(`\[([^\]\[]+)\](\[([^\]\[]*)\])?`)
)

// hasBrokenLink reports whether text contains a reference, collapsed, or
// shortcut link whose definition does not appear in text itself. Unlike the
// pulldown-cmark original, goldmark quietly renders an unresolved reference
// as literal brackets rather than tagging it, so this is a best-effort
// regex scan over the raw Markdown rather than a parser callback: a bracket
// pair immediately followed by "(" is inline form and never counts.
func hasBrokenLink(text string) bool {
	defs := map[string]bool{}
	for _, m := range linkDefPattern.FindAllStringSubmatch(text, -1) {
		defs[strings.ToLower(strings.TrimSpace(m[1]))] = true
	}
	matches := linkRefPattern.FindAllStringSubmatchIndex(text, -1)
	for _, m := range matches {
		if m[1] < len(text) && text[m[1]] == '(' {
			continue
		}
		label := text[m[2]:m[3]]
		if m[4] != -1 && m[6] != -1 && m[7] > m[6] {
			label = text[m[6]:m[7]]
		}
		if !defs[strings.ToLower(strings.TrimSpace(label))] {
			return true
		}
	}
	return false
}

func parseSource(source string) (path string, line int, ok bool) {
	idx := strings.Index(source, ":")
	if idx < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(source[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return source[:idx], n, true
}

// parseSingleSource succeeds only when source is exactly one "path:line"
// token: a message with more than one source location is ambiguous about
// which sibling document to consult, so the broken-link repair is skipped.
func parseSingleSource(source string) (string, bool) {
	if strings.ContainsAny(source, " \t\n") {
		return "", false
	}
	path, _, ok := parseSource(source)
	return path, ok
}

func computeSource(source string, delta int) string {
	var parts []string
	for _, tok := range strings.Fields(source) {
		if path, line, ok := parseSource(tok); ok {
			parts = append(parts, fmt.Sprintf("%s:%d", path, line+delta))
		} else {
			parts = append(parts, tok)
		}
	}
	return catalog.WrapSources(strings.Join(parts, "\n"))
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return len(parts)
}

// extractedPair is one (line, text) tuple from running a document through
// the extractor, projected down to what the normalizer needs.
type extractedPair struct {
	Line int
	Text string
}

func extractDocumentMessages(doc string) ([]extractedPair, error) {
	msgs, err := xgettext.ExtractMessages(doc)
	if err != nil {
		return nil, err
	}
	out := make([]extractedPair, len(msgs))
	for i, m := range msgs {
		out[i] = extractedPair{Line: m.Line, Text: m.MsgID}
	}
	return out, nil
}

type field int

const (
	fieldMsgID field = iota
	fieldMsgStr
)

type sourceEntry struct {
	Line          int
	MsgID, MsgStr string
}

func (f field) project(msg *catalog.Message) string {
	if f == fieldMsgID {
		return msg.MsgID
	}
	return msg.MsgStr
}

func (f field) projectEntry(e sourceEntry) string {
	if f == fieldMsgID {
		return e.MsgID
	}
	return e.MsgStr
}

// sourceMap indexes every message in a catalog by the source paths it
// touches, sorted by line, so a broken link's document can be repaired by
// splicing in sibling messages from the same chapter (§4.7).
type sourceMap map[string][]sourceEntry

func buildSourceMap(cat *catalog.Catalog) sourceMap {
	m := sourceMap{}
	for _, msg := range cat.Messages() {
		for _, tok := range strings.Fields(msg.Source) {
			path, line, ok := parseSource(tok)
			if !ok {
				path, line = tok, 0
			}
			m[path] = append(m[path], sourceEntry{Line: line, MsgID: msg.MsgID, MsgStr: msg.MsgStr})
		}
	}
	for k := range m {
		sort.Slice(m[k], func(i, j int) bool { return m[k][i].Line < m[k][j].Line })
	}
	return m
}

// extractField extracts msg's given field, repairing a broken link by
// constructing a larger document out of sibling messages (and, failing
// that, the on-disk source file) before re-extracting and truncating back
// to the lines that belong to msg alone.
func (m sourceMap) extractField(msg *catalog.Message, f field, lookup SourceLookup) ([]extractedPair, error) {
	document := f.project(msg)
	if !hasBrokenLink(document) {
		return extractDocumentMessages(document)
	}

	path, ok := parseSingleSource(msg.Source)
	if !ok {
		return extractDocumentMessages(document)
	}

	var full strings.Builder
	full.WriteString(document)
	for _, e := range m[path] {
		other := f.projectEntry(e)
		if other == document {
			continue
		}
		full.WriteString("\n\n")
		full.WriteString(other)
	}

	if lookup != nil && hasBrokenLink(full.String()) {
		if content, ok := lookup(path); ok {
			full.WriteString("\n\n")
			full.WriteString(content)
		}
	}

	messages, err := extractDocumentMessages(full.String())
	if err != nil {
		return nil, err
	}
	limit := lineCount(document)
	cut := len(messages)
	for i, p := range messages {
		if p.Line > limit {
			cut = i
			break
		}
	}
	return messages[:cut], nil
}

// Normalize re-derives every message's msgid/msgstr pair from scratch and
// rebuilds a catalog from the result, merging first-translated-wins when
// two original entries collapse onto the same normalized msgid (§4.7).
func Normalize(cat *catalog.Catalog, lookup SourceLookup) (*catalog.Catalog, error) {
	srcMap := buildSourceMap(cat)

	type built struct {
		Source        string
		MsgID, MsgStr string
		Fuzzy         bool
	}
	var newMessages []built

	for _, msg := range cat.Messages() {
		newMsgIDs, err := srcMap.extractField(msg, fieldMsgID, lookup)
		if err != nil {
			return nil, err
		}
		if len(newMsgIDs) == 0 {
			// Nothing to normalize, e.g. the old msgid was a bare HTML
			// element like "<b>Foo" that no longer extracts to anything.
			continue
		}

		newMsgStrs, err := srcMap.extractField(msg, fieldMsgStr, lookup)
		if err != nil {
			return nil, err
		}

		fuzzy := msg.IsFuzzy() || (msg.Translated() && len(newMsgIDs) != len(newMsgStrs))

		switch {
		case len(newMsgIDs) < len(newMsgStrs):
			tail := make([]string, 0, len(newMsgStrs)-len(newMsgIDs)+1)
			for _, p := range newMsgStrs[len(newMsgIDs)-1:] {
				tail = append(tail, p.Text)
			}
			newMsgStrs = append(newMsgStrs[:len(newMsgIDs)-1], extractedPair{Text: strings.Join(tail, "\n\n")})
		case len(newMsgIDs) > len(newMsgStrs):
			for len(newMsgStrs) < len(newMsgIDs) {
				newMsgStrs = append(newMsgStrs, extractedPair{})
			}
		}

		for i, p := range newMsgIDs {
			newMessages = append(newMessages, built{
				Source: computeSource(msg.Source, p.Line-1),
				MsgID:  p.Text,
				MsgStr: newMsgStrs[i].Text,
				Fuzzy:  fuzzy,
			})
		}
	}

	out := catalog.New(cat.Metadata)
	for _, nm := range newMessages {
		if existing := out.Find(nm.MsgID); existing != nil {
			if !existing.Translated() && nm.MsgStr != "" {
				existing.MsgStr = nm.MsgStr
				if nm.Fuzzy {
					existing.SetFuzzy(true)
				}
			}
			if existing.Source == "" {
				existing.Source = nm.Source
			} else {
				existing.Source = existing.Source + "\n" + nm.Source
			}
			continue
		}
		m := catalog.Message{MsgID: nm.MsgID, MsgStr: nm.MsgStr, Source: nm.Source}
		if nm.Fuzzy {
			m.SetFuzzy(true)
		}
		out.Put(m)
	}
	return out, nil
}
