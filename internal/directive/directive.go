// Package directive recognizes the HTML-comment directives that steer the
// grouper: "<!-- i18n: skip -->" and "<!-- i18n: comment: <text> -->" (the
// "mdbook-xgettext:" prefix is accepted as a synonym for "i18n:").
package directive

import "regexp"

// Kind classifies a recognized directive.
type Kind int

const (
	Skip Kind = iota
	Comment
)

// Directive is a parsed directive command.
type Directive struct {
	Kind Kind
	Text string // Comment payload; empty for Skip
}

var pattern = regexp.MustCompile(`(?s)^<!-{2,}\s*(?:i18n|mdbook-xgettext)\s*:(?P<command>.*[^-])-{2,}>$`)

// Parse attempts to interpret an inline HTML comment's raw text (the full
// "<!--...-->" span) as a directive. ok is false if raw is not a
// recognized directive comment, in which case it is ordinary inline/block
// HTML.
func Parse(raw string) (d Directive, ok bool) {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Directive{}, false
	}
	command := trimDelimiters(m[1])
	lower := toLower(command)
	switch {
	case lower == "skip":
		return Directive{Kind: Skip}, true
	case hasPrefixFold(command, "comment"):
		rest := command[len("comment"):]
		rest = trimDelimiters(rest)
		return Directive{Kind: Comment, Text: rest}, true
	default:
		return Directive{}, false
	}
}

func isDelimiter(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ':' || b == '-'
}

func trimDelimiters(s string) string {
	i := 0
	for i < len(s) && isDelimiter(s[i]) {
		i++
	}
	j := len(s)
	for j > i && isDelimiter(s[j-1]) {
		j--
	}
	return s[i:j]
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return toLower(s[:len(prefix)]) == prefix
}
