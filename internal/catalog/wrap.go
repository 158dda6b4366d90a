package catalog

import "strings"

const wrapColumn = 76

// WrapSources greedily word-wraps whitespace-separated "path:line" tokens
// into lines of at most wrapColumn columns, never hyphenating a token (a
// token longer than the column budget gets its own line). This mirrors the
// original's wrap_sources, which has no direct library equivalent anywhere
// in the retrieval pack; gettext's own wrapping convention for "#:" comment
// lines is exactly this greedy, no-hyphenation refill.
func WrapSources(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ""
	}
	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, tok := range tokens {
		add := len(tok)
		if curLen == 0 {
			cur.WriteString(tok)
			curLen = add
			continue
		}
		if curLen+1+add > wrapColumn {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(tok)
			curLen = add
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(tok)
		curLen += 1 + add
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}
