package group

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
)

// expandCodeBlock applies §4.3's code-block sub-parsing to a Translate
// group that is exactly [StartCodeBlock, ...Text, EndCodeBlock]. Any other
// group is returned unchanged.
func expandCodeBlock(g Group) []Group {
	if g.Kind != Translate || len(g.Events) < 2 {
		return []Group{g}
	}
	first := g.Events[0].Event
	last := g.Events[len(g.Events)-1].Event
	if first.Kind != mdevent.KindStartCodeBlock || last.Kind != mdevent.KindEndCodeBlock {
		return []Group{g}
	}

	lang := firstToken(first.CodeBlock.Info)
	sub, ok := tokenizeCodeBlock(g.Events, lang)
	if !ok {
		sub = heuristicCodeBlock(g.Events)
	}
	return sub
}

func firstToken(info string) string {
	info = strings.TrimSpace(info)
	if idx := strings.IndexAny(info, ", \t"); idx >= 0 {
		info = info[:idx]
	}
	return info
}

// heuristicCodeBlock: translate the whole block iff its text contains a
// double quote or "//", else skip it whole (§4.3 step 3).
func heuristicCodeBlock(events []mdevent.Positioned) []Group {
	var b strings.Builder
	for _, p := range events {
		if p.Event.Kind == mdevent.KindText {
			b.WriteString(p.Event.Text)
		}
	}
	content := b.String()
	if strings.Contains(content, "\"") || strings.Contains(content, "//") {
		return []Group{{Kind: Translate, Events: events}}
	}
	return []Group{{Kind: Skip, Events: events}}
}

// tokenizeCodeBlock runs a syntax-aware tokenizer over every inner Text
// event and splits it into Translate (string/comment scope) and Skip
// sub-groups, spilling trailing whitespace of a translate run out as Skip.
// ok is false (surrendering to the heuristic) if no lexer is known for
// lang, or the tokenizer fails mid-stream.
func tokenizeCodeBlock(events []mdevent.Positioned, lang string) (out []Group, ok bool) {
	if lang == "" {
		return nil, false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	result := []Group{{Kind: Skip, Events: events[:1]}} // StartCodeBlock
	for _, p := range events[1 : len(events)-1] {
		if p.Event.Kind != mdevent.KindText {
			result = append(result, Group{Kind: Skip, Events: []mdevent.Positioned{p}})
			continue
		}
		subGroups, subOK := tokenizeText(lexer, p)
		if !subOK {
			return nil, false
		}
		result = append(result, subGroups...)
	}
	result = append(result, Group{Kind: Skip, Events: events[len(events)-1:]})
	return mergeAdjacent(result), true
}

func tokenizeText(lexer chroma.Lexer, p mdevent.Positioned) ([]Group, bool) {
	iter, err := lexer.Tokenise(nil, p.Event.Text)
	if err != nil {
		return nil, false
	}
	tokens := iter.Tokens()

	var out []Group
	offset := 0
	for _, tok := range tokens {
		if tok.Value == "" {
			continue
		}
		isTranslate := isTranslateScope(tok.Type)
		sub := mdevent.Positioned{
			Line:  p.Line + strings.Count(p.Event.Text[:offset], "\n"),
			Event: mdevent.Event{Kind: mdevent.KindText, Text: tok.Value},
		}
		kind := Skip
		if isTranslate {
			kind = Translate
		}
		out = append(out, Group{Kind: kind, Events: []mdevent.Positioned{sub}})
		offset += len(tok.Value)
	}
	return spillTrailingWhitespace(out), true
}

// spillTrailingWhitespace moves a Translate run's trailing whitespace-only
// suffix into its own Skip group, and absorbs whitespace-only Skip groups
// sandwiched between two Translate groups into the surrounding translate
// run (§4.3 step 2).
func spillTrailingWhitespace(groups []Group) []Group {
	// absorb whitespace-only Skip groups between two Translate groups
	for i := 1; i+1 < len(groups); i++ {
		if groups[i].Kind == Skip && isWhitespaceGroup(groups[i]) &&
			groups[i-1].Kind == Translate && groups[i+1].Kind == Translate {
			groups[i].Kind = Translate
		}
	}
	groups = mergeAdjacent(groups)

	var out []Group
	for _, g := range groups {
		if g.Kind != Translate {
			out = append(out, g)
			continue
		}
		trail := trailingWhitespaceLen(g)
		if trail == 0 || trail == totalLen(g) {
			out = append(out, g)
			continue
		}
		head, tail := splitTextGroup(g, totalLen(g)-trail)
		out = append(out, head, tail)
	}
	return out
}

func isWhitespaceGroup(g Group) bool {
	for _, p := range g.Events {
		if strings.TrimSpace(p.Event.Text) != "" {
			return false
		}
	}
	return true
}

func totalLen(g Group) int {
	n := 0
	for _, p := range g.Events {
		n += len(p.Event.Text)
	}
	return n
}

func trailingWhitespaceLen(g Group) int {
	n := 0
	for i := len(g.Events) - 1; i >= 0; i-- {
		s := g.Events[i].Event.Text
		for j := len(s) - 1; j >= 0; j-- {
			if s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r' {
				n++
			} else {
				return n
			}
		}
	}
	return n
}

// splitTextGroup splits a single-event-ish translate group's concatenated
// text at byte offset at, returning (head Translate, tail Skip).
func splitTextGroup(g Group, at int) (Group, Group) {
	var all strings.Builder
	line := 0
	if len(g.Events) > 0 {
		line = g.Events[0].Line
	}
	for _, p := range g.Events {
		all.WriteString(p.Event.Text)
	}
	full := all.String()
	head := mdevent.Positioned{Line: line, Event: mdevent.Event{Kind: mdevent.KindText, Text: full[:at]}}
	tail := mdevent.Positioned{Line: line, Event: mdevent.Event{Kind: mdevent.KindText, Text: full[at:]}}
	return Group{Kind: Translate, Events: []mdevent.Positioned{head}}, Group{Kind: Skip, Events: []mdevent.Positioned{tail}}
}

func mergeAdjacent(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if len(out) > 0 && out[len(out)-1].Kind == g.Kind {
			out[len(out)-1].Events = append(out[len(out)-1].Events, g.Events...)
			continue
		}
		out = append(out, g)
	}
	return out
}

// isTranslateScope reports whether a chroma token type is in the String or
// Comment category, the stand-in for syntect's "scope is a prefix of
// string/comment" check (§4.3 step 2).
func isTranslateScope(t chroma.TokenType) bool {
	name := t.String()
	return strings.HasPrefix(name, "Comment") || strings.HasPrefix(name, "LiteralString") || strings.HasPrefix(name, "String")
}
