package xgettext

import (
	"fmt"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/google/mdbook-i18n-helpers/internal/bookio"
	"github.com/google/mdbook-i18n-helpers/internal/catalog"
	"github.com/google/mdbook-i18n-helpers/internal/group"
	"github.com/google/mdbook-i18n-helpers/internal/mderr"
	"github.com/google/mdbook-i18n-helpers/internal/mdevent"
	"github.com/google/mdbook-i18n-helpers/internal/reconstruct"
)

// SummaryReader returns the summary document's bytes given its path
// relative to the book root.
type SummaryReader func(path string) (string, error)

// Extracted is one extracted (line, msgid, comment) tuple.
type Extracted struct {
	Line    int
	MsgID   string
	Comment string
}

// ExtractBook walks ctx's book tree and produces a CatalogMap keyed by
// output-relative path (§4.5).
func ExtractBook(ctx *bookio.RenderContext, readSummary SummaryReader) (catalog.CatalogMap, error) {
	granularity, err := granularityOf(ctx)
	if err != nil {
		return nil, err
	}
	depth, err := depthOf(ctx)
	if err != nil {
		return nil, err
	}

	meta := catalog.NewMetadata(ctx.Config.Book.Title, ctx.Config.Book.Language, time.Now())
	catalogs := catalog.CatalogMap{}
	pb := NewPathBuilder(depth)

	root := catalogs.Get(pb.Get(), meta)
	if ctx.Config.Book.Title != "" {
		root.AppendOrUpdate(catalog.Message{MsgID: ctx.Config.Book.Title, Source: buildSource("book.toml", 1, granularity), Comment: "Book title"})
	}
	if ctx.Config.Book.Description != "" {
		root.AppendOrUpdate(catalog.Message{MsgID: ctx.Config.Book.Description, Source: buildSource("book.toml", 1, granularity), Comment: "Book description"})
	}

	summaryPath := ctx.Config.Book.Src + "/SUMMARY.md"
	if readSummary != nil {
		content, err := readSummary(summaryPath)
		if err != nil {
			return nil, mderr.New(mderr.IoError, "reading summary "+summaryPath, err)
		}
		msgs, err := extractSummaryMessages(content)
		if err != nil {
			return nil, err
		}
		pb.Push("summary")
		pb.Push("summary")
		cat := catalogs.Get(pb.Get(), meta)
		for _, m := range msgs {
			cat.AppendOrUpdate(catalog.Message{MsgID: m.MsgID, Source: buildSource(summaryPath, m.Line, granularity)})
		}
		pb.Pop()
	}

	for _, item := range ctx.Book.Sections {
		if err := walkItem(item, pb, catalogs, meta, ctx.Config.Book.Src, granularity); err != nil {
			return nil, err
		}
	}

	for _, cat := range catalogs {
		for _, m := range cat.Messages() {
			m.Source = catalog.DedupSources(m.Source)
		}
	}
	return catalogs, nil
}

func walkItem(item bookio.BookItem, pb *PathBuilder, catalogs catalog.CatalogMap, meta catalog.CatalogMetadata, src string, granularity int) error {
	switch {
	case item.PartTitle != nil:
		pb.Pop()
		pb.Push(*item.PartTitle)
	case item.Chapter != nil:
		return walkChapter(*item.Chapter, pb, catalogs, meta, src, granularity)
	}
	return nil
}

func walkChapter(ch bookio.Chapter, pb *PathBuilder, catalogs catalog.CatalogMap, meta catalog.CatalogMetadata, src string, granularity int) error {
	pb.Push(ch.Name)
	defer pb.Pop()

	if ch.Path != nil {
		msgs, err := ExtractMessages(ch.Content)
		if err != nil {
			return err
		}
		cat := catalogs.Get(pb.Get(), meta)
		source := src + "/" + *ch.Path
		for _, m := range msgs {
			cat.AppendOrUpdate(catalog.Message{MsgID: m.MsgID, Source: buildSource(source, m.Line, granularity), Comment: m.Comment})
		}
		if ch.Content != "" && hasMissingSubItemPath(ch.SubItems) {
			logger.Infof("chapter %q has sub-items with a missing path; its own content will still be extracted", ch.Name)
		}
	}

	for _, sub := range ch.SubItems {
		if err := walkItem(sub, pb, catalogs, meta, src, granularity); err != nil {
			return err
		}
	}
	return nil
}

func hasMissingSubItemPath(items []bookio.BookItem) bool {
	for _, it := range items {
		if it.Chapter != nil && it.Chapter.Path == nil && len(it.Chapter.SubItems) == 0 {
			return true
		}
	}
	return false
}

func granularityOf(ctx *bookio.RenderContext) (int, error) {
	v, ok := ctx.Config.Get("output.xgettext.granularity")
	if !ok {
		return 1, nil
	}
	return catalog.ParseGranularity(v)
}

func depthOf(ctx *bookio.RenderContext) (int, error) {
	v, ok := ctx.Config.Get("output.xgettext.depth")
	if !ok {
		return 0, nil
	}
	n, err := catalog.ParseGranularity(v)
	if err != nil {
		return 0, mderr.New(mderr.ConfigError, "output.xgettext.depth must be an unsigned integer", err)
	}
	return n, nil
}

// buildSource formats a "path:line" source token per the granularity knob.
func buildSource(path string, line, granularity int) string {
	switch {
	case granularity == 0:
		return path
	case granularity == 1:
		return fmt.Sprintf("%s:%d", path, line)
	default:
		rounded := line - line%granularity
		if rounded < 1 {
			rounded = 1
		}
		return fmt.Sprintf("%s:%d", path, rounded)
	}
}

// ExtractMessages runs the C1->C2->C3->C4 pipeline over content, threading
// reconstructor state across every group (Skip groups still advance it),
// and returns one tuple per non-empty Translate group.
func ExtractMessages(content string) ([]Extracted, error) {
	events, err := mdevent.Extract(content, nil)
	if err != nil {
		return nil, err
	}
	groups := group.Events(events)

	var out []Extracted
	var state *reconstruct.ParseState
	for _, g := range groups {
		md, newState, err := reconstruct.Reconstruct(g.Events, state)
		if err != nil {
			return nil, err
		}
		state = &newState
		if g.Kind == group.Translate && strings.TrimSpace(md) != "" {
			line := 0
			if len(g.Events) > 0 {
				line = g.Events[0].Line
			}
			out = append(out, Extracted{Line: line, MsgID: md, Comment: g.Comment})
		}
	}
	return out, nil
}

// extractSummaryMessages is like ExtractMessages but additionally strips
// the outer link wrapper from each Translate group before reconstructing,
// so book chrome (chapter titles in the nav) receives the plain label
// while inline formatting is preserved (§4.5 step 3).
func extractSummaryMessages(content string) ([]Extracted, error) {
	events, err := mdevent.Extract(content, nil)
	if err != nil {
		return nil, err
	}
	groups := group.Events(events)

	var out []Extracted
	var state *reconstruct.ParseState
	for _, g := range groups {
		evs := g.Events
		if g.Kind == group.Translate {
			evs = stripLinks(evs)
		}
		md, newState, err := reconstruct.Reconstruct(evs, state)
		if err != nil {
			return nil, err
		}
		state = &newState
		if g.Kind == group.Translate && strings.TrimSpace(md) != "" {
			line := 0
			if len(g.Events) > 0 {
				line = g.Events[0].Line
			}
			out = append(out, Extracted{Line: line, MsgID: md})
		}
	}
	return out, nil
}

func stripLinks(events []mdevent.Positioned) []mdevent.Positioned {
	out := make([]mdevent.Positioned, 0, len(events))
	for _, e := range events {
		if e.Event.Kind == mdevent.KindStartLink || e.Event.Kind == mdevent.KindEndLink {
			continue
		}
		out = append(out, e)
	}
	return out
}
