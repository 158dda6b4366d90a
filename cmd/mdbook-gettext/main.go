// Command mdbook-gettext is an mdbook preprocessor: it reads the book on
// stdin, splices in a language's PO translations, and writes the
// translated book back to stdout (§4.6, §6, §7).
package main

import (
	"os"
	"path/filepath"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/google/mdbook-i18n-helpers/internal/bookio"
	"github.com/google/mdbook-i18n-helpers/internal/catalog"
	"github.com/google/mdbook-i18n-helpers/internal/gettext"
)

var rootCmd = &cobra.Command{
	Use:           "mdbook-gettext",
	Short:         "mdbook preprocessor that translates a book using a PO catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPreprocess,
}

var supportsCmd = &cobra.Command{
	Use:   "supports [renderer]",
	Short: "reports whether this preprocessor supports the given renderer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// The xgettext renderer wants the original, untranslated book, so
		// this preprocessor opts itself out of that one pipeline.
		if args[0] == "xgettext" {
			os.Exit(1)
		}
		os.Exit(0)
	},
}

func init() {
	rootCmd.AddCommand(supportsCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	ctx, err := bookio.Decode(os.Stdin)
	if err != nil {
		return err
	}

	if ctx.Config.Book.Language == "" {
		return bookio.Encode(os.Stdout, ctx)
	}

	poDir := "po"
	if v, ok := ctx.Config.Get("preprocessor.gettext.po-dir"); ok {
		if s, ok2 := v.(string); ok2 && s != "" {
			poDir = s
		}
	}
	path := filepath.Join(ctx.Root, poDir, ctx.Config.Book.Language+".po")
	if _, err := os.Stat(path); err != nil {
		// No PO file for this language: pass the book through untranslated.
		return bookio.Encode(os.Stdout, ctx)
	}

	cat, err := catalog.ParseFile(path)
	if err != nil {
		return err
	}
	if err := gettext.AddStrippedSummaryTranslations(cat); err != nil {
		return err
	}

	for i := range ctx.Book.Sections {
		if err := translateItem(&ctx.Book.Sections[i], cat); err != nil {
			return err
		}
	}

	return bookio.Encode(os.Stdout, ctx)
}

func translateItem(item *bookio.BookItem, cat *catalog.Catalog) error {
	switch {
	case item.PartTitle != nil:
		translated := gettext.TranslateBookText(*item.PartTitle, cat)
		item.PartTitle = &translated
	case item.Chapter != nil:
		return translateChapter(item.Chapter, cat)
	}
	return nil
}

func translateChapter(ch *bookio.Chapter, cat *catalog.Catalog) error {
	if ch.Path != nil {
		translated, err := gettext.TranslateChapter(ch.Content, cat)
		if err != nil {
			return err
		}
		ch.Content = translated
	}
	ch.Name = gettext.TranslateBookText(ch.Name, cat)
	for i := range ch.SubItems {
		if err := translateItem(&ch.SubItems[i], cat); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
