// Command mdbook-i18n-report is a convenience tool, not part of the core
// extract/translate/normalize pipeline: it prints translated/fuzzy/
// untranslated counts per source file for a PO or POT catalog, exercising
// only the public internal/catalog API the way a downstream report
// generator would.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/google/mdbook-i18n-helpers/internal/catalog"
)

var rootCmd = &cobra.Command{
	Use:           "mdbook-i18n-report <catalog.po>",
	Short:         "report translation progress per source file for a PO/POT catalog",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.ParseFile(args[0])
		if err != nil {
			return err
		}
		printReport(cat)
		return nil
	},
}

type fileStat struct {
	Translated, Fuzzy, Untranslated int
}

func printReport(cat *catalog.Catalog) {
	perFile := map[string]*fileStat{}
	var order []string
	for _, m := range cat.Messages() {
		for _, tok := range strings.Fields(m.Source) {
			path := tok
			if idx := strings.LastIndex(tok, ":"); idx >= 0 {
				path = tok[:idx]
			}
			s, ok := perFile[path]
			if !ok {
				s = &fileStat{}
				perFile[path] = s
				order = append(order, path)
			}
			switch {
			case m.IsFuzzy():
				s.Fuzzy++
			case m.Translated():
				s.Translated++
			default:
				s.Untranslated++
			}
		}
	}
	sort.Strings(order)

	fmt.Printf("%-40s %10s %10s %12s\n", "source", "translated", "fuzzy", "untranslated")
	for _, path := range order {
		s := perFile[path]
		fmt.Printf("%-40s %10d %10d %12d\n", path, s.Translated, s.Fuzzy, s.Untranslated)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
