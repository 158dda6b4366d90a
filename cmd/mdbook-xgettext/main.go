// Command mdbook-xgettext is an mdbook renderer: it reads a RenderContext
// from stdin and writes one GNU gettext POT catalog per destination path
// under ctx.destination (§4.5, §6).
package main

import (
	"os"
	"path/filepath"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/google/mdbook-i18n-helpers/internal/bookio"
	"github.com/google/mdbook-i18n-helpers/internal/catalog"
	"github.com/google/mdbook-i18n-helpers/internal/xgettext"
)

var rootCmd = &cobra.Command{
	Use:           "mdbook-xgettext",
	Short:         "mdbook renderer that extracts translatable strings into POT catalogs",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := bookio.Decode(os.Stdin)
		if err != nil {
			return err
		}

		readSummary := func(path string) (string, error) {
			data, err := os.ReadFile(filepath.Join(ctx.Root, path))
			if err != nil {
				return "", err
			}
			return string(data), nil
		}

		catalogs, err := xgettext.ExtractBook(ctx, readSummary)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(ctx.Destination, 0o755); err != nil {
			return err
		}

		potFile := "messages.pot"
		if v, ok := ctx.Config.Get("output.xgettext.pot-file"); ok {
			if s, ok2 := v.(string); ok2 && s != "" {
				potFile = s
			}
		}

		for _, path := range catalogs.Paths() {
			out := path
			if len(catalogs) == 1 {
				out = potFile
			}
			full := filepath.Join(ctx.Destination, out)
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return err
			}
			if err := catalog.WriteFile(full, catalogs[path]); err != nil {
				return err
			}
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
