// Command mdbook-i18n-normalize re-extracts every entry in a PO/POT file
// through the current extraction pipeline, so a catalog written against an
// older chapter revision lines up with what a fresh xgettext pass would
// produce (§4.7).
package main

import (
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/google/mdbook-i18n-helpers/internal/catalog"
	"github.com/google/mdbook-i18n-helpers/internal/normalize"
)

var rootCmd = &cobra.Command{
	Use:           "mdbook-i18n-normalize <input.po> <output.po>",
	Short:         "normalize the Markdown in a PO or POT file",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]

		if viper.GetBool("verbose") {
			logger.Infof("parsing %s", input)
		}
		cat, err := catalog.ParseFile(input)
		if err != nil {
			return err
		}

		normalized, err := normalize.Normalize(cat, normalize.FileSourceLookup)
		if err != nil {
			return err
		}
		if lang := viper.GetString("lang"); lang != "" {
			normalized.Metadata.Language = lang
		}

		if viper.GetBool("verbose") {
			logger.Infof("normalized %d messages into %d, writing %s", cat.Len(), normalized.Len(), output)
		}
		return catalog.WriteFile(output, normalized)
	},
}

func init() {
	rootCmd.Flags().Bool("verbose", false, "enable verbose diagnostic logging")
	rootCmd.Flags().String("lang", "", "override the catalog's Language header in the output")
	_ = viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("lang", rootCmd.Flags().Lookup("lang"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
