package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/ui"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Re-align the index tables",
	Long: `Rewrites every table in the index with freshly computed column
widths. Values are untouched; formatting is idempotent, so running it twice
changes nothing. Run this after editing the index by hand.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		if err := index.Format(); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		rows := 0
		for _, t := range index.Tables {
			rows += len(t.Rows)
		}

		if isJSONOutput() {
			outputSuccess(map[string]int{
				"tables": len(index.Tables),
				"rows":   rows,
			}, &Meta{Count: rows})
			return nil
		}

		fmt.Println(ui.Successf("Formatted %s %s",
			settings.Index.Path, ui.Count(len(index.Tables), "table", "tables")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
