package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/page"
	"github.com/aidanlsb/bib/internal/refs"
	"github.com/aidanlsb/bib/internal/ui"
)

var showRawFlag bool

var showCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Display a reference page",
	Long: `Renders the reference page for a citation key in the terminal.
Outside a TTY (or with --raw) the raw markdown is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		relPath := pageRelPath(key)
		absPath := pageAbsPath(relPath)

		data, err := os.ReadFile(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrPageNotFound,
					fmt.Sprintf("no reference page for key %q", key),
					"Keys are listed in the index's reference column")
			}
			return handleError(ErrFileReadError, err, "")
		}

		if isJSONOutput() {
			pg, err := page.Load(absPath, settings.PageTemplate())
			if err != nil {
				return handleError(ErrFileReadError, err, "")
			}
			ref := refs.FromPage(pg.Fields, pg.Blocks)
			outputSuccess(map[string]interface{}{
				"key":              key,
				"page":             relPath,
				"kind":             ref.Kind.String(),
				"fields":           pg.Fields,
				"bibtex":           ref.BibTeX,
				"bibtex_condensed": ref.BibTeXCondensed,
			}, nil)
			return nil
		}

		display := ui.NewDisplayContext()
		if showRawFlag || !display.IsTTY {
			fmt.Print(string(data))
			return nil
		}

		rendered, err := ui.RenderMarkdown(string(data), display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			// Fall back to raw markdown rather than failing the command.
			fmt.Print(string(data))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRawFlag, "raw", false, "Print raw markdown without rendering")
	rootCmd.AddCommand(showCmd)
}
