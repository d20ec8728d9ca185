package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/lineio"
	"github.com/aidanlsb/bib/internal/page"
	"github.com/aidanlsb/bib/internal/refs"
	"github.com/aidanlsb/bib/internal/ui"
)

var (
	bibtexPathFlag      string
	bibtexCondensedFlag bool
)

var bibtexCmd = &cobra.Command{
	Use:   "bibtex",
	Short: "Generate a .bib file from the index",
	Long: `Collects the bibtex blocks from every reference page, in index
order, into a single .bib file. Each table becomes a commented section.
Condensed entries (no url) are preferred by default; use --condensed=false
for the full entries.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		tmpl := settings.PageTemplate()

		var b strings.Builder
		var warnings []Warning
		banner := strings.Repeat("%", 40)
		entries := 0

		for _, table := range index.Tables {
			b.WriteString(banner + "\n")
			b.WriteString("% " + table.Title + "\n")
			b.WriteString(banner + "\n\n")

			for _, row := range table.Rows {
				relPath := row.Entry[refs.FieldReference]
				if relPath == "" {
					warnings = append(warnings, Warning{
						Code:    WarnRowSkipped,
						Message: fmt.Sprintf("row %q has no reference page", row.Entry[refs.FieldTitle]),
						Table:   table.Title,
					})
					continue
				}

				pg, err := page.Load(pageAbsPath(relPath), tmpl)
				if err != nil {
					warnings = append(warnings, Warning{
						Code:    WarnPageMissing,
						Message: fmt.Sprintf("failed to read %s, skipping: %v", relPath, err),
						Table:   table.Title,
					})
					continue
				}

				ref := refs.FromPage(pg.Fields, pg.Blocks)
				entry := ref.BibTeX
				if bibtexCondensedFlag && ref.BibTeXCondensed != "" {
					entry = ref.BibTeXCondensed
				}
				if entry == "" {
					warnings = append(warnings, Warning{
						Code:    WarnRowSkipped,
						Message: fmt.Sprintf("%s has no bibtex block, skipping", relPath),
						Table:   table.Title,
					})
					continue
				}
				b.WriteString(entry + "\n\n")
				entries++
			}
		}

		outPath := bibtexPathFlag + ".bib"
		if err := lineio.WriteString(outPath, b.String()); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"path":    outPath,
				"entries": entries,
			}, warnings, &Meta{Count: entries})
			return nil
		}

		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		fmt.Println(ui.Successf("Wrote %s %s", ui.FilePath(outPath), ui.Count(entries, "entry", "entries")))
		return nil
	},
}

func init() {
	bibtexCmd.Flags().StringVar(&bibtexPathFlag, "path", "ref", "Output file (\".bib\" is appended)")
	bibtexCmd.Flags().BoolVar(&bibtexCondensedFlag, "condensed", true, "Prefer condensed entries without urls")
	rootCmd.AddCommand(bibtexCmd)
}
