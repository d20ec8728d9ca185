package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/lookup"
	"github.com/aidanlsb/bib/internal/page"
	"github.com/aidanlsb/bib/internal/refs"
	"github.com/aidanlsb/bib/internal/ui"
)

var updateTableFlag string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh every reference from its sources",
	Long: `Re-runs the lookup for each index row, rewriting the row and its
reference page with fresh metadata and citation counts. Rows whose title no
longer resolves are skipped with a warning. With --table only the named
table is refreshed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadIndex()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		tableTitle, err := resolveTableArg(index, updateTableFlag)
		if err != nil {
			return handleError(ErrTableNotFound, err, "")
		}

		client, warnings := newLookupClient()
		if client.Cache != nil {
			defer client.Cache.Close()
		}

		total := 0
		for _, table := range index.Tables {
			if tableTitle != "" && table.Title != tableTitle {
				continue
			}
			total += len(table.Rows)
		}

		progress := ui.NewProgress("Updating references", total)
		updated := 0
		for _, table := range index.Tables {
			if tableTitle != "" && table.Title != tableTitle {
				continue
			}
			for i, row := range table.Rows {
				progress.Increment()

				title := row.Entry[refs.FieldTitle]
				relPath := row.Entry[refs.FieldReference]
				if title == "" || relPath == "" {
					warnings = append(warnings, Warning{
						Code:    WarnRowSkipped,
						Message: fmt.Sprintf("row %d in %q has no title or reference", i+1, table.Title),
						Table:   table.Title,
					})
					continue
				}

				ref, err := client.Search(cmd.Context(), title)
				if err != nil {
					msg := fmt.Sprintf("no metadata found for %q, skipping", title)
					if !errors.Is(err, lookup.ErrNoMatch) {
						msg = fmt.Sprintf("lookup failed for %q, skipping: %v", title, err)
					}
					warnings = append(warnings, Warning{
						Code:    WarnRowSkipped,
						Message: msg,
						Table:   table.Title,
						Title:   title,
					})
					continue
				}

				key := keyFromPagePath(relPath)
				ref.BibTeX = ref.RenderBibTeX(key)
				ref.BibTeXCondensed = ref.RenderBibTeXCondensed(key)

				if err := refreshPage(relPath, ref, &warnings, table.Title); err != nil {
					progress.Done()
					return handleError(ErrFileWriteError, err, "")
				}

				ok, err := index.UpdateRow(i, ref.RowValues(relPath), table.Title)
				if err != nil {
					progress.Done()
					return handleError(ErrFileWriteError, err, "")
				}
				if !ok {
					warnings = append(warnings, Warning{
						Code:    WarnRowSkipped,
						Message: fmt.Sprintf("row %d in %q could not be rewritten, skipping", i+1, table.Title),
						Table:   table.Title,
						Title:   title,
					})
					continue
				}
				updated++
			}
		}
		progress.Done()

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]int{
				"updated": updated,
				"skipped": total - updated,
			}, warnings, &Meta{Count: updated})
			return nil
		}

		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, ui.Warning(w.Message))
		}
		fmt.Println(ui.Successf("Updated %d of %d references", updated, total))
		return nil
	},
}

// refreshPage rewrites the reference page with fresh metadata. A missing
// page is recreated; an unchanged work keeps its page untouched so
// hand-written notes around the markers never churn.
func refreshPage(relPath string, ref *refs.Reference, warnings *[]Warning, tableTitle string) error {
	absPath := pageAbsPath(relPath)
	tmpl := settings.PageTemplate()

	pg, err := page.Load(absPath, tmpl)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		*warnings = append(*warnings, Warning{
			Code:    WarnPageMissing,
			Message: fmt.Sprintf("page %s was missing, recreated", relPath),
			Table:   tableTitle,
			Title:   ref.Title,
		})
		if err := ensureReferenceDir(); err != nil {
			return err
		}
		_, err = page.Create(absPath, ref.PageFields(), ref.Blocks(), tmpl)
		return err
	}

	old := refs.FromPage(pg.Fields, pg.Blocks)
	if old.Same(ref) && old.BibTeX == ref.BibTeX {
		return nil
	}
	return pg.Update(ref.PageFields(), ref.Blocks())
}

func init() {
	updateCmd.Flags().StringVar(&updateTableFlag, "table", "", "Only refresh the named table (fuzzy-matched)")
	rootCmd.AddCommand(updateCmd)
}
