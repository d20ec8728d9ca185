package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/bib/internal/lookup"
	"github.com/aidanlsb/bib/internal/mdtable"
	"github.com/aidanlsb/bib/internal/page"
	"github.com/aidanlsb/bib/internal/refs"
	"github.com/aidanlsb/bib/internal/ui"
)

var addTableFlag string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Look up a paper and add it to the index",
	Long: `Looks the title up on DBLP (supplemented from arXiv and Semantic
Scholar), writes a reference page under references/, and appends a row to
the index. With --table the row goes into the named table; table names
match fuzzily, so "baseline" finds a "Baselines" section.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]

		index, err := loadIndex()
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		tableTitle, err := resolveTableArg(index, addTableFlag)
		if err != nil {
			return handleError(ErrTableNotFound, err, "")
		}

		client, warnings := newLookupClient()
		if client.Cache != nil {
			defer client.Cache.Close()
		}

		spin := newSearchSpinner(fmt.Sprintf("Searching for %q", title))
		candidates, err := client.Candidates(cmd.Context(), title)
		spin.Stop()
		if err != nil {
			if errors.Is(err, lookup.ErrNoMatch) {
				return handleError(ErrLookupNoMatch, err,
					"Try the exact title as published")
			}
			return handleError(ErrLookupFailed, err, "")
		}

		ref, err := chooseCandidate(candidates, title)
		if err != nil {
			if errors.Is(err, errPickCancelled) {
				return handleErrorMsg(ErrLookupCancelled, "no paper selected", "")
			}
			return handleError(ErrInvalidInput, err, "")
		}
		client.Supplement(cmd.Context(), ref)

		key, err := dedupKey(ref.Key())
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		ref.BibTeX = ref.RenderBibTeX(key)
		ref.BibTeXCondensed = ref.RenderBibTeXCondensed(key)

		relPath := pageRelPath(key)
		if err := writeReference(index, ref, relPath, tableTitle); err != nil {
			if errors.Is(err, errNoTables) {
				return handleErrorMsg(ErrTableNotFound, err.Error(), "")
			}
			return handleError(ErrFileWriteError, err, "")
		}

		rowTable := tableTitle
		if rowTable == "" && len(index.Tables) > 0 {
			rowTable = index.Tables[0].Title
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]string{
				"key":   key,
				"title": ref.Title,
				"page":  relPath,
				"table": rowTable,
			}, warnings, nil)
			return nil
		}

		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, ui.Warning(w.Message))
		}
		fmt.Println(ui.Successf("Added %q as %s", ref.Title, ui.Key(key)))
		fmt.Println(ui.Hint("  " + relPath))
		return nil
	},
}

// errNoTables is returned when the index has no table to insert into.
var errNoTables = errors.New("the index has no tables; add a section header and run 'bib format'")

// writeReference creates the reference page and appends the index row. The
// page is removed again if the row cannot be written, so a failed add never
// leaves an orphan page behind.
func writeReference(index *mdtable.Index, ref *refs.Reference, relPath, tableTitle string) error {
	if len(index.Tables) == 0 {
		return errNoTables
	}
	if err := ensureReferenceDir(); err != nil {
		return err
	}
	absPath := pageAbsPath(relPath)
	if _, err := page.Create(absPath, ref.PageFields(), ref.Blocks(), settings.PageTemplate()); err != nil {
		return err
	}

	ok, err := index.InsertRow(ref.RowValues(relPath), tableTitle)
	if err == nil && !ok {
		err = fmt.Errorf("table %q not found in the index", tableTitle)
	}
	if err != nil {
		os.Remove(absPath)
		return err
	}
	return nil
}

// chooseCandidate picks the reference to add: the single hit, the user's
// interactive choice, or (non-interactively) the exact title match, falling
// back to the first hit.
func chooseCandidate(candidates []*refs.Reference, title string) (*refs.Reference, error) {
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if !isJSONOutput() && isatty.IsTerminal(os.Stdin.Fd()) {
		return pickCandidate(candidates)
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Title, title) {
			return c, nil
		}
	}
	return candidates[0], nil
}

func newSearchSpinner(message string) *ui.Spinner {
	s := ui.NewSpinner(message)
	if !isJSONOutput() {
		s.Start()
	}
	return s
}

func init() {
	addCmd.Flags().StringVar(&addTableFlag, "table", "", "Table to insert into (fuzzy-matched)")
	rootCmd.AddCommand(addCmd)
}
