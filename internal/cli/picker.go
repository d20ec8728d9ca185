package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/aidanlsb/bib/internal/refs"
	"github.com/aidanlsb/bib/internal/ui"
)

// errPickCancelled is returned when the user declines every candidate.
var errPickCancelled = errors.New("selection cancelled")

// pickCandidate prompts the user to choose among lookup candidates.
func pickCandidate(candidates []*refs.Reference) (*refs.Reference, error) {
	fmt.Println(ui.Header("Multiple papers found:"))

	tbl := ui.NewTable(3)
	for i, c := range candidates {
		detail := c.ConciseAuthors()
		if extra := joinNonEmpty(c.Venue, c.Year); extra != "" {
			detail += ui.Hint(" · " + extra)
		}
		tbl.AddRow(fmt.Sprintf("  %d.", i+1), c.Title, detail)
	}
	fmt.Print(tbl.String())

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	input, err := line.Prompt(fmt.Sprintf("Select a paper (1-%d, 0 to cancel): ", len(candidates)))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return nil, errPickCancelled
		}
		return nil, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 || n > len(candidates) {
		return nil, errPickCancelled
	}
	if n == 0 {
		return nil, errPickCancelled
	}
	return candidates[n-1], nil
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
