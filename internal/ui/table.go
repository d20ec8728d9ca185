package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table provides minimal columnar rendering for candidate lists and
// summaries. Simple spacing alignment, no borders; widths are display
// widths, so wide runes align.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := runewidth.StringWidth(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			sb.WriteString(cell)
			// Last column stays ragged
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-runewidth.StringWidth(cell)))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
