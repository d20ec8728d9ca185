// Package mdtable treats pipe tables inside a markdown document as a tiny
// row-oriented database. A document may hold several tables, each preceded by
// a section header; the engine locates tables by a header-signature match,
// parses their data rows, and rewrites individual tables in place while
// keeping the rest of the document byte-identical.
package mdtable

import (
	"regexp"
	"strings"
)

// Marker is a (prefix, suffix) pair used to recognize a value embedded in a
// single line, e.g. ("# ", "\n") for a section title. The suffix may include
// the line's trailing newline.
type Marker struct {
	Prefix string
	Suffix string
}

// Template describes the shape shared by every table in one document:
// the column keys in physical order, their display headers, and the marker
// that introduces a table's section title.
type Template struct {
	// Columns lists the stable column keys; their order is the physical
	// column order in the rendered table.
	Columns []string

	// Headers maps a column key to its display header text.
	Headers map[string]string

	// Separator marks the section header line preceding each table.
	Separator Marker
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func stripWhitespace(s string) string {
	return whitespacePattern.ReplaceAllString(s, "")
}

// headerCells returns the display headers in column order.
func (t *Template) headerCells() []string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = t.Headers[c]
	}
	return cells
}

// signature is the whitespace-normalized form of the rendered header row.
// A document line whose whitespace-stripped form equals the signature is a
// table header line, regardless of how the columns happen to be padded.
func (t *Template) signature() string {
	return stripWhitespace("|" + strings.Join(t.headerCells(), "|") + "|")
}
