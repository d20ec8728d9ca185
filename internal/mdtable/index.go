package mdtable

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/aidanlsb/bib/internal/lineio"
)

// Table is one pipe-table block within the document. StartLine/EndLine bound
// the data rows only ([StartLine, EndLine), zero-based); the header and
// separator lines sit immediately above StartLine. Ranges of distinct tables
// never overlap and appear in document order.
type Table struct {
	Title     string
	Rows      []*Row
	StartLine int
	EndLine   int
}

// Row holds one record's column values. Values are untyped strings; numeric
// columns round-trip as text. Table is a back-reference, not ownership.
type Row struct {
	Table *Table
	Entry map[string]string
}

// Index is the markdown document holding the reference tables. It is
// reconstructed by a full scan on every load; mutations rewrite only the
// affected table's lines and persist the whole file in a single write.
type Index struct {
	Path     string
	Template *Template
	Tables   []*Table
}

// DefaultTitle is the section title written by Create.
const DefaultTitle = "Index"

// Create writes a brand-new index document containing a single section
// header and an empty table (header and separator rows, no data rows),
// then loads it.
func Create(path string, tmpl *Template) (*Index, error) {
	var b strings.Builder
	b.WriteString(tmpl.Separator.Prefix + DefaultTitle + tmpl.Separator.Suffix)
	for _, line := range renderTable(tmpl, nil) {
		b.WriteString(line)
	}
	if err := lineio.WriteString(path, b.String()); err != nil {
		return nil, err
	}
	return Load(path, tmpl)
}

// Load scans the document at path for tables matching the template. A
// document with zero matching tables yields an Index with no tables, not an
// error; callers must check for missing titles themselves.
func Load(path string, tmpl *Template) (*Index, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return nil, err
	}
	return &Index{Path: path, Template: tmpl, Tables: scan(lines, tmpl)}, nil
}

// Titles returns the table titles in document order.
func (x *Index) Titles() []string {
	titles := make([]string, len(x.Tables))
	for i, t := range x.Tables {
		titles[i] = t.Title
	}
	return titles
}

// Table returns the table with the given title.
func (x *Index) Table(title string) (*Table, bool) {
	for _, t := range x.Tables {
		if t.Title == title {
			return t, true
		}
	}
	return nil, false
}

// resolve picks the target table for a mutation. An empty name defaults to
// the first table in document order; a non-empty name must resolve through
// ResolveTitle or the mutation fails closed.
func (x *Index) resolve(name string) (*Table, bool) {
	if len(x.Tables) == 0 {
		return nil, false
	}
	if name == "" {
		return x.Tables[0], true
	}
	title, ok := ResolveTitle(x.Titles(), name)
	if !ok {
		return nil, false
	}
	return x.Table(title)
}

// InsertRow appends a row to the named table (or the first table when name
// is empty) and rewrites that table in place. Returns ok=false without
// touching the file when no table resolves.
func (x *Index) InsertRow(values map[string]string, name string) (bool, error) {
	table, ok := x.resolve(name)
	if !ok {
		return false, nil
	}
	table.Rows = append(table.Rows, &Row{Table: table, Entry: values})
	if err := x.writeTable(table); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateRow replaces the entry of row idx in the named table (or the first
// table when name is empty) and rewrites that table in place. Returns
// ok=false for an unresolved table or an out-of-range index.
func (x *Index) UpdateRow(idx int, values map[string]string, name string) (bool, error) {
	table, ok := x.resolve(name)
	if !ok {
		return false, nil
	}
	if idx < 0 || idx >= len(table.Rows) {
		return false, nil
	}
	table.Rows[idx].Entry = values
	if err := x.writeTable(table); err != nil {
		return false, err
	}
	return true, nil
}

// Format rewrites every table, re-aligning column widths without changing
// any values. Formatting is idempotent: a second run produces byte-identical
// output.
func (x *Index) Format() error {
	for _, t := range x.Tables {
		if err := x.writeTable(t); err != nil {
			return err
		}
	}
	return nil
}

// writeTable renders the table and splices it over its current line range:
// lines [0, StartLine-2) are kept (the -2 accounts for the header and
// separator immediately above the data rows), the rendered block replaces
// the middle, and lines [EndLine, ...) follow. It then repairs the recorded
// ranges: the table's own end moves to match its new row count, and every
// table that started after this one shifts by the row-count delta. Without
// that repair a second mutation against a later table would splice at stale
// line numbers and corrupt the file.
func (x *Index) writeTable(table *Table) error {
	rendered := renderTable(x.Template, table.Rows)

	lines, err := lineio.ReadLines(x.Path)
	if err != nil {
		return err
	}

	cut := table.StartLine - 2
	if cut < 0 {
		cut = 0
	}
	if cut > len(lines) {
		cut = len(lines)
	}

	out := make([]string, 0, len(lines)+len(rendered))
	out = append(out, lines[:cut]...)
	out = append(out, rendered...)
	if table.EndLine < len(lines) {
		out = append(out, lines[table.EndLine:]...)
	}

	if err := lineio.WriteLines(x.Path, out); err != nil {
		return err
	}

	newEnd := table.StartLine + len(table.Rows)
	delta := newEnd - table.EndLine
	table.EndLine = newEnd

	if delta != 0 {
		for _, other := range x.Tables {
			if other != table && other.StartLine > table.StartLine {
				other.StartLine += delta
				other.EndLine += delta
			}
		}
	}
	return nil
}

// renderTable renders the header row, the dash separator, and the data rows
// as newline-terminated lines. Column display widths are the maximum of the
// header text width and every value's width in that column, measured in
// terminal cells; cell values are left-justified and literal pipes escaped.
func renderTable(tmpl *Template, rows []*Row) []string {
	widths := make(map[string]int, len(tmpl.Columns))
	for _, c := range tmpl.Columns {
		widths[c] = runewidth.StringWidth(tmpl.Headers[c])
	}
	for _, row := range rows {
		for _, c := range tmpl.Columns {
			if w := runewidth.StringWidth(escapeCell(row.Entry[c])); w > widths[c] {
				widths[c] = w
			}
		}
	}

	pad := func(s string, w int) string {
		if n := w - runewidth.StringWidth(s); n > 0 {
			return s + strings.Repeat(" ", n)
		}
		return s
	}

	headerCells := make([]string, len(tmpl.Columns))
	sepCells := make([]string, len(tmpl.Columns))
	for i, c := range tmpl.Columns {
		headerCells[i] = pad(tmpl.Headers[c], widths[c])
		sepCells[i] = strings.Repeat("-", widths[c]+2)
	}

	lines := []string{
		"| " + strings.Join(headerCells, " | ") + " |\n",
		"|" + strings.Join(sepCells, "|") + "|\n",
	}
	for _, row := range rows {
		cells := make([]string, len(tmpl.Columns))
		for i, c := range tmpl.Columns {
			cells[i] = pad(escapeCell(row.Entry[c]), widths[c])
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |\n")
	}
	return lines
}
