package mdtable

import (
	"regexp"
	"strings"
)

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// ExtractBetween returns the text strictly between the first occurrence of
// prefix and the following occurrence of suffix. The extracted value is never
// empty; a suffix immediately after the prefix is skipped in favor of the
// next occurrence.
func ExtractBetween(text, prefix, suffix string) (string, bool) {
	start := strings.Index(text, prefix)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(prefix):]
	if len(rest) == 0 {
		return "", false
	}
	end := strings.Index(rest, suffix)
	if end == 0 {
		next := strings.Index(rest[1:], suffix)
		if next < 0 {
			return "", false
		}
		end = next + 1
	}
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// StripMarkdownLink unwraps the first markdown link in a cell: a value of the
// form "[text](url)" yields "text". Anything else is returned verbatim.
func StripMarkdownLink(text string) string {
	if m := markdownLinkPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// escapeCell protects literal pipes inside a cell value.
func escapeCell(v string) string {
	return strings.ReplaceAll(v, "|", `\|`)
}

// splitRow splits a data line into raw cells. Boundary pipes are dropped and
// cells are split on unescaped pipes only, with `\|` unescaping to `|` so
// that values containing pipes round-trip through the file.
func splitRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")

	var cells []string
	var b strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			if r != '|' {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	cells = append(cells, b.String())
	return cells
}

// scan walks the document lines and records every table matching the
// template: its title (from the nearest preceding section header), its data
// row range, and its parsed rows. A document with no matching tables yields
// an empty slice, not an error.
func scan(lines []string, tmpl *Template) []*Table {
	var tables []*Table
	sig := tmpl.signature()
	title := ""

	i := 0
	for i < len(lines) {
		line := lines[i]
		if t, ok := ExtractBetween(line, tmpl.Separator.Prefix, tmpl.Separator.Suffix); ok {
			title = t
		}
		if stripWhitespace(line) != sig {
			i++
			continue
		}

		// Data rows begin after the header and separator lines.
		start := i + 2
		end := start
		for end < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[end]), "|") {
			end++
		}
		if end < start {
			end = start
		}

		table := &Table{Title: title, StartLine: start, EndLine: end}
		for j := start; j < end && j < len(lines); j++ {
			table.Rows = append(table.Rows, parseRow(lines[j], table, tmpl))
		}
		tables = append(tables, table)

		if end > i {
			i = end
		} else {
			i++
		}
	}
	return tables
}

// parseRow zips the line's cells positionally with the template's column
// keys. Cells are trimmed and markdown-link-unwrapped; surplus cells are
// dropped and absent trailing columns are simply missing from the entry.
func parseRow(line string, table *Table, tmpl *Template) *Row {
	cells := splitRow(line)
	entry := make(map[string]string, len(tmpl.Columns))
	for k, col := range tmpl.Columns {
		if k >= len(cells) {
			break
		}
		entry[col] = StripMarkdownLink(strings.TrimSpace(cells[k]))
	}
	return &Row{Table: table, Entry: entry}
}
