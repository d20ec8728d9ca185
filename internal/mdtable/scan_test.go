package mdtable

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/bib/internal/lineio"
)

func testTemplate() *Template {
	return &Template{
		Columns: []string{"title", "authors_concise", "year"},
		Headers: map[string]string{
			"title":           "Title",
			"authors_concise": "Authors",
			"year":            "Year",
		},
		Separator: Marker{Prefix: "# ", Suffix: "\n"},
	}
}

func TestExtractBetween(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prefix string
		suffix string
		want   string
		ok     bool
	}{
		{"section header", "# Related Work\n", "# ", "\n", "Related Work", true},
		{"field marker", "**Year**: 2023  \n", "**Year**: ", "  \n", "2023", true},
		{"no prefix", "plain text\n", "# ", "\n", "", false},
		{"no suffix", "# dangling", "# ", "\n", "", false},
		{"empty value skipped", "# \n", "# ", "\n", "", false},
		{"prefix mid-line", "see **URL**: http://x  \n", "**URL**: ", "  \n", "http://x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBetween(tt.text, tt.prefix, tt.suffix)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractBetween(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStripMarkdownLink(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[references/kim2023.md](references/kim2023.md)", "references/kim2023.md"},
		{"[42](https://scholar.example/q)", "42"},
		{"plain value", "plain value"},
		{"[unclosed](", "[unclosed]("},
	}
	for _, tt := range tests {
		if got := StripMarkdownLink(tt.in); got != tt.want {
			t.Errorf("StripMarkdownLink(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitRowEscapedPipe(t *testing.T) {
	cells := splitRow("| left \\| right | other |\n")
	want := []string{" left | right ", " other "}
	if diff := cmp.Diff(want, cells); diff != "" {
		t.Errorf("splitRow mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMultipleTables(t *testing.T) {
	doc := "# Related Work\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n" +
		"| Paper A | A Author | 2021 |\n" +
		"| Paper B | B Author | 2022 |\n" +
		"\n" +
		"Some prose between tables.\n" +
		"\n" +
		"# Baselines\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n" +
		"| Paper C | C Author | 2023 |\n"

	tables := scan(lineio.Split(doc), testTemplate())
	if len(tables) != 2 {
		t.Fatalf("scan found %d tables, want 2", len(tables))
	}

	first, second := tables[0], tables[1]
	if first.Title != "Related Work" || second.Title != "Baselines" {
		t.Errorf("titles = %q, %q", first.Title, second.Title)
	}
	if first.StartLine != 3 || first.EndLine != 5 {
		t.Errorf("first range = [%d, %d), want [3, 5)", first.StartLine, first.EndLine)
	}
	if second.StartLine != 11 || second.EndLine != 12 {
		t.Errorf("second range = [%d, %d), want [11, 12)", second.StartLine, second.EndLine)
	}
	if len(first.Rows) != 2 || len(second.Rows) != 1 {
		t.Fatalf("row counts = %d, %d", len(first.Rows), len(second.Rows))
	}
	want := map[string]string{"title": "Paper C", "authors_concise": "C Author", "year": "2023"}
	if diff := cmp.Diff(want, second.Rows[0].Entry); diff != "" {
		t.Errorf("second table row mismatch (-want +got):\n%s", diff)
	}
	if second.Rows[0].Table != second {
		t.Error("row does not point back to its table")
	}
}

func TestScanSignatureIgnoresPadding(t *testing.T) {
	doc := "# Index\n" +
		"|Title|Authors|Year|\n" +
		"|---|---|---|\n" +
		"| X | Y | 2020 |\n"

	tables := scan(lineio.Split(doc), testTemplate())
	if len(tables) != 1 {
		t.Fatalf("scan found %d tables, want 1", len(tables))
	}
	if got := tables[0].Rows[0].Entry["title"]; got != "X" {
		t.Errorf("title = %q, want %q", got, "X")
	}
}

func TestScanEmptyTable(t *testing.T) {
	doc := "# Index\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n"

	tables := scan(lineio.Split(doc), testTemplate())
	if len(tables) != 1 {
		t.Fatalf("scan found %d tables, want 1", len(tables))
	}
	tbl := tables[0]
	if len(tbl.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(tbl.Rows))
	}
	if tbl.StartLine != 3 || tbl.EndLine != 3 {
		t.Errorf("range = [%d, %d), want empty range at 3", tbl.StartLine, tbl.EndLine)
	}
}

func TestScanNoTables(t *testing.T) {
	doc := "# Notes\n\nNothing tabular here.\n"
	if tables := scan(lineio.Split(doc), testTemplate()); len(tables) != 0 {
		t.Errorf("scan found %d tables, want 0", len(tables))
	}
}

func TestScanUnwrapsLinks(t *testing.T) {
	doc := "# Index\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n" +
		"| [Paper A](references/a.md) | A Author | 2021 |\n"

	tables := scan(lineio.Split(doc), testTemplate())
	if got := tables[0].Rows[0].Entry["title"]; got != "Paper A" {
		t.Errorf("title = %q, want unwrapped %q", got, "Paper A")
	}
}
