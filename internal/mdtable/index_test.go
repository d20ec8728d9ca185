package mdtable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func indexTemplate() *Template {
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

func tempIndexPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "index.md")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestCreateThenLoad(t *testing.T) {
	path := tempIndexPath(t)

	if _, err := Create(path, indexTemplate()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	idx, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(idx.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(idx.Tables))
	}
	tbl := idx.Tables[0]
	if tbl.Title != "Index" {
		t.Errorf("title = %q, want %q", tbl.Title, "Index")
	}
	if len(tbl.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(tbl.Rows))
	}
	if tbl.StartLine != tbl.EndLine {
		t.Errorf("range = [%d, %d), want empty", tbl.StartLine, tbl.EndLine)
	}
}

func TestInsertThenLoadConsistency(t *testing.T) {
	path := tempIndexPath(t)
	idx, err := Create(path, indexTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := []map[string]string{
		{"title": "Paper A", "authors_concise": "A Author", "year": "2021"},
		{"title": "Paper B", "authors_concise": "B Author, C Author", "year": "2022"},
	}
	for _, r := range rows {
		ok, err := idx.InsertRow(r, "")
		if err != nil {
			t.Fatalf("InsertRow: %v", err)
		}
		if !ok {
			t.Fatal("InsertRow returned ok=false")
		}
	}

	reloaded, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tbl, ok := reloaded.Table("Index")
	if !ok {
		t.Fatal("table Index not found after reload")
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	for i, want := range rows {
		if diff := cmp.Diff(want, tbl.Rows[i].Entry); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestFormatIdempotent(t *testing.T) {
	path := tempIndexPath(t)
	idx, err := Create(path, indexTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := idx.InsertRow(map[string]string{
		"title": "A rather long paper title", "authors_concise": "A Author", "year": "2020",
	}, ""); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	if err := idx.Format(); err != nil {
		t.Fatalf("Format: %v", err)
	}
	first := readFile(t, path)

	if err := idx.Format(); err != nil {
		t.Fatalf("Format: %v", err)
	}
	second := readFile(t, path)

	if first != second {
		t.Errorf("format is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}

	// And stable across a reload as well.
	reloaded, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := reloaded.Format(); err != nil {
		t.Fatalf("Format after reload: %v", err)
	}
	if got := readFile(t, path); got != first {
		t.Errorf("format after reload changed output:\n%s", got)
	}
}

// Two tables, mutate the first, then update the second by its pre-mutation
// row index. The recorded ranges must shift exactly or the update would
// splice at stale line numbers.
func TestOffsetIntegrityAcrossTables(t *testing.T) {
	path := tempIndexPath(t)
	doc := "# Related Work\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n" +
		"| Paper A | A Author | 2021 |\n" +
		"\n" +
		"# Baselines\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n" +
		"| Paper C | C Author | 2023 |\n" +
		"| Paper D | D Author | 2024 |\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for i := 0; i < 3; i++ {
		ok, err := idx.InsertRow(map[string]string{
			"title": "Inserted", "authors_concise": "I Author", "year": "2025",
		}, "Related Work")
		if err != nil || !ok {
			t.Fatalf("InsertRow %d: ok=%v err=%v", i, ok, err)
		}
	}

	ok, err := idx.UpdateRow(1, map[string]string{
		"title": "Paper D v2", "authors_concise": "D Author", "year": "2024",
	}, "Baselines")
	if err != nil || !ok {
		t.Fatalf("UpdateRow: ok=%v err=%v", ok, err)
	}

	reloaded, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	base, ok := reloaded.Table("Baselines")
	if !ok {
		t.Fatal("Baselines not found")
	}
	if len(base.Rows) != 2 {
		t.Fatalf("Baselines rows = %d, want 2", len(base.Rows))
	}
	if got := base.Rows[0].Entry["title"]; got != "Paper C" {
		t.Errorf("row 0 title = %q, want untouched %q", got, "Paper C")
	}
	if got := base.Rows[1].Entry["title"]; got != "Paper D v2" {
		t.Errorf("row 1 title = %q, want %q", got, "Paper D v2")
	}
	related, _ := reloaded.Table("Related Work")
	if len(related.Rows) != 4 {
		t.Errorf("Related Work rows = %d, want 4", len(related.Rows))
	}
}

func TestCellEscapingRoundTrip(t *testing.T) {
	path := tempIndexPath(t)
	idx, err := Create(path, indexTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	value := "left | right"
	if _, err := idx.InsertRow(map[string]string{
		"title": value, "authors_concise": "A Author", "year": "2020",
	}, ""); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	if !strings.Contains(readFile(t, path), `left \| right`) {
		t.Error("escaped pipe not found in file")
	}

	reloaded, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.Tables[0].Rows[0].Entry["title"]; got != value {
		t.Errorf("round-tripped value = %q, want %q", got, value)
	}
}

func TestLinkUnwrapRoundTrip(t *testing.T) {
	path := tempIndexPath(t)
	idx, err := Create(path, indexTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := idx.InsertRow(map[string]string{
		"title": "[references/a.md](references/a.md)", "authors_concise": "A", "year": "2020",
	}, ""); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	reloaded, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.Tables[0].Rows[0].Entry["title"]; got != "references/a.md" {
		t.Errorf("value = %q, want unwrapped path", got)
	}
}

func TestMutationFailsClosed(t *testing.T) {
	path := tempIndexPath(t)
	idx, err := Create(path, indexTemplate())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := readFile(t, path)

	if ok, err := idx.InsertRow(map[string]string{"title": "X"}, "no such table"); err != nil || ok {
		t.Errorf("InsertRow into unknown table: ok=%v err=%v, want false, nil", ok, err)
	}
	if ok, err := idx.UpdateRow(5, map[string]string{"title": "X"}, ""); err != nil || ok {
		t.Errorf("UpdateRow out of range: ok=%v err=%v, want false, nil", ok, err)
	}
	if got := readFile(t, path); got != before {
		t.Error("failed mutation modified the file")
	}
}

func TestSurroundingContentPreserved(t *testing.T) {
	path := tempIndexPath(t)
	doc := "Intro prose.\n" +
		"\n" +
		"# Index\n" +
		"| Title | Authors | Year |\n" +
		"|-------|---------|------|\n" +
		"| Paper A | A Author | 2021 |\n" +
		"\n" +
		"Trailing notes stay put.\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	idx, err := Load(path, indexTemplate())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := idx.InsertRow(map[string]string{
		"title": "Paper B", "authors_concise": "B Author", "year": "2022",
	}, ""); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	got := readFile(t, path)
	if !strings.HasPrefix(got, "Intro prose.\n") {
		t.Error("prose before the table was lost")
	}
	if !strings.HasSuffix(got, "Trailing notes stay put.\n") {
		t.Error("prose after the table was lost")
	}
	if !strings.Contains(got, "Paper A") || !strings.Contains(got, "Paper B") {
		t.Error("rows missing after insert")
	}
}
