package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/aidanlsb/bib/internal/config"
	"github.com/aidanlsb/bib/internal/mdtable"
	"github.com/aidanlsb/bib/internal/refs"
)

// withTestRepo points the package globals at a throwaway repository.
func withTestRepo(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()
	if err := config.WriteDefaultSettings(repo); err != nil {
		t.Fatalf("WriteDefaultSettings: %v", err)
	}

	origPath, origSettings := resolvedRepoPath, settings
	t.Cleanup(func() {
		resolvedRepoPath, settings = origPath, origSettings
	})

	resolvedRepoPath = repo
	var err error
	settings, err = config.LoadSettings(repo)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	return repo
}

func TestResolveTableArg(t *testing.T) {
	repo := withTestRepo(t)
	indexPath := settings.IndexPath(repo)
	content := "# Baselines\n\n| Title | Authors | Venue | Year | Citations | Reference |\n|---|---|---|---|---|---|\n\n# Ablations\n\n| Title | Authors | Venue | Year | Citations | Reference |\n|---|---|---|---|---|---|\n"
	if err := os.WriteFile(indexPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	index, err := loadIndex()
	if err != nil {
		t.Fatalf("loadIndex: %v", err)
	}

	if title, err := resolveTableArg(index, ""); err != nil || title != "" {
		t.Errorf("empty arg = (%q, %v), want default table", title, err)
	}
	if title, err := resolveTableArg(index, "baseline"); err != nil || title != "Baselines" {
		t.Errorf("fuzzy arg = (%q, %v), want Baselines", title, err)
	}
	if _, err := resolveTableArg(index, "qwerty"); err == nil {
		t.Error("expected error for an unmatched table name")
	}
}

func TestDedupKeyLetterSuffix(t *testing.T) {
	repo := withTestRepo(t)
	refDir := settings.ReferenceDir(repo)
	if err := os.MkdirAll(refDir, 0755); err != nil {
		t.Fatal(err)
	}

	key, err := dedupKey("gim2023prompt")
	if err != nil || key != "gim2023prompt" {
		t.Fatalf("fresh key = (%q, %v)", key, err)
	}

	for _, name := range []string{"gim2023prompt.md", "gim2023prompta.md"} {
		if err := os.WriteFile(filepath.Join(refDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	key, err = dedupKey("gim2023prompt")
	if err != nil || key != "gim2023promptb" {
		t.Fatalf("deduped key = (%q, %v), want gim2023promptb", key, err)
	}
}

func TestWriteReferenceLeavesNoOrphanPage(t *testing.T) {
	repo := withTestRepo(t)
	indexPath := settings.IndexPath(repo)
	if err := os.WriteFile(indexPath, []byte("# Notes\n\nno tables here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	index, err := loadIndex()
	if err != nil {
		t.Fatalf("loadIndex: %v", err)
	}
	ref := &refs.Reference{Title: "Prompt Caching", Author: "Yuna Gim", Year: "2023"}
	relPath := pageRelPath("gim2023prompt")

	if err := writeReference(index, ref, relPath, ""); !errors.Is(err, errNoTables) {
		t.Fatalf("writeReference = %v, want errNoTables", err)
	}
	if _, err := os.Stat(pageAbsPath(relPath)); !os.IsNotExist(err) {
		t.Errorf("page %s exists after a failed add", relPath)
	}
}

func TestWriteReferenceCreatesPageAndRow(t *testing.T) {
	repo := withTestRepo(t)
	if _, err := mdtable.Create(settings.IndexPath(repo), settings.IndexTemplate()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	index, err := loadIndex()
	if err != nil {
		t.Fatalf("loadIndex: %v", err)
	}
	ref := &refs.Reference{Title: "Prompt Caching", Author: "Yuna Gim", Year: "2023"}
	relPath := pageRelPath("gim2023prompt")

	if err := writeReference(index, ref, relPath, ""); err != nil {
		t.Fatalf("writeReference: %v", err)
	}
	if _, err := os.Stat(pageAbsPath(relPath)); err != nil {
		t.Errorf("page missing: %v", err)
	}

	reloaded, err := loadIndex()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	rows := reloaded.Tables[0].Rows
	if len(rows) != 1 || rows[0].Entry[refs.FieldTitle] != "Prompt Caching" {
		t.Errorf("rows = %+v, want the inserted reference", rows)
	}
}

func TestKeyFromPagePath(t *testing.T) {
	if got := keyFromPagePath("references/gim2023prompt.md"); got != "gim2023prompt" {
		t.Errorf("keyFromPagePath = %q", got)
	}
}

func TestContainsLine(t *testing.T) {
	content := "node_modules/\n.bib/cache.db\n"
	if !containsLine(content, ".bib/cache.db") {
		t.Error("expected entry to be found")
	}
	if containsLine(content, ".bib") {
		t.Error("prefix must not count as a full line")
	}
}

func TestJoinNonEmpty(t *testing.T) {
	if got := joinNonEmpty("OSDI", "2023"); got != "OSDI 2023" {
		t.Errorf("joinNonEmpty = %q", got)
	}
	if got := joinNonEmpty("", "2023"); got != "2023" {
		t.Errorf("joinNonEmpty = %q", got)
	}
}

func TestShellQuote(t *testing.T) {
	if got := shellQuote("refs/it's.md"); got != `'refs/it'"'"'s.md'` {
		t.Errorf("shellQuote = %q", got)
	}
}

func TestRootCommandFlags(t *testing.T) {
	want := map[string]bool{"repo": true, "config": true, "json": true}
	got := make(map[string]bool)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		got[f.Name] = true
	})
	for name := range want {
		if !got[name] {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestNormalizeVersion(t *testing.T) {
	if got := normalizeVersion("(devel)"); got != "devel" {
		t.Errorf("normalizeVersion((devel)) = %q", got)
	}
	if got := normalizeVersion("v1.2.3"); got != "v1.2.3" {
		t.Errorf("normalizeVersion(v1.2.3) = %q", got)
	}
}

func TestLoadIndexUsesSettingsShape(t *testing.T) {
	repo := withTestRepo(t)
	if _, err := mdtable.Create(settings.IndexPath(repo), settings.IndexTemplate()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	index, err := loadIndex()
	if err != nil {
		t.Fatalf("loadIndex: %v", err)
	}
	if len(index.Tables) != 1 || index.Tables[0].Title != mdtable.DefaultTitle {
		t.Errorf("tables = %+v, want one default table", index.Titles())
	}
}
