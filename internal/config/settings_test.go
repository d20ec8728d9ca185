package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWriteDefaultSettingsParsesToDefaults(t *testing.T) {
	repo := t.TempDir()
	if err := WriteDefaultSettings(repo); err != nil {
		t.Fatalf("WriteDefaultSettings: %v", err)
	}

	got, err := LoadSettings(repo)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if diff := cmp.Diff(DefaultSettings(), got); diff != "" {
		t.Errorf("written defaults differ from DefaultSettings (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsNotRepository(t *testing.T) {
	_, err := LoadSettings(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("err = %v, want ErrNotRepository", err)
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	repo := t.TempDir()
	settings := DefaultSettings()
	settings.Index.Path = "papers.md"
	settings.Lookup.CacheTTL = "1h"

	if err := SaveSettings(repo, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := LoadSettings(repo)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if diff := cmp.Diff(settings, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFindRepoWalksUp(t *testing.T) {
	repo := t.TempDir()
	if err := WriteDefaultSettings(repo); err != nil {
		t.Fatalf("WriteDefaultSettings: %v", err)
	}
	nested := filepath.Join(repo, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindRepo(nested)
	if err != nil {
		t.Fatalf("FindRepo: %v", err)
	}
	// TempDir may sit behind a symlink on some platforms, so compare the
	// resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(repo)
	gotResolved, _ := filepath.EvalSymlinks(found)
	if gotResolved != wantResolved {
		t.Errorf("FindRepo = %s, want %s", found, repo)
	}

	if _, err := FindRepo(t.TempDir()); !errors.Is(err, ErrNotRepository) {
		t.Errorf("err = %v, want ErrNotRepository outside a repo", err)
	}
}

func TestCacheTTL(t *testing.T) {
	s := DefaultSettings()
	if got := s.CacheTTL(); got != 24*time.Hour {
		t.Errorf("default ttl = %v", got)
	}
	s.Lookup.CacheTTL = "90m"
	if got := s.CacheTTL(); got != 90*time.Minute {
		t.Errorf("ttl = %v, want 90m", got)
	}
	s.Lookup.CacheTTL = "nonsense"
	if got := s.CacheTTL(); got != 24*time.Hour {
		t.Errorf("invalid ttl = %v, want fallback to default", got)
	}
	s.Lookup.CacheTTL = "0"
	if got := s.CacheTTL(); got != 0 {
		t.Errorf("zero ttl = %v, want 0", got)
	}
}

func TestTemplates(t *testing.T) {
	s := DefaultSettings()

	it := s.IndexTemplate()
	if it.Separator.Prefix != "# " || it.Separator.Suffix != "\n" {
		t.Errorf("separator = %+v", it.Separator)
	}
	if len(it.Columns) != 6 || it.Headers["num_citations"] != "Citations" {
		t.Errorf("index template = %+v", it)
	}

	pt := s.PageTemplate()
	if len(pt.Fields) != 5 || pt.Fields[0].Key != "title" || pt.Fields[0].Prefix != "# " {
		t.Errorf("page template fields = %+v", pt.Fields)
	}
	if pt.Layout != "{title}\n{author}{venue}{year}{url}" {
		t.Errorf("layout = %q", pt.Layout)
	}
}
