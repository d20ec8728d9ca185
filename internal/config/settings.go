package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/bib/internal/mdtable"
	"github.com/aidanlsb/bib/internal/page"
)

// BibDir is the repository metadata directory.
const BibDir = ".bib"

// SettingsFile is the repository settings file, relative to the repo root.
var SettingsFile = filepath.Join(BibDir, "settings.yaml")

// ErrNotRepository indicates no bib repository exists at the given path.
var ErrNotRepository = errors.New("not a bib repository")

// Settings represents repository-level configuration from .bib/settings.yaml.
// Everything about the markdown shapes lives here so a repository can restyle
// its index and pages without touching code.
type Settings struct {
	Index     IndexSettings     `yaml:"index"`
	Reference ReferenceSettings `yaml:"reference"`
	Lookup    LookupSettings    `yaml:"lookup,omitempty"`
}

// IndexSettings configures the index file and its table shape.
type IndexSettings struct {
	// Path is the index file, relative to the repo root.
	Path string `yaml:"path"`

	// Separator marks table-title lines, e.g. prefix "# " and suffix "\n"
	// for level-one headings.
	Separator MarkerSettings `yaml:"separator"`

	// Headers maps column keys to their display headers.
	Headers map[string]string `yaml:"headers"`

	// Columns is the column order.
	Columns []string `yaml:"columns"`
}

// ReferenceSettings configures reference pages.
type ReferenceSettings struct {
	// Path is the directory holding reference pages, relative to the repo root.
	Path string `yaml:"path"`

	Page PageSettings `yaml:"page"`
}

// PageSettings configures the shape of a reference page.
type PageSettings struct {
	// Fields are the recognized field markers, in scan order.
	Fields []FieldSettings `yaml:"fields"`

	// Layout is the page skeleton; {key} placeholders expand to the field's
	// marked-up value.
	Layout string `yaml:"layout"`
}

// FieldSettings is one field marker: the text before and after the value on
// its line.
type FieldSettings struct {
	Key    string `yaml:"key"`
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// MarkerSettings is a prefix/suffix pair.
type MarkerSettings struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// LookupSettings configures the metadata lookup layer.
type LookupSettings struct {
	// CacheTTL is how long cached source responses stay fresh, as a Go
	// duration string. Empty means the default; "0" disables expiry.
	CacheTTL string `yaml:"cache_ttl,omitempty"`
}

const defaultCacheTTL = 24 * time.Hour

// CacheTTL parses the configured TTL, falling back to the default on empty
// or invalid values.
func (s *Settings) CacheTTL() time.Duration {
	if s.Lookup.CacheTTL == "" {
		return defaultCacheTTL
	}
	d, err := time.ParseDuration(s.Lookup.CacheTTL)
	if err != nil {
		return defaultCacheTTL
	}
	return d
}

// DefaultSettings returns the settings written by `bib init`: a level-one
// heading per table, the standard six index columns, and bolded field lines
// with markdown hard breaks on reference pages.
func DefaultSettings() *Settings {
	return &Settings{
		Index: IndexSettings{
			Path:      "index.md",
			Separator: MarkerSettings{Prefix: "# ", Suffix: "\n"},
			Headers: map[string]string{
				"title":           "Title",
				"authors_concise": "Authors",
				"venue":           "Venue",
				"year":            "Year",
				"num_citations":   "Citations",
				"reference":       "Reference",
			},
			Columns: []string{"title", "authors_concise", "venue", "year", "num_citations", "reference"},
		},
		Reference: ReferenceSettings{
			Path: "references",
			Page: PageSettings{
				Fields: []FieldSettings{
					{Key: "title", Prefix: "# ", Suffix: "  \n"},
					{Key: "author", Prefix: "**Author**: ", Suffix: "  \n"},
					{Key: "venue", Prefix: "**Venue**: ", Suffix: "  \n"},
					{Key: "year", Prefix: "**Year**: ", Suffix: "  \n"},
					{Key: "url", Prefix: "**URL**: ", Suffix: "  \n"},
				},
				Layout: "{title}\n{author}{venue}{year}{url}",
			},
		},
	}
}

// LoadSettings loads the repository settings. Returns ErrNotRepository when
// the settings file does not exist.
func LoadSettings(repoPath string) (*Settings, error) {
	settingsPath := filepath.Join(repoPath, SettingsFile)

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, repoPath)
		}
		return nil, fmt.Errorf("failed to read settings %s: %w", settingsPath, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", settingsPath, err)
	}
	return &settings, nil
}

// SaveSettings writes the settings back to .bib/settings.yaml.
func SaveSettings(repoPath string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	settingsPath := filepath.Join(repoPath, SettingsFile)
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", BibDir, err)
	}
	if err := atomic.WriteFile(settingsPath, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// FindRepo walks up from start looking for a directory with a settings file.
// Returns ErrNotRepository when none is found.
func FindRepo(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, SettingsFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrNotRepository, SettingsFile, start)
		}
		dir = parent
	}
}

// IndexTemplate converts the index settings to the table engine's template.
func (s *Settings) IndexTemplate() *mdtable.Template {
	return &mdtable.Template{
		Columns: s.Index.Columns,
		Headers: s.Index.Headers,
		Separator: mdtable.Marker{
			Prefix: s.Index.Separator.Prefix,
			Suffix: s.Index.Separator.Suffix,
		},
	}
}

// PageTemplate converts the page settings to the page engine's template.
func (s *Settings) PageTemplate() *page.Template {
	fields := make([]page.Field, len(s.Reference.Page.Fields))
	for i, f := range s.Reference.Page.Fields {
		fields[i] = page.Field{Key: f.Key, Prefix: f.Prefix, Suffix: f.Suffix}
	}
	return &page.Template{Fields: fields, Layout: s.Reference.Page.Layout}
}

// IndexPath returns the absolute index file path.
func (s *Settings) IndexPath(repoPath string) string {
	return filepath.Join(repoPath, s.Index.Path)
}

// ReferenceDir returns the absolute reference-pages directory.
func (s *Settings) ReferenceDir(repoPath string) string {
	return filepath.Join(repoPath, s.Reference.Path)
}
