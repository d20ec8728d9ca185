package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// defaultSettingsFile is the commented settings written by `bib init`. It
// parses to exactly DefaultSettings().
const defaultSettingsFile = `# bib repository settings
# These shapes control how the index and reference pages are written.

index:
  # The index file, relative to the repo root.
  path: index.md
  # Table titles are markdown headings.
  separator:
    prefix: "# "
    suffix: "\n"
  # Column keys to display headers. Changing a header changes which tables
  # the index recognizes, so reformat after editing.
  headers:
    title: Title
    authors_concise: Authors
    venue: Venue
    year: Year
    num_citations: Citations
    reference: Reference
  columns: [title, authors_concise, venue, year, num_citations, reference]

reference:
  # Where reference pages live.
  path: references
  page:
    # Field markers: the text before and after a value on its line.
    # The trailing two spaces are markdown hard breaks.
    fields:
      - {key: title, prefix: "# ", suffix: "  \n"}
      - {key: author, prefix: "**Author**: ", suffix: "  \n"}
      - {key: venue, prefix: "**Venue**: ", suffix: "  \n"}
      - {key: year, prefix: "**Year**: ", suffix: "  \n"}
      - {key: url, prefix: "**URL**: ", suffix: "  \n"}
    layout: "{title}\n{author}{venue}{year}{url}"

# Lookup cache freshness (Go duration string). "0" disables expiry.
# lookup:
#   cache_ttl: 24h
`

// WriteDefaultSettings writes the commented default settings file into the
// repository's .bib directory.
func WriteDefaultSettings(repoPath string) error {
	settingsPath := filepath.Join(repoPath, SettingsFile)
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", BibDir, err)
	}
	if err := atomic.WriteFile(settingsPath, strings.NewReader(defaultSettingsFile)); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
