package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/bib/internal/lookup"
	"github.com/aidanlsb/bib/internal/mdtable"
)

// loadIndex loads the repository index with the configured table shape.
func loadIndex() (*mdtable.Index, error) {
	return mdtable.Load(settings.IndexPath(getRepoPath()), settings.IndexTemplate())
}

// resolveTableArg maps a --table value to an exact table title. An empty
// name means "the default table" and resolves to the empty string, which the
// index treats as the first table in document order.
func resolveTableArg(index *mdtable.Index, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	title, ok := mdtable.ResolveTitle(index.Titles(), name)
	if !ok {
		return "", fmt.Errorf("table %q not found (have: %s)", name, strings.Join(index.Titles(), ", "))
	}
	return title, nil
}

// newLookupClient opens the cached lookup client. A cache failure degrades
// to uncached lookups with a warning rather than blocking the command.
func newLookupClient() (*lookup.Client, []Warning) {
	cache, err := lookup.OpenCache(getRepoPath(), settings.CacheTTL())
	if err != nil {
		warn := Warning{
			Code:    WarnCacheUnavailable,
			Message: fmt.Sprintf("lookup cache unavailable, fetching uncached: %v", err),
		}
		return lookup.NewClient(nil), []Warning{warn}
	}
	return lookup.NewClient(cache), nil
}

// pageRelPath is the repo-relative path of a reference page, always with
// forward slashes so index rows stay portable.
func pageRelPath(key string) string {
	return path.Join(settings.Reference.Path, key+".md")
}

// pageAbsPath resolves a repo-relative page path from an index row.
func pageAbsPath(relPath string) string {
	return filepath.Join(getRepoPath(), filepath.FromSlash(relPath))
}

// keyFromPagePath recovers the citation key from a page path.
func keyFromPagePath(relPath string) string {
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ensureReferenceDir creates the reference-pages directory if a hand-made
// repo lacks it.
func ensureReferenceDir() error {
	return os.MkdirAll(settings.ReferenceDir(getRepoPath()), 0755)
}

// dedupKey extends the citation key with a letter suffix until no page file
// claims it, matching how hand-numbered bibliographies disambiguate.
func dedupKey(key string) (string, error) {
	if _, err := os.Stat(pageAbsPath(pageRelPath(key))); os.IsNotExist(err) {
		return key, nil
	}
	for c := 'a'; c <= 'z'; c++ {
		candidate := key + string(c)
		if _, err := os.Stat(pageAbsPath(pageRelPath(candidate))); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("too many references share the key %q", key)
}
