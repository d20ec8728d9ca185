// Package refs models a bibliography reference: its metadata record, its
// publication kind, author handling, citation keys, and BibTeX text.
package refs

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

// Kind is the publication kind. Each kind carries its own BibTeX entry type
// and citation-text rendering rule.
type Kind int

const (
	// KindMisc is the fallback for preprints and anything unclassified.
	KindMisc Kind = iota
	// KindArticle is a journal article.
	KindArticle
	// KindInProceedings is a conference or workshop paper.
	KindInProceedings
)

// String returns the BibTeX entry type for the kind.
func (k Kind) String() string {
	switch k {
	case KindArticle:
		return "article"
	case KindInProceedings:
		return "inproceedings"
	default:
		return "misc"
	}
}

// KindFromEntryType maps a BibTeX entry type back to a Kind.
func KindFromEntryType(s string) Kind {
	switch strings.ToLower(s) {
	case "article":
		return KindArticle
	case "inproceedings", "proceedings", "conference":
		return KindInProceedings
	default:
		return KindMisc
	}
}

// Reference is one reference's worth of metadata. All values are strings and
// round-trip through markdown as text; Author holds comma-separated
// "First Last" names.
type Reference struct {
	Kind            Kind
	Author          string
	Title           string
	Year            string
	Venue           string
	URL             string
	NumCitations    string
	BibTeX          string
	BibTeXCondensed string
}

// Authors splits the comma-separated author string into trimmed full names.
func (r *Reference) Authors() []string {
	if strings.TrimSpace(r.Author) == "" {
		return nil
	}
	parts := strings.Split(r.Author, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// LastNames returns each author's last name.
func (r *Reference) LastNames() []string {
	authors := r.Authors()
	names := make([]string, len(authors))
	for i, a := range authors {
		fields := strings.Fields(a)
		names[i] = fields[len(fields)-1]
	}
	return names
}

// ConciseAuthors renders the author list for index rows: each author as
// initials plus last name, and more than two authors collapsed to the
// first, a "+n" count, and the last.
func (r *Reference) ConciseAuthors() string {
	authors := r.Authors()
	concise := make([]string, len(authors))
	for i, a := range authors {
		concise[i] = conciseName(a)
	}
	if len(concise) > 2 {
		concise = []string{concise[0], "+" + strconv.Itoa(len(concise)-2), concise[len(concise)-1]}
	}
	return strings.Join(concise, ", ")
}

func conciseName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 1 {
		return fields[0]
	}
	var initials strings.Builder
	for _, f := range fields[:len(fields)-1] {
		r, _ := utf8.DecodeRuneInString(f)
		initials.WriteRune(unicode.ToUpper(r))
	}
	return initials.String() + " " + fields[len(fields)-1]
}

// Same reports whether two references describe the same work: titles match
// case-insensitively and, pairwise in order, so do the authors' last names.
// Used to skip page rewrites that would only churn timestamps.
func (r *Reference) Same(other *Reference) bool {
	if !strings.EqualFold(r.Title, other.Title) {
		return false
	}
	a, b := r.LastNames(), other.LastNames()
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

// meaninglessArticles are skipped when picking the title word for a key.
var meaninglessArticles = map[string]bool{"a": true, "an": true, "the": true}

// Key derives the Google-Scholar-style citation key:
// lowercase first-author last name, year, and the first meaningful title
// word (articles skipped), e.g. "gim2023prompt". Components are slugged so
// accents and punctuation never leak into the key.
func (r *Reference) Key() string {
	lastNames := r.LastNames()
	last := ""
	if len(lastNames) > 0 {
		last = keyComponent(lastNames[0])
	}

	word := ""
	for _, w := range strings.Fields(r.Title) {
		candidate := keyComponent(w)
		if candidate == "" || meaninglessArticles[candidate] {
			continue
		}
		word = candidate
		break
	}

	return last + r.Year + word
}

func keyComponent(s string) string {
	return strings.ReplaceAll(slug.Make(s), "-", "")
}
