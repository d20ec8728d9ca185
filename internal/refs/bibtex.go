package refs

import (
	"regexp"
	"strings"
)

var entryHeadPattern = regexp.MustCompile(`@(\w+)\s*\{\s*[^,\s]*\s*,`)

// ReplaceKey rewrites the citation key in the head of a BibTeX entry,
// keeping the entry type. An entry that does not look like BibTeX is
// returned unchanged.
func ReplaceKey(entry, key string) string {
	loc := entryHeadPattern.FindStringSubmatchIndex(entry)
	if loc == nil {
		return entry
	}
	entryType := entry[loc[2]:loc[3]]
	return entry[:loc[0]] + "@" + entryType + "{" + key + "," + entry[loc[1]:]
}

// EntryKind extracts the publication kind from a BibTeX entry's head.
func EntryKind(entry string) Kind {
	m := entryHeadPattern.FindStringSubmatch(entry)
	if m == nil {
		return KindMisc
	}
	return KindFromEntryType(m[1])
}

// RenderBibTeX renders a full BibTeX entry from the reference metadata.
// The venue field name follows the kind: journal for articles, booktitle
// for proceedings papers, howpublished otherwise.
func (r *Reference) RenderBibTeX(key string) string {
	fields := []bibField{
		{"author", strings.Join(r.Authors(), " and ")},
		{"title", r.Title},
	}
	fields = append(fields, r.venueField())
	fields = append(fields,
		bibField{"year", r.Year},
		bibField{"url", r.URL},
	)
	return renderEntry(r.Kind, key, fields)
}

// RenderBibTeXCondensed renders the condensed variant: authors, title,
// venue, and year only.
func (r *Reference) RenderBibTeXCondensed(key string) string {
	fields := []bibField{
		{"author", strings.Join(r.Authors(), " and ")},
		{"title", r.Title},
	}
	fields = append(fields, r.venueField())
	fields = append(fields, bibField{"year", r.Year})
	return renderEntry(r.Kind, key, fields)
}

type bibField struct {
	name  string
	value string
}

func (r *Reference) venueField() bibField {
	switch r.Kind {
	case KindArticle:
		return bibField{"journal", r.Venue}
	case KindInProceedings:
		return bibField{"booktitle", r.Venue}
	default:
		return bibField{"howpublished", r.Venue}
	}
}

func renderEntry(kind Kind, key string, fields []bibField) string {
	var b strings.Builder
	b.WriteString("@" + kind.String() + "{" + key + ",\n")
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		b.WriteString("  " + f.name + " = {" + f.value + "},\n")
	}
	b.WriteString("}")
	return b.String()
}
