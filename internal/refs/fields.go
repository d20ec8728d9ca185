package refs

// Field keys shared between reference pages and index rows. The page
// template and the index template in the repository settings use these same
// keys, so a Reference maps onto both without translation tables.
const (
	FieldAuthor         = "author"
	FieldTitle          = "title"
	FieldYear           = "year"
	FieldVenue          = "venue"
	FieldURL            = "url"
	FieldAuthorsConcise = "authors_concise"
	FieldNumCitations   = "num_citations"
	FieldReference      = "reference"
)

// PageFields maps the reference's metadata onto page field keys.
func (r *Reference) PageFields() map[string]string {
	return map[string]string{
		FieldAuthor: r.Author,
		FieldTitle:  r.Title,
		FieldYear:   r.Year,
		FieldVenue:  r.Venue,
		FieldURL:    r.URL,
	}
}

// Blocks returns the fenced citation-text blocks for a reference page:
// the full entry, plus the condensed entry when present.
func (r *Reference) Blocks() []string {
	blocks := []string{r.BibTeX}
	if r.BibTeXCondensed != "" {
		blocks = append(blocks, r.BibTeXCondensed)
	}
	return blocks
}

// FromPage rebuilds a Reference from loaded page fields and fenced blocks.
// Blocks are positional: the first is the full citation text, the second the
// condensed variant. The kind is recovered from the entry head.
func FromPage(fields map[string]string, blocks []string) *Reference {
	r := &Reference{
		Author: fields[FieldAuthor],
		Title:  fields[FieldTitle],
		Year:   fields[FieldYear],
		Venue:  fields[FieldVenue],
		URL:    fields[FieldURL],
	}
	if len(blocks) > 0 {
		r.BibTeX = blocks[0]
		r.Kind = EntryKind(blocks[0])
	}
	if len(blocks) > 1 {
		r.BibTeXCondensed = blocks[1]
	}
	return r
}

// RowValues maps the reference onto index table columns. The reference
// column is rendered as a self-referential markdown link so the index stays
// navigable in any markdown viewer.
func (r *Reference) RowValues(pagePath string) map[string]string {
	return map[string]string{
		FieldTitle:          r.Title,
		FieldAuthorsConcise: r.ConciseAuthors(),
		FieldVenue:          r.Venue,
		FieldYear:           r.Year,
		FieldNumCitations:   r.NumCitations,
		FieldReference:      "[" + pagePath + "](" + pagePath + ")",
	}
}
