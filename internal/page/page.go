// Package page models a single-reference markdown document as a flat mapping
// from field key to string value. Each field lives on exactly one line,
// located by a (prefix, suffix) marker pair; the document may also carry raw
// fenced code blocks (the full and condensed citation text) that are
// preserved verbatim and addressed positionally, never by marker.
package page

import (
	"strings"

	"github.com/aidanlsb/bib/internal/lineio"
	"github.com/aidanlsb/bib/internal/mdtable"
)

const (
	fenceOpen  = "```bibtex"
	fenceClose = "```"
)

// Field binds a field key to its line marker. The suffix usually includes
// the trailing newline (e.g. "  \n" for a markdown line break).
type Field struct {
	Key    string
	Prefix string
	Suffix string
}

// Template governs a page: the ordered fields with their markers, and a
// layout string (used only at creation time) referencing fields as {key}.
type Template struct {
	Fields []Field
	Layout string
}

// Page is one markdown file's parsed state. Blocks holds the raw fenced
// block contents in order of appearance: Blocks[0] is the primary citation
// text, Blocks[1] the condensed variant.
type Page struct {
	Path     string
	Template *Template
	Fields   map[string]string
	Blocks   []string
}

// Create renders the template layout, substituting each present field's
// value wrapped in that field's marker, appends one fenced block per entry
// in blocks, and writes the file.
func Create(path string, fields map[string]string, blocks []string, tmpl *Template) (*Page, error) {
	content := tmpl.render(fields)
	for _, block := range blocks {
		content += "\n\n" + fenceOpen + "\n" + strings.TrimSpace(block) + "\n" + fenceClose
	}
	if err := lineio.WriteString(path, content); err != nil {
		return nil, err
	}
	return &Page{Path: path, Template: tmpl, Fields: fields, Blocks: blocks}, nil
}

func (t *Template) render(fields map[string]string) string {
	content := t.Layout
	for _, f := range t.Fields {
		placeholder := "{" + f.Key + "}"
		value, ok := fields[f.Key]
		if !ok || value == "" {
			content = strings.ReplaceAll(content, placeholder, "")
			continue
		}
		content = strings.ReplaceAll(content, placeholder, f.Prefix+value+f.Suffix)
	}
	return content
}

// Load scans the file at path. Field lines are matched first-wins per key:
// a key extracted once is never overwritten by a later line. Lines between a
// fence-open and the next fence-close are collected verbatim as one block,
// in appearance order, and are not scanned for field markers.
func Load(path string, tmpl *Template) (*Page, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return nil, err
	}

	p := &Page{Path: path, Template: tmpl, Fields: make(map[string]string)}
	consumed := make(map[string]bool)

	inFence := false
	var fenceLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, fenceOpen) && !inFence {
			inFence = true
			fenceLines = nil
			continue
		}
		if strings.HasPrefix(line, fenceClose) && inFence {
			inFence = false
			p.Blocks = append(p.Blocks, strings.TrimSpace(lineio.Join(fenceLines)))
			continue
		}
		if inFence {
			fenceLines = append(fenceLines, line)
			continue
		}

		for _, f := range tmpl.Fields {
			if consumed[f.Key] {
				continue
			}
			if value, ok := mdtable.ExtractBetween(line, f.Prefix, f.Suffix); ok {
				p.Fields[f.Key] = value
				consumed[f.Key] = true
				break
			}
		}
	}

	return p, nil
}

// Save rewrites the file line by line from its current on-disk content.
// Fence delimiters trigger a positional swap of the corresponding stored
// block; a line matching a not-yet-consumed field's marker is replaced by
// the field's current value wrapped in the same marker; everything else
// passes through unchanged. Exactly one physical line is rewritten per
// field. A field whose marker never appears is silently dropped, not
// appended — an accepted limitation of the format.
func (p *Page) Save() error {
	lines, err := lineio.ReadLines(p.Path)
	if err != nil {
		return err
	}

	var out []string
	consumed := make(map[string]bool)

	inFence := false
	blockIdx := 0
	var fenceLines []string
	for _, line := range lines {
		if strings.HasPrefix(line, fenceOpen) && !inFence {
			inFence = true
			fenceLines = nil
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(line, fenceClose) && inFence {
			inFence = false
			if blockIdx < len(p.Blocks) {
				out = append(out, strings.TrimSpace(p.Blocks[blockIdx])+"\n")
			} else {
				// No replacement stored; keep the old block.
				out = append(out, fenceLines...)
			}
			out = append(out, line)
			blockIdx++
			continue
		}
		if inFence {
			fenceLines = append(fenceLines, line)
			continue
		}

		replaced := false
		for _, f := range p.Template.Fields {
			if consumed[f.Key] {
				continue
			}
			if _, ok := mdtable.ExtractBetween(line, f.Prefix, f.Suffix); ok {
				consumed[f.Key] = true
				out = append(out, f.Prefix+p.Fields[f.Key]+f.Suffix)
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, line)
		}
	}

	return lineio.WriteLines(p.Path, out)
}

// Update replaces the page's field values and block contents and saves.
// Blocks are matched by position; pass nil to keep the existing blocks.
func (p *Page) Update(fields map[string]string, blocks []string) error {
	p.Fields = fields
	if blocks != nil {
		p.Blocks = blocks
	}
	return p.Save()
}
