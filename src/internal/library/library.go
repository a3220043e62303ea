// Package library turns parsed BibTeX into the entries the picker and the
// lookup view work with.
package library

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"bibfzf/src/internal/bibtex"
	"bibfzf/src/internal/stringsx"
)

// Delimiter separates the key column from the description in summary lines.
const Delimiter = "|"

// summaryFields make up the description column, joined by " - ".
var summaryFields = []string{"title", "author", "year"}

// Library is the ordered list of entries from one parse.
type Library struct {
	entries []*Entry
}

// New normalizes every entry, keeping parse order.
func New(raw []bibtex.Entry) *Library {
	l := &Library{entries: make([]*Entry, 0, len(raw))}
	for _, r := range raw {
		l.entries = append(l.entries, Normalize(r))
	}
	return l
}

// Load parses src and builds a Library from its entries.
func Load(src string) (*Library, error) {
	f, err := bibtex.Parse(src)
	if err != nil {
		return nil, err
	}
	return New(f.Entries), nil
}

// Len returns the number of entries.
func (l *Library) Len() int { return len(l.entries) }

// At returns the entry at index i in parse order.
func (l *Library) At(i int) *Entry { return l.entries[i] }

// Find returns the first entry whose citation key equals key exactly.
func (l *Library) Find(key string) (*Entry, bool) {
	for _, e := range l.entries {
		if e.Key() == key {
			return e, true
		}
	}
	return nil, false
}

// Summary renders e as "key | title - author - year". Absent fields render
// empty so the columns stay aligned by position.
func Summary(e *Entry) string {
	parts := make([]string, len(summaryFields))
	for i, name := range summaryFields {
		v, _ := e.Field(name)
		parts[i] = stringsx.Collapse(v)
	}
	return fmt.Sprintf("%s %s %s", e.Key(), Delimiter, strings.Join(parts, " - "))
}

// Summaries returns one summary line per entry, index-aligned with At.
func (l *Library) Summaries() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = Summary(e)
	}
	return out
}

// KeyColumn extracts the citation key from a summary line.
func KeyColumn(line string) string {
	key, _, _ := strings.Cut(line, Delimiter)
	return strings.TrimSpace(key)
}

// Match is one Filter hit.
type Match struct {
	Index int
	Line  string
}

// Filter ranks summary lines against query, best match first. An empty
// query returns every line in parse order.
func (l *Library) Filter(query string) []Match {
	lines := l.Summaries()
	if strings.TrimSpace(query) == "" {
		out := make([]Match, len(lines))
		for i, s := range lines {
			out[i] = Match{Index: i, Line: s}
		}
		return out
	}
	found := fuzzy.Find(query, lines)
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, Match{Index: m.Index, Line: m.Str})
	}
	return out
}
