package library

import (
	"strings"

	"bibfzf/src/internal/bibtex"
)

// Entry is a parsed record with a case-insensitive field index. The index
// stores raw values; callers collapse whitespace when displaying them.
type Entry struct {
	raw    bibtex.Entry
	fields map[string]string
}

// Normalize indexes e's tags by lower-cased name. When a name repeats, the
// last occurrence wins.
func Normalize(e bibtex.Entry) *Entry {
	fields := make(map[string]string, len(e.Tags))
	for _, t := range e.Tags {
		fields[strings.ToLower(t.Name)] = t.Value
	}
	return &Entry{raw: e, fields: fields}
}

// Key returns the citation key.
func (e *Entry) Key() string { return e.raw.Key }

// Type returns the entry type, e.g. "article".
func (e *Entry) Type() string { return e.raw.Type }

// Tags returns the tags in source order, names as written.
func (e *Entry) Tags() []bibtex.Tag { return e.raw.Tags }

// Field looks up a field by name in any case.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.fields[strings.ToLower(name)]
	return v, ok
}

// Has reports whether the field is present. The empty name is always present.
func (e *Entry) Has(name string) bool {
	if name == "" {
		return true
	}
	_, ok := e.Field(name)
	return ok
}
