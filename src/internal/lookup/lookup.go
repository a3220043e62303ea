// Package lookup renders a single entry by citation key. It is what the
// picker's preview pane runs for the highlighted row.
package lookup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"bibfzf/src/internal/library"
	"bibfzf/src/internal/render"
	"bibfzf/src/internal/stringsx"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// ErrNotFound means no entry carries the requested key.
var ErrNotFound = errors.New("key not found")

type Options struct {
	Format string
	Plain  bool
}

// Render writes the first entry whose key equals key. Values are collapsed
// to one line; tag names are shown as written in the source.
func Render(w io.Writer, lib *library.Library, key string, opts Options) error {
	e, ok := lib.Find(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	switch opts.Format {
	case "", FormatTable:
		return render.Table(w, Rows(e), render.Options{Plain: opts.Plain})
	case FormatYAML:
		return writeYAML(w, e)
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", opts.Format, FormatTable, FormatYAML)
	}
}

// NotFoundMessage is printed on stdout when a key is missing.
func NotFoundMessage(key string) string {
	return fmt.Sprintf("Couldn't find key `%s`", key)
}

// Rows returns key, type, then one row per tag in source order.
func Rows(e *library.Entry) [][2]string {
	rows := [][2]string{{"key", e.Key()}, {"type", e.Type()}}
	for _, t := range e.Tags() {
		rows = append(rows, [2]string{t.Name, stringsx.Collapse(t.Value)})
	}
	return rows
}

// writeYAML emits fields as an ordered mapping. Repeated names keep only the
// last occurrence so the document stays valid YAML.
func writeYAML(w io.Writer, e *library.Entry) error {
	tags := e.Tags()
	last := make(map[string]int, len(tags))
	for i, t := range tags {
		last[strings.ToLower(t.Name)] = i
	}
	fields := &yaml.Node{Kind: yaml.MappingNode}
	for i, t := range tags {
		if last[strings.ToLower(t.Name)] != i {
			continue
		}
		fields.Content = append(fields.Content, str(t.Name), str(stringsx.Collapse(t.Value)))
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		str("key"), str(e.Key()),
		str("type"), str(e.Type()),
		str("fields"), fields,
	}}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
