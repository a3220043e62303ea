// Package bibtex reads BibTeX source into entries that keep their tags in
// source order, duplicates included, with values left as raw text.
package bibtex

import (
	"fmt"
	"strings"
)

// Tag is one field of an entry as it appears in the source.
type Tag struct {
	Name  string
	Value string
}

// Entry is a single @type{key, ...} record.
type Entry struct {
	Type string
	Key  string
	Tags []Tag
}

// File is everything Parse found in a document.
type File struct {
	Entries   []Entry
	Preambles []string
	// Strings holds @string macros keyed by lower-cased name.
	Strings map[string]string
}

// SyntaxError reports malformed input at a 1-based line and column.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bibtex: line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

type parser struct {
	s      string
	i      int
	macros map[string]string
}

// Parse reads src. Text outside @ records is ignored, as BibTeX does.
// @string macros apply to every record that follows their definition;
// an undefined macro expands to its own name.
func Parse(src string) (*File, error) {
	p := &parser{s: src, macros: map[string]string{}}
	f := &File{Strings: p.macros}
	for {
		j := strings.IndexByte(p.s[p.i:], '@')
		if j < 0 {
			return f, nil
		}
		p.i += j + 1
		p.skipWS()
		typ := strings.ToLower(p.ident())
		if typ == "" {
			return nil, p.errorf("expected entry type after '@'")
		}
		p.skipWS()
		if p.eof() {
			return nil, p.errorf("expected '{' or '(' after @%s", typ)
		}
		var closer byte
		switch p.s[p.i] {
		case '{':
			closer = '}'
		case '(':
			closer = ')'
		default:
			return nil, p.errorf("expected '{' or '(' after @%s", typ)
		}
		open := p.s[p.i]
		p.i++
		switch typ {
		case "comment":
			if err := p.skipBalanced(open, closer); err != nil {
				return nil, err
			}
		case "preamble":
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			if err := p.close(closer); err != nil {
				return nil, err
			}
			f.Preambles = append(f.Preambles, v)
		case "string":
			if err := p.macro(closer); err != nil {
				return nil, err
			}
		default:
			e, err := p.entry(typ, closer)
			if err != nil {
				return nil, err
			}
			f.Entries = append(f.Entries, e)
		}
	}
}

func (p *parser) macro(closer byte) error {
	p.skipWS()
	name := p.ident()
	if name == "" {
		return p.errorf("expected macro name in @string")
	}
	p.skipWS()
	if !p.consume('=') {
		return p.errorf("expected '=' after macro %s", name)
	}
	v, err := p.value()
	if err != nil {
		return err
	}
	p.macros[strings.ToLower(name)] = v
	p.skipWS()
	p.consume(',')
	return p.close(closer)
}

func (p *parser) entry(typ string, closer byte) (Entry, error) {
	p.skipWS()
	start := p.i
	for !p.eof() && p.s[p.i] != ',' && p.s[p.i] != closer && !isSpace(p.s[p.i]) {
		p.i++
	}
	e := Entry{Type: typ, Key: p.s[start:p.i]}
	p.skipWS()
	if p.eof() {
		return Entry{}, p.errorf("unterminated entry %q", e.Key)
	}
	if p.consume(closer) {
		return e, nil
	}
	if !p.consume(',') {
		return Entry{}, p.errorf("expected ',' after key %q", e.Key)
	}
	for {
		p.skipWS()
		if p.eof() {
			return Entry{}, p.errorf("unterminated entry %q", e.Key)
		}
		if p.consume(closer) {
			return e, nil
		}
		name := p.ident()
		if name == "" {
			return Entry{}, p.errorf("expected field name in entry %q", e.Key)
		}
		p.skipWS()
		if !p.consume('=') {
			return Entry{}, p.errorf("expected '=' after field %s", name)
		}
		v, err := p.value()
		if err != nil {
			return Entry{}, err
		}
		e.Tags = append(e.Tags, Tag{Name: name, Value: v})
		p.skipWS()
		if p.consume(',') {
			continue
		}
		if p.consume(closer) {
			return e, nil
		}
		return Entry{}, p.errorf("expected ',' or '%c' after field %s", closer, name)
	}
}

// value reads one or more '#'-joined pieces: {braced}, "quoted", digits, or
// macro names.
func (p *parser) value() (string, error) {
	var b strings.Builder
	for {
		p.skipWS()
		if p.eof() {
			return "", p.errorf("unexpected end of input in value")
		}
		c := p.s[p.i]
		switch {
		case c == '{':
			s, err := p.delimited('{', '}')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case c == '"':
			s, err := p.delimited('"', '"')
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case isDigit(c):
			start := p.i
			for !p.eof() && isDigit(p.s[p.i]) {
				p.i++
			}
			b.WriteString(p.s[start:p.i])
		case isNameChar(c):
			name := p.ident()
			if v, ok := p.macros[strings.ToLower(name)]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(name)
			}
		default:
			return "", p.errorf("unexpected %q in value", c)
		}
		p.skipWS()
		if !p.consume('#') {
			return b.String(), nil
		}
	}
}

// delimited returns the text between open and its matching end. Braces
// nested inside are kept verbatim; a quote only ends the value outside them.
func (p *parser) delimited(open, end byte) (string, error) {
	at := p.i
	p.i++
	start := p.i
	depth := 0
	for !p.eof() {
		c := p.s[p.i]
		switch {
		case c == end && depth == 0:
			v := p.s[start:p.i]
			p.i++
			return v, nil
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth < 0 {
				return "", p.errorf("unbalanced '}' in value")
			}
		}
		p.i++
	}
	p.i = at
	return "", p.errorf("unterminated %c value", open)
}

func (p *parser) skipBalanced(open, closer byte) error {
	at := p.i
	depth := 0
	for !p.eof() {
		switch p.s[p.i] {
		case open:
			depth++
		case closer:
			if depth == 0 {
				p.i++
				return nil
			}
			depth--
		}
		p.i++
	}
	p.i = at
	return p.errorf("unterminated @comment")
}

func (p *parser) close(closer byte) error {
	p.skipWS()
	if !p.consume(closer) {
		return p.errorf("expected '%c'", closer)
	}
	return nil
}

func (p *parser) skipWS() {
	for !p.eof() {
		if p.s[p.i] == '%' {
			for !p.eof() && p.s[p.i] != '\n' {
				p.i++
			}
			continue
		}
		if !isSpace(p.s[p.i]) {
			return
		}
		p.i++
	}
}

func (p *parser) ident() string {
	start := p.i
	for !p.eof() && isNameChar(p.s[p.i]) {
		p.i++
	}
	return p.s[start:p.i]
}

func (p *parser) consume(c byte) bool {
	if !p.eof() && p.s[p.i] == c {
		p.i++
		return true
	}
	return false
}

func (p *parser) eof() bool { return p.i >= len(p.s) }

func (p *parser) errorf(format string, args ...any) error {
	line, col := 1, 1
	for _, r := range p.s[:min(p.i, len(p.s))] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func isSpace(c byte) bool { return strings.IndexByte(" \t\r\n\f\v", c) >= 0 }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isNameChar(c byte) bool {
	if c <= ' ' || c == 0x7f {
		return false
	}
	return strings.IndexByte(`{}(),="#%@`, c) < 0
}
