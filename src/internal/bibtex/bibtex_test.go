package bibtex

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseKeepsTagOrderAndDuplicates(t *testing.T) {
	src := `
Some free text that BibTeX ignores.
@Article{knuth84,
  Title  = {Literate {P}rogramming},
  author = "Donald E. Knuth",
  year   = 1984,
  TITLE  = {Second
     title},
}`
	f, err := Parse(src)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(f.Entries, 1))
	e := f.Entries[0]
	assert.Equal(t, e.Type, "article")
	assert.Equal(t, e.Key, "knuth84")
	assert.DeepEqual(t, e.Tags, []Tag{
		{Name: "Title", Value: "Literate {P}rogramming"},
		{Name: "author", Value: "Donald E. Knuth"},
		{Name: "year", Value: "1984"},
		{Name: "TITLE", Value: "Second\n     title"},
	})
}

func TestParseMacrosAndConcatenation(t *testing.T) {
	src := `
@string{ jan = "January" }
@String(pub = {ACM})
@misc{k1, month = jan # " 1st", publisher = pub, note = undefined}
`
	f, err := Parse(src)
	assert.NilError(t, err)
	assert.Equal(t, f.Strings["jan"], "January")
	assert.Assert(t, is.Len(f.Entries, 1))
	assert.DeepEqual(t, f.Entries[0].Tags, []Tag{
		{Name: "month", Value: "January 1st"},
		{Name: "publisher", Value: "ACM"},
		{Name: "note", Value: "undefined"},
	})
}

func TestParseMacroOnlyAppliesAfterDefinition(t *testing.T) {
	f, err := Parse(`@misc{a, month = feb} @string{feb = "February"} @misc{b, month = feb}`)
	assert.NilError(t, err)
	assert.Equal(t, f.Entries[0].Tags[0].Value, "feb")
	assert.Equal(t, f.Entries[1].Tags[0].Value, "February")
}

func TestParseParensCommentsAndPreamble(t *testing.T) {
	src := `
@comment{ignored {nested} text}
@preamble{ "\newcommand{\noop}[1]{}" }
% a line comment
@book(b1,
  title = {Parens},
)
@misc{empty}
`
	f, err := Parse(src)
	assert.NilError(t, err)
	assert.DeepEqual(t, f.Preambles, []string{`\newcommand{\noop}[1]{}`})
	assert.Assert(t, is.Len(f.Entries, 2))
	assert.Equal(t, f.Entries[0].Key, "b1")
	assert.Equal(t, f.Entries[0].Tags[0].Value, "Parens")
	assert.Equal(t, f.Entries[1].Key, "empty")
	assert.Assert(t, is.Len(f.Entries[1].Tags, 0))
}

func TestParseDuplicateKeysKept(t *testing.T) {
	f, err := Parse(`@misc{A, n = 1} @misc{B, n = 2} @misc{A, n = 3}`)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(f.Entries, 3))
	assert.Equal(t, f.Entries[2].Key, "A")
	assert.Equal(t, f.Entries[2].Tags[0].Value, "3")
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		line int
	}{
		"missing brace":    {src: "@article knuth", line: 1},
		"unterminated":     {src: "@article{k,\n title = {open", line: 2},
		"missing equals":   {src: "@article{k,\n\n title {x}}", line: 3},
		"bad separator":    {src: "@article{k, a = {x} b = {y}}", line: 1},
		"unbalanced close": {src: `@article{k, a = "x}"}`, line: 1},
		"no type":          {src: "@{k}", line: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tc.src)
			var se *SyntaxError
			assert.Assert(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, se.Line, tc.line)
		})
	}
}
