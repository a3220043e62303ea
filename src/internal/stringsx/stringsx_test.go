package stringsx

import (
	"strings"
	"testing"
	"unicode"

	"pgregory.net/rapid"
)

func TestCollapse(t *testing.T) {
	cases := map[string]string{
		"":                            "",
		"   ":                         "",
		"plain":                       "plain",
		"  A  Study\n\tof   Things  ": "A Study of Things",
		"Doe, J.\n  and Roe, R.":      "Doe, J. and Roe, R.",
	}
	for in, want := range cases {
		if got := Collapse(in); got != want {
			t.Fatalf("Collapse(%q) = %q, want %q", in, got, want)
		}
	}
}

func bibValue() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.String(),
		rapid.StringOf(rapid.SampledFrom([]rune{' ', '\t', '\n', '\r', 'a', 'B', '{', '}', 'é', ' ', ' '})),
	)
}

func TestCollapseIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := bibValue().Draw(t, "s")
		once := Collapse(s)
		if twice := Collapse(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestCollapseNoRunsNoEdges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		out := Collapse(bibValue().Draw(t, "s"))
		if out != strings.TrimFunc(out, unicode.IsSpace) {
			t.Fatalf("leading/trailing whitespace in %q", out)
		}
		prev := false
		for _, r := range out {
			sp := unicode.IsSpace(r)
			if sp && prev {
				t.Fatalf("adjacent whitespace in %q", out)
			}
			prev = sp
		}
	})
}
