// Package actions is the menu shown after an entry is picked: each action
// needs one field to be present and performs one external side effect.
package actions

import "bibfzf/src/internal/library"

// Kind identifies an action.
type Kind int

const (
	OpenPDF Kind = iota
	OpenURL
	OpenDOI
	CopyKey
	CopyCite
)

// Descriptor is one row of the action table. Field is the entry field the
// handler reads; empty means the action is always offered.
type Descriptor struct {
	Kind  Kind
	Label string
	Field string
}

// Table lists every action in menu order.
var Table = []Descriptor{
	{Kind: OpenPDF, Label: "Open PDF", Field: "file"},
	{Kind: OpenURL, Label: "Open URL", Field: "url"},
	{Kind: OpenDOI, Label: "Open DOI", Field: "doi"},
	{Kind: CopyKey, Label: "Copy key"},
	{Kind: CopyCite, Label: `Copy \cite`},
}

func (k Kind) String() string {
	for _, d := range Table {
		if d.Kind == k {
			return d.Label
		}
	}
	return "unknown"
}

// Available filters Table down to the actions e has the fields for,
// preserving order.
func Available(e *library.Entry) []Descriptor {
	var out []Descriptor
	for _, d := range Table {
		if e.Has(d.Field) {
			out = append(out, d)
		}
	}
	return out
}

// Labels returns the display labels of ds.
func Labels(ds []Descriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Label
	}
	return out
}
