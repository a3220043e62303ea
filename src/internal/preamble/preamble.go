// Package preamble assembles the text handed to the BibTeX parser: builtin
// macro definitions, then any configured preamble files, then the target
// bibliography.
package preamble

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"bibfzf/src/internal/sharedtree"
)

// Months defines the month macros entries commonly use unquoted.
const Months = `@String { jan = "January" }
@String { feb = "February" }
@String { mar = "March" }
@String { apr = "April" }
@String { may = "May" }
@String { jun = "June" }
@String { jul = "July" }
@String { aug = "August" }
@String { sep = "September" }
@String { oct = "October" }
@String { nov = "November" }
@String { dec = "December" }`

// Options names the pieces to compose.
type Options struct {
	// Builtin is prepended verbatim.
	Builtin string
	// Files are absolute paths, or bare names looked up in the shared tree.
	Files []string
	// SharedPattern is the glob of shared-tree roots (see sharedtree.Pattern).
	SharedPattern string
	// Target is the bibliography being browsed; always appended last.
	Target string
}

// Result is the composed text plus what went into it.
type Result struct {
	Text string
	// Sources lists the files read, in order, ending with the target.
	Sources []string
	// Warnings name preamble files that could not be resolved and were skipped,
	// and shared-tree paths that could not be read.
	Warnings []string
	// TargetLine is the 1-based line of Text where the target's content starts.
	TargetLine int
}

// Compose reads every fragment and joins them with newlines. A bare name
// missing from the shared tree is skipped with a warning. Failing to read an
// absolute path or the target is an error.
func Compose(fsys afero.Fs, opts Options) (*Result, error) {
	res := &Result{}
	var b strings.Builder
	b.WriteString(opts.Builtin)
	b.WriteString("\n")

	var idx sharedtree.Index
	for _, name := range opts.Files {
		path := name
		if !filepath.IsAbs(name) {
			if idx == nil {
				i, skipped, err := sharedtree.Locate(fsys, opts.SharedPattern)
				if err != nil {
					return nil, err
				}
				for _, e := range skipped {
					res.Warnings = append(res.Warnings, e.Error())
				}
				idx = i
			}
			p, ok := idx.Resolve(name)
			if !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf("couldn't locate preamble file %s", name))
				continue
			}
			path = p
		}
		if err := appendFile(fsys, &b, path); err != nil {
			return nil, fmt.Errorf("read preamble file: %w", err)
		}
		b.WriteString("\n")
		res.Sources = append(res.Sources, path)
	}

	res.TargetLine = strings.Count(b.String(), "\n") + 1
	if err := appendFile(fsys, &b, opts.Target); err != nil {
		return nil, fmt.Errorf("read bibliography: %w", err)
	}
	res.Sources = append(res.Sources, opts.Target)
	res.Text = b.String()
	return res, nil
}

func appendFile(fsys afero.Fs, b *strings.Builder, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	b.Write(data)
	return nil
}
