// Package sharedtree indexes the bibliography files shipped with a TeX
// distribution so preamble files can be named without a path.
package sharedtree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Ext is the extension of indexed files.
const Ext = ".bib"

// Index maps a bare file name to the path it was found at.
type Index map[string]string

// Pattern returns the glob of bibliography roots under a TeX Live install,
// one per release year: <texlive>/*/texmf-dist/bibtex/bib.
func Pattern(texlivePath string) string {
	return filepath.Join(texlivePath, "*", "texmf-dist", "bibtex", "bib")
}

// Locate expands pattern and walks every matching directory for *.bib files.
// Two files with the same name collide and the one walked last is kept; walk
// order across roots follows glob order and is not otherwise defined.
// Directories and files that cannot be read are left out of the index and
// returned in skipped; only a malformed pattern is an error.
func Locate(fsys afero.Fs, pattern string) (idx Index, skipped []error, err error) {
	roots, err := afero.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("shared tree pattern %q: %w", pattern, err)
	}
	idx = Index{}
	for _, root := range roots {
		err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				skipped = append(skipped, fmt.Errorf("scan %s: %w", path, err))
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() || !strings.EqualFold(filepath.Ext(path), Ext) {
				return nil
			}
			idx[filepath.Base(path)] = path
			return nil
		})
		if err != nil && !errors.Is(err, filepath.SkipDir) {
			skipped = append(skipped, fmt.Errorf("scan %s: %w", root, err))
		}
	}
	return idx, skipped, nil
}

// Resolve returns the indexed path for name.
func (idx Index) Resolve(name string) (string, bool) {
	p, ok := idx[name]
	return p, ok
}
