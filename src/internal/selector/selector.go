// Package selector presents a list of lines for interactive fuzzy selection.
package selector

import (
	"errors"
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"
)

// Options configures one selection pass.
type Options struct {
	Prompt string
	Header string
	// Query pre-fills the search input.
	Query string
	// Preview, when set, fills the preview pane for the highlighted item.
	// i is -1 when nothing is highlighted.
	Preview func(i, width, height int) string
}

// Selector picks at most one item. ok is false when the user cancelled.
type Selector interface {
	Select(items []string, opts Options) (idx int, ok bool, err error)
}

// Fuzzy is the terminal fuzzy finder. It reads keys from the controlling
// terminal, so stdin and stdout may be redirected.
type Fuzzy struct{}

func (Fuzzy) Select(items []string, opts Options) (int, bool, error) {
	var fopts []fuzzyfinder.Option
	if opts.Prompt != "" {
		fopts = append(fopts, fuzzyfinder.WithPromptString(opts.Prompt))
	}
	if opts.Header != "" {
		fopts = append(fopts, fuzzyfinder.WithHeader(opts.Header))
	}
	if opts.Query != "" {
		fopts = append(fopts, fuzzyfinder.WithQuery(opts.Query))
	}
	if opts.Preview != nil {
		fopts = append(fopts, fuzzyfinder.WithPreviewWindow(opts.Preview))
	}
	idx, err := fuzzyfinder.Find(items, func(i int) string { return items[i] }, fopts...)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return -1, false, nil
	}
	if err != nil {
		return -1, false, fmt.Errorf("selector: %w", err)
	}
	return idx, true, nil
}
