// Package session drives the interactive flow: pick an entry from the
// summary list, then pick an action for it.
package session

import (
	"github.com/rs/zerolog"

	"bibfzf/src/internal/actions"
	"bibfzf/src/internal/library"
	"bibfzf/src/internal/selector"
)

// Previewer builds the preview callback for the summary list.
type Previewer interface {
	Window(lines []string) func(i, width, height int) string
}

type Session struct {
	Library    *library.Library
	Selector   selector.Selector
	Preview    Previewer
	Dispatcher *actions.Dispatcher
	// Query pre-fills the entry search.
	Query string
	Log   zerolog.Logger
}

// Run performs one primary selection and, when an entry is picked, one
// action menu. Cancelling either pass ends the session without side effects.
func (s *Session) Run() error {
	if s.Library.Len() == 0 {
		s.Log.Warn().Msg("bibliography has no entries")
		return nil
	}
	lines := s.Library.Summaries()
	opts := selector.Options{Prompt: "> ", Query: s.Query}
	if s.Preview != nil {
		opts.Preview = s.Preview.Window(lines)
	}
	idx, ok, err := s.Selector.Select(lines, opts)
	if err != nil {
		return err
	}
	if !ok {
		s.Log.Debug().Msg("no entry selected")
		return nil
	}
	e := s.Library.At(idx)
	s.Log.Debug().Str("key", e.Key()).Msg("entry selected")
	_, _, err = s.Dispatcher.Menu(s.Selector, e)
	return err
}
