// Package render writes borderless two-column tables for terminal output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// Options controls table styling.
type Options struct {
	// Plain disables bold names even when w is a colour terminal.
	Plain bool
}

// Table writes one line per row: the name padded to the widest name, a
// space, then the value. Names are bold when the output supports it.
func Table(w io.Writer, rows [][2]string, opts Options) error {
	r := lipgloss.NewRenderer(w)
	if opts.Plain {
		r.SetColorProfile(termenv.Ascii)
	}
	name := r.NewStyle().Bold(true)

	width := nameWidth(rows)
	for _, row := range rows {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(row[0]))
		if _, err := fmt.Fprintf(w, "%s%s %s\n", name.Render(row[0]), pad, row[1]); err != nil {
			return err
		}
	}
	return nil
}

func nameWidth(rows [][2]string) int {
	width := 0
	for _, row := range rows {
		if n := runewidth.StringWidth(row[0]); n > width {
			width = n
		}
	}
	return width
}
