package selector

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"bibfzf/src/internal/library"
)

// Preview re-runs this program in lookup mode for the highlighted row. Each
// call is a fresh process, so previews share no state with the picker or
// with each other.
type Preview struct {
	// Exe is the program to run, normally os.Executable().
	Exe string
	// Bib is the bibliography path passed through unchanged.
	Bib string
	// Config is forwarded with --config when non-empty.
	Config string
}

// Args returns the lookup-mode arguments for key.
func (p Preview) Args(key string) []string {
	args := []string{"--key", key}
	if p.Config != "" {
		args = append(args, "--config", p.Config)
	}
	return append(args, p.Bib)
}

// Template shows the command with {1} standing for the key column.
func (p Preview) Template() string {
	return p.Exe + " " + strings.Join(p.Args("{1}"), " ")
}

// Render runs the lookup for key and returns what it printed. When the child
// prints nothing its stderr or exit error is shown instead.
func (p Preview) Render(key string) string {
	cmd := exec.Command(p.Exe, p.Args(key)...)
	// The child's stdout is a pipe; keep the bold table names anyway since
	// the preview pane understands SGR sequences.
	cmd.Env = append(os.Environ(), "CLICOLOR_FORCE=1")
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	if out.Len() > 0 {
		return out.String()
	}
	if s := strings.TrimSpace(errb.String()); s != "" {
		return s
	}
	if err != nil {
		return fmt.Sprintf("preview failed: %v", err)
	}
	return ""
}

// Window adapts Render to the selector's preview callback for a list of
// summary lines.
func (p Preview) Window(lines []string) func(i, width, height int) string {
	return func(i, _, _ int) string {
		if i < 0 || i >= len(lines) {
			return ""
		}
		return p.Render(library.KeyColumn(lines[i]))
	}
}
