// Package opener runs the external commands behind the action menu: PDF
// viewers, URL handlers, clipboard tools.
package opener

import (
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// Runner abstracts command execution for testability.
type Runner interface {
	// Run starts name with args and waits for it. stdin may be nil.
	Run(name string, stdin io.Reader, args ...string) error
}

// Exec runs commands with the parent's environment, stdout and stderr.
type Exec struct{}

// Run executes the named program and waits for it to exit or detach.
func (Exec) Run(name string, stdin io.Reader, args ...string) error {
	cmd := exec.Command(name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	} else {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Spawn runs name with a single argument and drops any failure. Openers are
// desktop conveniences; a viewer that fails to start or exits non-zero is
// logged at debug level and never reported as an error.
func Spawn(r Runner, log zerolog.Logger, name, arg string) {
	log.Debug().Str("cmd", name).Str("arg", arg).Msg("spawn")
	if err := r.Run(name, nil, arg); err != nil {
		log.Debug().Err(err).Str("cmd", name).Msg("opener failed; ignored")
	}
}

// Pipe runs name with text on stdin, dropping failures like Spawn.
func Pipe(r Runner, log zerolog.Logger, name string, stdin io.Reader) {
	log.Debug().Str("cmd", name).Msg("pipe")
	if err := r.Run(name, stdin); err != nil {
		log.Debug().Err(err).Str("cmd", name).Msg("pipe failed; ignored")
	}
}
