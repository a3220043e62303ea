// Package rootcmd is the bibfzf command line. One flag surface leads to
// three disjoint paths: lookup (--key), filter (--filter) and the
// interactive picker.
package rootcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bibfzf/src/internal/actions"
	"bibfzf/src/internal/bibtex"
	"bibfzf/src/internal/config"
	"bibfzf/src/internal/library"
	"bibfzf/src/internal/lookup"
	"bibfzf/src/internal/opener"
	"bibfzf/src/internal/preamble"
	"bibfzf/src/internal/selector"
	"bibfzf/src/internal/session"
	"bibfzf/src/internal/sharedtree"
)

var version = "dev"

// ExitError ends the process with Code and no further message; whatever
// needed saying was already printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// Deps are the outside-world hooks, replaceable in tests.
type Deps struct {
	FS         afero.Fs
	Selector   selector.Selector
	Runner     opener.Runner
	Clipboard  actions.Clipboard
	Executable func() (string, error)
	// ConfigPath returns the default config file location.
	ConfigPath func() (string, error)
	// TermWidth reports stdout's width when it is a terminal.
	TermWidth func() (int, bool)
}

// DefaultDeps wires the real filesystem, terminal and processes.
func DefaultDeps() Deps {
	return Deps{
		FS:         afero.NewOsFs(),
		Selector:   selector.Fuzzy{},
		Runner:     opener.Exec{},
		Clipboard:  actions.SystemClipboard,
		Executable: os.Executable,
		ConfigPath: config.DefaultPath,
		TermWidth:  stdoutWidth,
	}
}

func stdoutWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

type options struct {
	bib       string
	key       string
	keySet    bool
	config    string
	filter    string
	filterSet bool
	query     string
	format    string
	plain     bool
	verbose   bool
}

// New returns the root command.
func New(deps Deps) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "bibfzf [flags] BIBTEX",
		Short: "Fuzzy-search a BibTeX file and act on the chosen entry",
		Long: heredoc.Doc(`
			Browse a BibTeX bibliography in a fuzzy finder. The preview pane shows
			the highlighted entry; picking one offers the actions its fields allow:
			open the attached PDF, open its URL or DOI, or print its key or a
			\cite{} command.

			Configuration is read from ~/.bibfzf.conf (TOML) when present.
		`),
		Example: heredoc.Doc(`
			# pick an entry interactively
			bibfzf refs.bib

			# print one entry, as the preview pane does
			bibfzf --key knuth84 refs.bib

			# list matching entries without the picker
			bibfzf --filter "knuth literate" refs.bib
		`),
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.bib = args[0]
			o.keySet = cmd.Flags().Changed("key")
			o.filterSet = cmd.Flags().Changed("filter")
			return run(cmd, deps, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.key, "key", "k", "", "print the entry with this citation key and exit")
	f.StringVarP(&o.config, "config", "c", "", "configuration file (default ~/"+config.FileName+")")
	f.StringVarP(&o.filter, "filter", "f", "", "print summary lines matching this fuzzy query and exit")
	f.StringVarP(&o.query, "query", "q", "", "initial query for the picker")
	f.StringVar(&o.format, "format", lookup.FormatTable, "output format for --key: table or yaml")
	f.BoolVar(&o.plain, "plain", false, "never style --key table output")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	cmd.MarkFlagsMutuallyExclusive("key", "filter")
	return cmd
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}
	return zerolog.New(out).Level(level)
}

func run(cmd *cobra.Command, deps Deps, o options) error {
	if o.format != lookup.FormatTable && o.format != lookup.FormatYAML {
		return fmt.Errorf("--format: unknown format %q (want %s or %s)", o.format, lookup.FormatTable, lookup.FormatYAML)
	}
	log := newLogger(cmd.ErrOrStderr(), o.verbose)

	cfg, err := loadConfig(deps, o.config, log)
	if err != nil {
		return err
	}
	lib, err := loadLibrary(deps.FS, cfg, o.bib, log)
	if err != nil {
		return err
	}

	switch {
	case o.keySet:
		return runLookup(cmd.OutOrStdout(), lib, o)
	case o.filterSet:
		return runFilter(cmd.OutOrStdout(), deps, lib, o.filter)
	default:
		return runInteractive(cmd.OutOrStdout(), deps, cfg, lib, o, log)
	}
}

func loadConfig(deps Deps, path string, log zerolog.Logger) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := deps.ConfigPath()
		if err != nil {
			log.Debug().Err(err).Msg("no default config path; using defaults")
			return config.Defaults()
		}
		path = p
	}
	cfg, found, err := config.Load(deps.FS, path)
	if err != nil {
		return nil, err
	}
	switch {
	case found:
		log.Debug().Str("path", path).Msg("config loaded")
	case explicit:
		log.Warn().Str("path", path).Msg("config file not found; using defaults")
	}
	return cfg, nil
}

// loadLibrary composes the preamble with the target file and parses the
// result. Read and parse failures are fatal; unresolved shared preamble
// files are only warned about.
func loadLibrary(fsys afero.Fs, cfg *config.Config, bib string, log zerolog.Logger) (*library.Library, error) {
	res, err := preamble.Compose(fsys, preamble.Options{
		Builtin:       cfg.Preamble,
		Files:         cfg.PreambleFiles,
		SharedPattern: sharedtree.Pattern(cfg.TexlivePath),
		Target:        bib,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
	log.Debug().Strs("sources", res.Sources).Msg("preamble composed")

	lib, err := library.Load(res.Text)
	if err != nil {
		var se *bibtex.SyntaxError
		if errors.As(err, &se) && se.Line >= res.TargetLine {
			return nil, fmt.Errorf("parse %s:%d:%d: %s", bib, se.Line-res.TargetLine+1, se.Col, se.Msg)
		}
		return nil, fmt.Errorf("parse %s: %w", bib, err)
	}
	log.Debug().Int("entries", lib.Len()).Msg("bibliography loaded")
	return lib, nil
}

func runLookup(w io.Writer, lib *library.Library, o options) error {
	err := lookup.Render(w, lib, o.key, lookup.Options{Format: o.format, Plain: o.plain})
	if errors.Is(err, lookup.ErrNotFound) {
		fmt.Fprintln(w, lookup.NotFoundMessage(o.key))
		return &ExitError{Code: 1}
	}
	return err
}

// runFilter prints matching summary lines, best first, and exits 1 when
// nothing matches. Lines are cut to the terminal width when stdout is one.
func runFilter(w io.Writer, deps Deps, lib *library.Library, query string) error {
	matches := lib.Filter(query)
	width, tty := deps.TermWidth()
	for _, m := range matches {
		line := m.Line
		if tty {
			line = runewidth.Truncate(line, width, "…")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(matches) == 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

func runInteractive(w io.Writer, deps Deps, cfg *config.Config, lib *library.Library, o options, log zerolog.Logger) error {
	exe, err := deps.Executable()
	if err != nil {
		return fmt.Errorf("locate executable for preview: %w", err)
	}
	preview := selector.Preview{Exe: exe, Bib: absPath(o.bib)}
	if o.config != "" {
		preview.Config = absPath(o.config)
	}
	log.Debug().Str("preview", preview.Template()).Msg("starting picker")

	s := &session.Session{
		Library:  lib,
		Selector: deps.Selector,
		Preview:  preview,
		Dispatcher: &actions.Dispatcher{
			Commands:      cfg.Actions,
			ClipboardMode: cfg.Clipboard,
			Runner:        deps.Runner,
			Clipboard:     deps.Clipboard,
			Out:           w,
			Log:           log,
		},
		Query: o.query,
		Log:   log,
	}
	return s.Run()
}

func absPath(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}
