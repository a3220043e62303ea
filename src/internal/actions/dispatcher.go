package actions

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"bibfzf/src/internal/config"
	"bibfzf/src/internal/library"
	"bibfzf/src/internal/opener"
	"bibfzf/src/internal/selector"
)

// DOIResolver prefixes a DOI to make it openable.
const DOIResolver = "https://dx.doi.org/"

// State tracks where a Dispatcher is in one menu round.
type State int

const (
	Idle State = iota
	MenuBuilt
	Dispatched
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case MenuBuilt:
		return "menu-built"
	case Dispatched:
		return "dispatched"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard writes through the platform clipboard tools.
var SystemClipboard Clipboard = systemClipboard{}

// Dispatcher runs actions against entries.
type Dispatcher struct {
	Commands config.Actions
	// ClipboardMode is one of the config.Clipboard* modes; empty prints only.
	ClipboardMode string
	Runner        opener.Runner
	Clipboard     Clipboard
	// Out receives copied keys and \cite strings.
	Out io.Writer
	Log zerolog.Logger

	state State
}

// State reports the current menu state.
func (d *Dispatcher) State() State { return d.state }

func (d *Dispatcher) enter(s State) {
	d.Log.Debug().Stringer("from", d.state).Stringer("to", s).Msg("action menu")
	d.state = s
}

// Menu shows the actions available for e and runs the chosen one. ok is
// false when the user cancelled; nothing has happened in that case. The
// dispatcher is back in Idle when Menu returns.
func (d *Dispatcher) Menu(sel selector.Selector, e *library.Entry) (chosen Kind, ok bool, err error) {
	items := Available(e)
	d.enter(MenuBuilt)
	defer d.enter(Idle)

	idx, ok, err := sel.Select(Labels(items), selector.Options{Prompt: "action> ", Header: e.Key()})
	if err != nil || !ok {
		return 0, false, err
	}
	chosen = items[idx].Kind
	d.enter(Dispatched)
	d.Execute(chosen, e)
	return chosen, true, nil
}

// Execute runs one action. Each handler checks its own field again and logs
// a warning instead of acting when the field is missing or malformed.
func (d *Dispatcher) Execute(k Kind, e *library.Entry) {
	switch k {
	case OpenPDF:
		d.openPDF(e)
	case OpenURL:
		if v, ok := d.require(e, "url", "URL"); ok {
			opener.Spawn(d.Runner, d.Log, d.Commands.OpenURL, v)
		}
	case OpenDOI:
		if v, ok := d.require(e, "doi", "DOI"); ok {
			opener.Spawn(d.Runner, d.Log, d.Commands.OpenDOI, DOIResolver+v)
		}
	case CopyKey:
		d.emit(d.Commands.CopyKey, e.Key())
	case CopyCite:
		d.emit(d.Commands.CopyCite, `\cite{`+e.Key()+`}`)
	default:
		d.Log.Warn().Int("kind", int(k)).Msg("unknown action")
	}
}

// openPDF expects file = "description:path:type", the layout reference
// managers such as JabRef write; the path is the second segment.
func (d *Dispatcher) openPDF(e *library.Entry) {
	v, ok := d.require(e, "file", "PDF")
	if !ok {
		return
	}
	segs := strings.Split(v, ":")
	if len(segs) < 3 {
		d.Log.Warn().Str("key", e.Key()).Str("file", v).Msg("'file' field not recognized")
		return
	}
	opener.Spawn(d.Runner, d.Log, d.Commands.OpenPDF, segs[1])
}

func (d *Dispatcher) require(e *library.Entry, field, what string) (string, bool) {
	v, ok := e.Field(field)
	if !ok {
		d.Log.Warn().Str("key", e.Key()).Msgf("no %s in entry", what)
	}
	return v, ok
}

// emit prints text and, depending on the clipboard mode, copies it too.
// Clipboard failures are dropped like opener failures.
func (d *Dispatcher) emit(command, text string) {
	fmt.Fprintln(d.Out, text)
	switch d.ClipboardMode {
	case config.ClipboardSystem:
		if err := d.Clipboard.WriteAll(text); err != nil {
			d.Log.Debug().Err(err).Msg("clipboard write failed; ignored")
		}
	case config.ClipboardCommand:
		opener.Pipe(d.Runner, d.Log, command, strings.NewReader(text))
	}
}
