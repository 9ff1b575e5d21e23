package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Entry is one line of a replay transcript.
type Entry struct {
	Step    int           `json:"step"`
	Elapsed time.Duration `json:"elapsed_ms"`
	Event   string        `json:"event"`
	Detail  string        `json:"detail,omitempty"`
}

// MarshalJSON renders Elapsed in milliseconds.
func (e Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	return json.Marshal(struct {
		alias
		Elapsed int64 `json:"elapsed_ms"`
	}{alias: alias(e), Elapsed: e.Elapsed.Milliseconds()})
}

var eventColors = map[string]string{
	"activate":      "#818cf8",
	"deactivate":    "#a78bfa",
	"trigger":       "#f472b6",
	"callback":      "#fb7185",
	"title_flash":   "#facc15",
	"title_restore": "#34d399",
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes transcript entries either as colored text or as NDJSON.
type Printer struct {
	w    io.Writer
	out  *termenv.Output
	json bool
}

// NewPrinter creates a printer. When asJSON is false and w is not a
// terminal, colors are dropped by termenv's profile detection.
func NewPrinter(w io.Writer, asJSON bool) *Printer {
	return &Printer{w: w, out: termenv.NewOutput(w), json: asJSON}
}

// Print writes a single entry.
func (p *Printer) Print(e Entry) error {
	if p.json {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(data))
		return err
	}

	event := p.out.String(fmt.Sprintf("%-13s", e.Event))
	if c, ok := eventColors[e.Event]; ok {
		event = event.Foreground(p.out.Color(c)).Bold()
	}
	prefix := p.out.String(fmt.Sprintf("#%-3d %8s", e.Step, e.Elapsed)).Faint()
	_, err := fmt.Fprintf(p.w, "%s  %s %s\n", prefix, event, e.Detail)
	return err
}

// Summary writes the closing line of a transcript.
func (p *Printer) Summary(triggers int, title string) error {
	if p.json {
		data, err := json.Marshal(map[string]any{"event": "summary", "triggers": triggers, "title": title})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.w, string(data))
		return err
	}
	_, err := fmt.Fprintf(p.w, "\n%s triggers=%d title=%q\n", p.out.String("summary").Bold(), triggers, title)
	return err
}
