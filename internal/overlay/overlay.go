// Package overlay renders the active-ward list in a terminal and owns
// the hotkey handling for the killsteal toggle.
package overlay

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/d2assist/d2assist/internal/tracker"
	"github.com/d2assist/d2assist/internal/util"
	"github.com/d2assist/d2assist/internal/ward"
)

// Toggler flips the killsteal enabled flag. Implemented by the
// killsteal service.
type Toggler interface {
	Toggle() bool
	Enabled() bool
}

// Dependencies holds all dependencies for the overlay renderer.
type Dependencies struct {
	Tracker *tracker.Service
	Toggler Toggler
	Logger  *slog.Logger
	Hotkey  tcell.Key
}

// Renderer draws the overlay onto a tcell screen. The screen comes in
// from the caller so tests can pass a simulation screen.
type Renderer struct {
	deps   Dependencies
	screen tcell.Screen
}

// NewRenderer creates a renderer on an initialized screen.
func NewRenderer(screen tcell.Screen, deps Dependencies) *Renderer {
	return &Renderer{deps: deps, screen: screen}
}

// ParseHotkey maps a configured key name like "F8" to a tcell key.
func ParseHotkey(name string) (tcell.Key, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "F1":
		return tcell.KeyF1, nil
	case "F2":
		return tcell.KeyF2, nil
	case "F3":
		return tcell.KeyF3, nil
	case "F4":
		return tcell.KeyF4, nil
	case "F5":
		return tcell.KeyF5, nil
	case "F6":
		return tcell.KeyF6, nil
	case "F7":
		return tcell.KeyF7, nil
	case "F8":
		return tcell.KeyF8, nil
	case "F9":
		return tcell.KeyF9, nil
	case "F10":
		return tcell.KeyF10, nil
	case "F11":
		return tcell.KeyF11, nil
	case "F12":
		return tcell.KeyF12, nil
	default:
		return 0, fmt.Errorf("unsupported hotkey: %q", name)
	}
}

// Render sweeps the store and draws one frame: a header, one line per
// active ward, and the killsteal status.
func (r *Renderer) Render(now time.Time) {
	active := r.deps.Tracker.Snapshot(now)

	r.screen.Clear()

	header := tcell.StyleDefault.Bold(true)
	r.drawText(0, 0, header, "d2assist")

	row := 1
	for _, w := range active {
		r.drawText(0, row, tcell.StyleDefault, FormatLine(w, now))
		row++
	}

	status := "killsteal: OFF"
	if r.deps.Toggler != nil && r.deps.Toggler.Enabled() {
		status = "killsteal: ON"
	}
	r.drawText(0, row+1, tcell.StyleDefault.Dim(true), status)

	r.screen.Show()
}

// FormatLine renders one ward entry as "<kind> [<region>]: M:SS".
func FormatLine(w ward.Tracked, now time.Time) string {
	return fmt.Sprintf("%s [%s]: %s", w.Kind.String(), w.Region, util.FormatClock(w.Remaining(now)))
}

// Run consumes screen events until quit: the configured hotkey toggles
// killsteal, Escape or Ctrl+C ends the session. Blocks until quit.
func (r *Renderer) Run() {
	for {
		ev := r.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			r.screen.Sync()
		case *tcell.EventKey:
			if r.handleKey(ev) {
				return
			}
		case nil:
			// Screen finalized
			return
		}
	}
}

// handleKey reacts to one key event; reports true on quit.
func (r *Renderer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case r.deps.Hotkey:
		if r.deps.Toggler != nil {
			enabled := r.deps.Toggler.Toggle()
			r.deps.Logger.Info("Killsteal toggled", "enabled", enabled)
		}
	}
	return false
}

// Stop releases the terminal.
func (r *Renderer) Stop() {
	r.screen.Fini()
}

func (r *Renderer) drawText(x, y int, style tcell.Style, text string) {
	for i, ch := range text {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
