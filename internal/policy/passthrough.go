// Package policy holds event handlers that decide what happens to managed
// windows. It contains no tiling or stacking logic.
package policy

import (
	"log/slog"
	"slices"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/event"
	"github.com/1broseidon/xwm/internal/geom"
	"github.com/1broseidon/xwm/internal/window"
	"github.com/1broseidon/xwm/internal/x11"
)

// Actions are the session primitives the handler uses. *x11.Session
// satisfies it.
type Actions interface {
	Root() xproto.Window
	Atoms() *x11.AtomRegistry
	SelectClientEvents(w xproto.Window)
	SetBorderColor(w xproto.Window, pixel uint32)
	Focus(w xproto.Window)
	SetFullscreen(w xproto.Window, on bool)
	SetWMState(w xproto.Window, state uint32)
	AtomListProperty(w xproto.Window, property x11.Atom) ([]x11.Atom, error)
	CursorPosition() (geom.Point, error)
	WarpToWindow(w xproto.Window) error
	Outputs() []x11.Output
	CloseWindow(w xproto.Window) (bool, error)
	KillClient(w xproto.Window)
	GrabKey(k x11.KeyCombo)
	UngrabKey(k x11.KeyCombo)
	GrabButton(button event.MouseButton, mods uint16)
	IgnoredModifiers() []uint16
}

// Options configures the passthrough handler.
type Options struct {
	BorderWidth       uint32
	FocusedColor      uint32
	NormalColor       uint32
	FocusFollowsMouse bool
	// WarpPointer moves the pointer onto windows focused by mapping or
	// _NET_ACTIVE_WINDOW.
	WarpPointer bool
	// FocusModifier enables modifier+left click focus when non-zero.
	FocusModifier uint16
	// QuitKey stops the manager when pressed. Nil disables it.
	QuitKey *x11.KeyCombo
	// CloseKey closes the focused window when pressed. Nil disables it.
	CloseKey *x11.KeyCombo
	Stop    func()
	Logger  *slog.Logger
}

// _NET_WM_STATE client message actions.
const (
	stateRemove = 0
	stateAdd    = 1
	stateToggle = 2
)

// Passthrough maps managed windows where they ask to be, draws a border and
// follows focus. It is the minimal policy that makes the manager usable.
type Passthrough struct {
	actions Actions
	opts    Options
	logger  *slog.Logger

	focused    xproto.Window
	fullscreen map[xproto.Window]geom.Region
}

// NewPassthrough builds the handler. Call Install before the loop runs.
func NewPassthrough(actions Actions, opts Options) *Passthrough {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Passthrough{
		actions:    actions,
		opts:       opts,
		logger:     logger,
		fullscreen: make(map[xproto.Window]geom.Region),
	}
}

// Install sets up the key and button grabs the handler reacts to.
func (p *Passthrough) Install() {
	if p.opts.QuitKey != nil {
		p.actions.GrabKey(*p.opts.QuitKey)
	}
	if p.opts.CloseKey != nil {
		p.actions.GrabKey(*p.opts.CloseKey)
	}
	if p.opts.FocusModifier != 0 {
		p.actions.GrabButton(event.ButtonLeft, p.opts.FocusModifier)
	}
}

// Uninstall releases the key grabs made by Install.
func (p *Passthrough) Uninstall() {
	if p.opts.QuitKey != nil {
		p.actions.UngrabKey(*p.opts.QuitKey)
	}
	if p.opts.CloseKey != nil {
		p.actions.UngrabKey(*p.opts.CloseKey)
	}
}

// Focused returns the window that last received focus.
func (p *Passthrough) Focused() xproto.Window {
	return p.focused
}

// Handle implements wm.Handler.
func (p *Passthrough) Handle(ev event.Event, windows *window.Table) {
	switch e := ev.(type) {
	case event.Create:
		if managed(windows, e.Window) {
			p.actions.SelectClientEvents(e.Window)
		}
	case event.MapRequest:
		p.mapRequest(e, windows)
	case event.Map:
		if managed(windows, e.Window) {
			p.actions.SetWMState(e.Window, x11.WMStateNormal)
			p.activate(e.Window, windows)
		}
	case event.ConfigureRequest:
		if !managed(windows, e.Window) {
			return
		}
		if _, full := p.fullscreen[e.Window]; full {
			return
		}
		windows.RequestSize(e.Window, e.Region)
	case event.Enter:
		if p.opts.FocusFollowsMouse && e.Mode == xproto.NotifyModeNormal && managed(windows, e.Window) {
			p.focus(e.Window, windows)
		}
	case event.ButtonPress:
		if e.Window == p.actions.Root() && e.Button == event.ButtonLeft && managed(windows, e.Child) {
			p.focus(e.Child, windows)
		}
	case event.KeyPress:
		p.keyPress(e, windows)
	case event.ClientMessage:
		p.clientMessage(e, windows)
	case event.Unmap:
		if managed(windows, e.Window) {
			p.actions.SetWMState(e.Window, x11.WMStateWithdrawn)
		}
		if p.focused == e.Window {
			p.focused = 0
		}
	case event.Destroy:
		if p.focused == e.Window {
			p.focused = 0
		}
		delete(p.fullscreen, e.Window)
	}
}

func (p *Passthrough) keyPress(e event.KeyPress, windows *window.Table) {
	ignore := p.actions.IgnoredModifiers()
	switch {
	case p.opts.QuitKey != nil && p.opts.QuitKey.Matches(e.Key, ignore):
		p.logger.Info("quit key pressed")
		if p.opts.Stop != nil {
			p.opts.Stop()
		}
	case p.opts.CloseKey != nil && p.opts.CloseKey.Matches(e.Key, ignore):
		if p.focused == 0 || !windows.Has(p.focused) {
			return
		}
		polite, err := p.actions.CloseWindow(p.focused)
		if err != nil {
			p.logger.Debug("failed to read window protocols", "window", p.focused, "error", err)
		}
		if !polite {
			// No WM_DELETE_WINDOW support.
			p.actions.KillClient(p.focused)
		}
		p.logger.Debug("closed window", "window", p.focused, "polite", polite)
	}
}

func (p *Passthrough) mapRequest(e event.MapRequest, windows *window.Table) {
	if !managed(windows, e.Window) {
		return
	}
	windows.RequestBorder(e.Window, p.opts.BorderWidth)
	p.actions.SetBorderColor(e.Window, p.opts.NormalColor)

	states, err := p.actions.AtomListProperty(e.Window, x11.AtomNetWmState)
	if err != nil {
		p.logger.Debug("failed to read window state", "window", e.Window, "error", err)
	}
	if slices.Contains(states, x11.AtomNetWmStateFullscreen) {
		p.setFullscreen(e.Window, true, windows)
	}
	windows.RequestMap(e.Window, window.MapShow)
}

func (p *Passthrough) clientMessage(e event.ClientMessage, windows *window.Table) {
	kind, ok := p.actions.Atoms().Lookup(e.Type)
	if !ok || !managed(windows, e.Window) {
		return
	}
	switch kind {
	case x11.AtomNetActiveWindow:
		p.activate(e.Window, windows)
	case x11.AtomNetWmState:
		full := p.actions.Atoms().ID(x11.AtomNetWmStateFullscreen)
		if xproto.Atom(e.Data[1]) != full && xproto.Atom(e.Data[2]) != full {
			return
		}
		_, on := p.fullscreen[e.Window]
		switch e.Data[0] {
		case stateRemove:
			on = false
		case stateAdd:
			on = true
		case stateToggle:
			on = !on
		default:
			return
		}
		p.setFullscreen(e.Window, on, windows)
	}
}

func (p *Passthrough) focus(w xproto.Window, windows *window.Table) {
	if w == p.focused {
		return
	}
	if p.focused != 0 && windows.Has(p.focused) {
		p.actions.SetBorderColor(p.focused, p.opts.NormalColor)
	}
	p.actions.SetBorderColor(w, p.opts.FocusedColor)
	p.actions.Focus(w)
	p.focused = w
	p.logger.Debug("focused window", "window", w)
}

// activate focuses w on behalf of something other than the pointer.
func (p *Passthrough) activate(w xproto.Window, windows *window.Table) {
	if w == p.focused {
		return
	}
	p.focus(w, windows)
	if !p.opts.WarpPointer {
		return
	}
	if err := p.actions.WarpToWindow(w); err != nil {
		p.logger.Debug("failed to warp pointer", "window", w, "error", err)
	}
}

// setFullscreen sizes w to the output it is on, or restores the region it
// had before.
func (p *Passthrough) setFullscreen(w xproto.Window, on bool, windows *window.Table) {
	ent, ok := windows.Get(w)
	if !ok {
		return
	}
	saved, wasOn := p.fullscreen[w]
	if on == wasOn {
		return
	}

	if !on {
		delete(p.fullscreen, w)
		windows.RequestSize(w, saved)
		windows.RequestBorder(w, p.opts.BorderWidth)
		p.actions.SetFullscreen(w, false)
		return
	}

	current := ent.PreferredSize
	if ent.ActualSize != nil {
		current = *ent.ActualSize
	}
	out, found := p.outputFor(current)
	if !found {
		p.logger.Warn("no output for fullscreen window", "window", w)
		return
	}
	p.fullscreen[w] = current
	windows.RequestSize(w, out.Region)
	windows.RequestBorder(w, 0)
	p.actions.SetFullscreen(w, true)
}

// outputFor picks the output under the pointer, falling back to the output
// holding the center of r.
func (p *Passthrough) outputFor(r geom.Region) (x11.Output, bool) {
	outputs := p.actions.Outputs()
	if pos, err := p.actions.CursorPosition(); err == nil {
		if out, ok := x11.OutputContaining(outputs, pos); ok {
			return out, true
		}
	}
	if out, ok := x11.OutputContaining(outputs, r.Center()); ok {
		return out, true
	}
	if len(outputs) > 0 {
		return outputs[0], true
	}
	return x11.Output{}, false
}

func managed(windows *window.Table, w xproto.Window) bool {
	e, ok := windows.Get(w)
	return ok && e.Managed
}
