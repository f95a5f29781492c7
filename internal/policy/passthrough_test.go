package policy

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/event"
	"github.com/1broseidon/xwm/internal/geom"
	"github.com/1broseidon/xwm/internal/window"
	"github.com/1broseidon/xwm/internal/x11"
)

const (
	root    xproto.Window = 1
	focused uint32        = 0xff0000
	normal  uint32        = 0x333333
)

type fakeActions struct {
	atoms   *x11.AtomRegistry
	states  map[xproto.Window][]x11.Atom
	outputs []x11.Output
	cursor  geom.Point

	selected   []xproto.Window
	borders    map[xproto.Window]uint32
	focusedWin []xproto.Window
	fullscreen map[xproto.Window]bool
	grabbedKey []x11.KeyCombo
	ungrabbed  []x11.KeyCombo
	grabbedBtn []uint16
	polite     map[xproto.Window]bool
	closed     []xproto.Window
	killed     []xproto.Window
	warped     []xproto.Window
	wmState    map[xproto.Window]uint32
}

func newFakeActions(t *testing.T) *fakeActions {
	t.Helper()
	ids := make(map[x11.Atom]xproto.Atom)
	for i, a := range x11.AllAtoms() {
		ids[a] = xproto.Atom(100 + i)
	}
	atoms, err := x11.NewAtomRegistry(ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &fakeActions{
		atoms:      atoms,
		states:     make(map[xproto.Window][]x11.Atom),
		outputs:    []x11.Output{{Name: "DP-1", Region: geom.Region{Width: 1920, Height: 1080}}, {Name: "DP-2", Region: geom.Region{X: 1920, Width: 1280, Height: 1024}}},
		borders:    make(map[xproto.Window]uint32),
		fullscreen: make(map[xproto.Window]bool),
		polite:     make(map[xproto.Window]bool),
		wmState:    make(map[xproto.Window]uint32),
	}
}

func (f *fakeActions) Root() xproto.Window                       { return root }
func (f *fakeActions) Atoms() *x11.AtomRegistry                  { return f.atoms }
func (f *fakeActions) SelectClientEvents(w xproto.Window)        { f.selected = append(f.selected, w) }
func (f *fakeActions) SetBorderColor(w xproto.Window, px uint32) { f.borders[w] = px }
func (f *fakeActions) Focus(w xproto.Window)                     { f.focusedWin = append(f.focusedWin, w) }
func (f *fakeActions) SetFullscreen(w xproto.Window, on bool)    { f.fullscreen[w] = on }
func (f *fakeActions) CursorPosition() (geom.Point, error)       { return f.cursor, nil }
func (f *fakeActions) Outputs() []x11.Output                     { return f.outputs }
func (f *fakeActions) GrabKey(k x11.KeyCombo)                    { f.grabbedKey = append(f.grabbedKey, k) }
func (f *fakeActions) UngrabKey(k x11.KeyCombo)                  { f.ungrabbed = append(f.ungrabbed, k) }
func (f *fakeActions) IgnoredModifiers() []uint16                { return []uint16{xproto.ModMaskLock} }

func (f *fakeActions) AtomListProperty(w xproto.Window, _ x11.Atom) ([]x11.Atom, error) {
	return f.states[w], nil
}

func (f *fakeActions) CloseWindow(w xproto.Window) (bool, error) {
	if !f.polite[w] {
		return false, nil
	}
	f.closed = append(f.closed, w)
	return true, nil
}

func (f *fakeActions) SetWMState(w xproto.Window, state uint32) {
	f.wmState[w] = state
}

func (f *fakeActions) WarpToWindow(w xproto.Window) error {
	f.warped = append(f.warped, w)
	return nil
}

func (f *fakeActions) KillClient(w xproto.Window) {
	f.killed = append(f.killed, w)
}

func (f *fakeActions) GrabButton(_ event.MouseButton, mods uint16) {
	f.grabbedBtn = append(f.grabbedBtn, mods)
}

func setup(t *testing.T, opts Options) (*Passthrough, *fakeActions, *window.Table) {
	t.Helper()
	actions := newFakeActions(t)
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.FocusedColor == 0 {
		opts.FocusedColor = focused
	}
	if opts.NormalColor == 0 {
		opts.NormalColor = normal
	}
	tbl := window.NewTable(opts.Logger)
	return NewPassthrough(actions, opts), actions, tbl
}

// feed applies each event to the table and then the handler, the order the
// manager uses.
func feed(p *Passthrough, tbl *window.Table, events ...event.Event) {
	for _, ev := range events {
		tbl.Apply(ev)
		p.Handle(ev, tbl)
	}
}

func TestPassthroughMapsManagedWindow(t *testing.T) {
	p, actions, tbl := setup(t, Options{BorderWidth: 2})
	feed(p, tbl,
		event.Create{Window: 7, Region: geom.Region{Width: 800, Height: 600}},
		event.MapRequest{Window: 7},
	)

	if !slices.Equal(actions.selected, []xproto.Window{7}) {
		t.Fatalf("got selected %v, want [7]", actions.selected)
	}
	e, _ := tbl.Get(7)
	if e.RequestMap != window.MapShow {
		t.Fatalf("got RequestMap %v, want map", e.RequestMap)
	}
	if e.RequestBorder == nil || *e.RequestBorder != 2 {
		t.Fatalf("got RequestBorder %v, want 2", e.RequestBorder)
	}
	if actions.borders[7] != normal {
		t.Fatalf("got border color %#x, want %#x", actions.borders[7], normal)
	}
}

func TestPassthroughLeavesUnmanagedWindows(t *testing.T) {
	p, actions, tbl := setup(t, Options{BorderWidth: 2})
	feed(p, tbl,
		event.Create{Window: 9, OverrideRedirect: true},
		event.MapRequest{Window: 9},
		event.ConfigureRequest{Window: 9, Region: geom.Region{Width: 5, Height: 5}},
	)

	if len(actions.selected) != 0 {
		t.Fatalf("selected events on unmanaged window")
	}
	e, _ := tbl.Get(9)
	// The table mirrors the client's own border; the policy must not apply
	// its configured width.
	if e.RequestBorder == nil || *e.RequestBorder != 0 {
		t.Fatalf("got RequestBorder %v, want the requested 0", e.RequestBorder)
	}
	if _, ok := actions.borders[9]; ok {
		t.Fatalf("border color set on unmanaged window")
	}
}

func TestPassthroughHonorsConfigureRequest(t *testing.T) {
	p, _, tbl := setup(t, Options{})
	want := geom.Region{X: 10, Y: 10, Width: 300, Height: 300}
	feed(p, tbl,
		event.Create{Window: 7},
		event.ConfigureRequest{Window: 7, Region: want},
	)

	e, _ := tbl.Get(7)
	if e.RequestSize == nil || *e.RequestSize != want {
		t.Fatalf("got RequestSize %v, want %v", e.RequestSize, want)
	}
}

func TestPassthroughFocus(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		event   event.Event
		wantWin xproto.Window
	}{
		{"enter follows mouse", Options{FocusFollowsMouse: true}, event.Enter{Window: 8, Mode: xproto.NotifyModeNormal}, 8},
		{"enter without follow mouse", Options{}, event.Enter{Window: 8}, 7},
		{"enter during grab", Options{FocusFollowsMouse: true}, event.Enter{Window: 8, Mode: xproto.NotifyModeGrab}, 7},
		{"modifier click", Options{FocusModifier: xproto.ModMask1}, event.ButtonPress{Window: root, Child: 8, Button: event.ButtonLeft}, 8},
		{"right click", Options{FocusModifier: xproto.ModMask1}, event.ButtonPress{Window: root, Child: 8, Button: event.ButtonRight}, 7},
		{"net active window", Options{}, event.ClientMessage{Window: 8, Type: 100 + xproto.Atom(x11.AtomNetActiveWindow)}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, actions, tbl := setup(t, tt.opts)
			feed(p, tbl,
				event.Create{Window: 7},
				event.Create{Window: 8},
				event.Map{Window: 7},
				tt.event,
			)
			if got := p.Focused(); got != tt.wantWin {
				t.Fatalf("focused %d, want %d", got, tt.wantWin)
			}
			if actions.borders[tt.wantWin] != focused {
				t.Fatalf("focused border color %#x, want %#x", actions.borders[tt.wantWin], focused)
			}
			if tt.wantWin == 8 && actions.borders[7] != normal {
				t.Fatalf("previous window border %#x, want %#x", actions.borders[7], normal)
			}
		})
	}
}

func TestPassthroughForgetsDestroyedFocus(t *testing.T) {
	p, _, tbl := setup(t, Options{})
	feed(p, tbl, event.Create{Window: 7}, event.Map{Window: 7}, event.Destroy{Window: 7})
	if p.Focused() != 0 {
		t.Fatalf("focused %d after destroy, want 0", p.Focused())
	}
}

func TestPassthroughQuitKey(t *testing.T) {
	stopped := 0
	combo := &x11.KeyCombo{Mods: xproto.ModMask4, Codes: []xproto.Keycode{24}}
	p, actions, tbl := setup(t, Options{QuitKey: combo, Stop: func() { stopped++ }, FocusModifier: xproto.ModMask1})

	p.Install()
	if len(actions.grabbedKey) != 1 || len(actions.grabbedBtn) != 1 {
		t.Fatalf("got %d key and %d button grabs, want 1 and 1", len(actions.grabbedKey), len(actions.grabbedBtn))
	}

	feed(p, tbl,
		event.KeyPress{Window: root, Key: event.KeyCode{Mask: xproto.ModMask4, Code: 25}},
		event.KeyPress{Window: root, Key: event.KeyCode{Mask: xproto.ModMask4 | xproto.ModMaskLock, Code: 24}},
	)
	if stopped != 1 {
		t.Fatalf("stop called %d times, want 1", stopped)
	}
}

func TestPassthroughUninstallReleasesKeys(t *testing.T) {
	quit := &x11.KeyCombo{Mods: xproto.ModMask4, Codes: []xproto.Keycode{24}}
	closeKey := &x11.KeyCombo{Mods: xproto.ModMask4 | xproto.ModMaskShift, Codes: []xproto.Keycode{54}}
	p, actions, _ := setup(t, Options{QuitKey: quit, CloseKey: closeKey})

	p.Install()
	p.Uninstall()
	if len(actions.ungrabbed) != 2 {
		t.Fatalf("got %d ungrabs, want 2", len(actions.ungrabbed))
	}
	if actions.ungrabbed[0].Mods != quit.Mods || actions.ungrabbed[1].Mods != closeKey.Mods {
		t.Fatalf("ungrabbed %v, want quit then close", actions.ungrabbed)
	}
}

func TestPassthroughCloseKey(t *testing.T) {
	combo := &x11.KeyCombo{Mods: xproto.ModMask4 | xproto.ModMaskShift, Codes: []xproto.Keycode{54}}
	p, actions, tbl := setup(t, Options{CloseKey: combo})
	press := event.KeyPress{Window: root, Key: event.KeyCode{Mask: xproto.ModMask4 | xproto.ModMaskShift, Code: 54}}
	actions.polite[7] = true

	// Nothing focused yet.
	feed(p, tbl, press)
	if len(actions.closed)+len(actions.killed) != 0 {
		t.Fatalf("closed %v killed %v with no focus", actions.closed, actions.killed)
	}

	feed(p, tbl, event.Create{Window: 7}, event.Map{Window: 7}, press)
	if len(actions.closed) != 1 || actions.closed[0] != 7 || len(actions.killed) != 0 {
		t.Fatalf("closed %v killed %v, want polite close of 7", actions.closed, actions.killed)
	}

	feed(p, tbl, event.Create{Window: 8}, event.Map{Window: 8}, press)
	if len(actions.killed) != 1 || actions.killed[0] != 8 {
		t.Fatalf("killed %v, want 8", actions.killed)
	}
}

func TestPassthroughFullscreenClientMessage(t *testing.T) {
	p, actions, tbl := setup(t, Options{BorderWidth: 2})
	original := geom.Region{X: 100, Y: 100, Width: 400, Height: 300}
	actions.cursor = geom.Point{X: 2000, Y: 10}

	stateMsg := func(action uint32) event.ClientMessage {
		return event.ClientMessage{
			Window: 7,
			Type:   actions.atoms.ID(x11.AtomNetWmState),
			Format: 32,
			Data:   [5]uint32{action, uint32(actions.atoms.ID(x11.AtomNetWmStateFullscreen)), 0, 1, 0},
		}
	}

	feed(p, tbl,
		event.Create{Window: 7, Region: original},
		event.ConfigureNotify{Window: 7, Region: original, Border: 2},
		stateMsg(stateToggle),
	)
	e, _ := tbl.Get(7)
	if e.RequestSize == nil || *e.RequestSize != actions.outputs[1].Region {
		t.Fatalf("got RequestSize %v, want %v", e.RequestSize, actions.outputs[1].Region)
	}
	if e.RequestBorder == nil || *e.RequestBorder != 0 {
		t.Fatalf("got RequestBorder %v, want 0", e.RequestBorder)
	}
	if !actions.fullscreen[7] {
		t.Fatalf("fullscreen state not set")
	}

	// Configure requests are ignored while fullscreen.
	tbl.Reconcile(nopRequester{})
	feed(p, tbl, event.ConfigureRequest{Window: 7, Region: geom.Region{Width: 1, Height: 1}})
	if e, _ := tbl.Get(7); e.RequestSize != nil {
		t.Fatalf("configure request honored while fullscreen")
	}

	feed(p, tbl, stateMsg(stateRemove))
	e, _ = tbl.Get(7)
	if e.RequestSize == nil || *e.RequestSize != original {
		t.Fatalf("got RequestSize %v, want restored %v", e.RequestSize, original)
	}
	if actions.fullscreen[7] {
		t.Fatalf("fullscreen state not cleared")
	}
}

func TestPassthroughFullscreenBeforeMap(t *testing.T) {
	p, actions, tbl := setup(t, Options{BorderWidth: 2})
	actions.states[7] = []x11.Atom{x11.AtomNetWmStateFullscreen}

	feed(p, tbl, event.Create{Window: 7, Region: geom.Region{Width: 10, Height: 10}}, event.MapRequest{Window: 7})
	e, _ := tbl.Get(7)
	if e.RequestSize == nil || *e.RequestSize != actions.outputs[0].Region {
		t.Fatalf("got RequestSize %v, want %v", e.RequestSize, actions.outputs[0].Region)
	}
	if e.RequestMap != window.MapShow {
		t.Fatalf("window not mapped")
	}
}

type nopRequester struct{}

func (nopRequester) MapWindow(xproto.Window)                         {}
func (nopRequester) UnmapWindow(xproto.Window)                       {}
func (nopRequester) ConfigureWindow(xproto.Window, uint16, []uint32) {}

func TestPassthroughWarpPointer(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		p, actions, tbl := setup(t, Options{WarpPointer: enabled, FocusFollowsMouse: true})
		feed(p, tbl,
			event.Create{Window: 7, Region: geom.Region{Width: 100, Height: 100}},
			event.Create{Window: 8, Region: geom.Region{Width: 100, Height: 100}},
			event.MapRequest{Window: 7},
			event.Map{Window: 7},
			event.Map{Window: 8},
			// Pointer focus never warps.
			event.Enter{Window: 7, Mode: xproto.NotifyModeNormal},
		)

		var want []xproto.Window
		if enabled {
			want = []xproto.Window{7, 8}
		}
		if !slices.Equal(actions.warped, want) {
			t.Fatalf("warp=%v: warped %v, want %v", enabled, actions.warped, want)
		}
		if p.Focused() != 7 {
			t.Fatalf("warp=%v: focused %d, want 7", enabled, p.Focused())
		}
	}
}

func TestPassthroughWMState(t *testing.T) {
	p, actions, tbl := setup(t, Options{})
	feed(p, tbl,
		event.Create{Window: 7, Region: geom.Region{Width: 100, Height: 100}},
		event.Create{Window: 9, OverrideRedirect: true},
		event.Map{Window: 7},
		event.Map{Window: 9},
	)
	if got, ok := actions.wmState[7]; !ok || got != x11.WMStateNormal {
		t.Fatalf("managed window state = %d (set=%v), want normal", got, ok)
	}
	if _, ok := actions.wmState[9]; ok {
		t.Fatal("override-redirect window should not get WM_STATE")
	}

	feed(p, tbl, event.Unmap{Window: 7})
	if got := actions.wmState[7]; got != x11.WMStateWithdrawn {
		t.Fatalf("state after unmap = %d, want withdrawn", got)
	}
}
