package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/geom"
)

// propertyLongs is how many 32-bit units a property read may return.
const propertyLongs = 1024

// clientEventMask is selected on every managed client window.
const clientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskFocusChange

// MapWindow asks the server to map w.
func (s *Session) MapWindow(w xproto.Window) {
	xproto.MapWindow(s.conn, w)
}

// UnmapWindow asks the server to unmap w.
func (s *Session) UnmapWindow(w xproto.Window) {
	xproto.UnmapWindow(s.conn, w)
}

// ConfigureWindow sends a configure request. values must be ordered by
// ascending mask bit, as the protocol requires.
func (s *Session) ConfigureWindow(w xproto.Window, mask uint16, values []uint32) {
	xproto.ConfigureWindow(s.conn, w, mask, values)
}

// SelectClientEvents subscribes to enter, leave, focus and property
// changes on a client window.
func (s *Session) SelectClientEvents(w xproto.Window) {
	xproto.ChangeWindowAttributes(s.conn, w, xproto.CwEventMask, []uint32{clientEventMask})
}

// SetBorderColor sets the border pixel of w.
func (s *Session) SetBorderColor(w xproto.Window, pixel uint32) {
	xproto.ChangeWindowAttributes(s.conn, w, xproto.CwBorderPixel, []uint32{pixel})
}

// Focus gives w the input focus and advertises it as the active window.
func (s *Session) Focus(w xproto.Window) {
	xproto.SetInputFocus(s.conn, xproto.InputFocusParent, w, xproto.TimeCurrentTime)
	data := make([]byte, 4)
	xgb.Put32(data, uint32(w))
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, s.root,
		s.atoms.ID(AtomNetActiveWindow), xproto.AtomWindow, 32, 1, data)
}

// ICCCM WM_STATE values.
const (
	WMStateWithdrawn uint32 = 0
	WMStateNormal    uint32 = 1
)

// SetWMState writes the ICCCM WM_STATE of w with no icon window.
func (s *Session) SetWMState(w xproto.Window, state uint32) {
	data := make([]byte, 8)
	xgb.Put32(data, state)
	xgb.Put32(data[4:], uint32(xproto.WindowNone))
	wmState := s.atoms.ID(AtomWmState)
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, w, wmState, wmState, 32, 2, data)
}

// SetFullscreen replaces the _NET_WM_STATE of w with either the fullscreen
// state or nothing.
func (s *Session) SetFullscreen(w xproto.Window, on bool) {
	var data []byte
	if on {
		data = make([]byte, 4)
		xgb.Put32(data, uint32(s.atoms.ID(AtomNetWmStateFullscreen)))
	}
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, w,
		s.atoms.ID(AtomNetWmState), xproto.AtomAtom, 32, uint32(len(data)/4), data)
}

// CloseWindow politely asks w to close through WM_DELETE_WINDOW. It returns
// false when the client does not advertise the protocol.
func (s *Session) CloseWindow(w xproto.Window) (bool, error) {
	protocols, err := s.AtomListProperty(w, AtomWmProtocols)
	if err != nil {
		return false, err
	}
	for _, p := range protocols {
		if p == AtomWmDeleteWindow {
			s.sendProtocol(w, AtomWmDeleteWindow)
			return true, nil
		}
	}
	return false, nil
}

func (s *Session) sendProtocol(w xproto.Window, protocol Atom) {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   s.atoms.ID(AtomWmProtocols),
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(s.atoms.ID(protocol)),
			uint32(xproto.TimeCurrentTime),
			0, 0, 0,
		}),
	}
	xproto.SendEvent(s.conn, false, w, xproto.EventMaskNoEvent, string(ev.Bytes()))
}

// KillClient disconnects the client owning w.
func (s *Session) KillClient(w xproto.Window) {
	xproto.KillClient(s.conn, uint32(w))
}

// CursorPosition returns the pointer position relative to the root window.
func (s *Session) CursorPosition() (geom.Point, error) {
	reply, err := xproto.QueryPointer(s.conn, s.root).Reply()
	if err != nil {
		return geom.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return geom.Point{X: int32(reply.RootX), Y: int32(reply.RootY)}, nil
}

// Geometry queries the region and border width of w.
func (s *Session) Geometry(w xproto.Window) (geom.Region, uint16, error) {
	reply, err := xproto.GetGeometry(s.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return geom.Region{}, 0, fmt.Errorf("get geometry for window %d: %w", w, err)
	}
	return geom.Region{
		X:      int32(reply.X),
		Y:      int32(reply.Y),
		Width:  uint32(reply.Width),
		Height: uint32(reply.Height),
	}, reply.BorderWidth, nil
}

// WarpPointer moves the pointer to p in root coordinates.
func (s *Session) WarpPointer(p geom.Point) {
	xproto.WarpPointer(s.conn, xproto.WindowNone, s.root, 0, 0, 0, 0, int16(p.X), int16(p.Y))
}

// WarpToWindow moves the pointer to the center of w.
func (s *Session) WarpToWindow(w xproto.Window) error {
	region, _, err := s.Geometry(w)
	if err != nil {
		return err
	}
	s.WarpPointer(region.Center())
	return nil
}

// StringProperty reads a text property of w.
func (s *Session) StringProperty(w xproto.Window, property Atom) (string, error) {
	reply, err := s.getProperty(w, property, s.stringType(property))
	if err != nil {
		return "", err
	}
	return string(reply.Value), nil
}

// AtomListProperty reads every atom of a property of w, skipping atoms
// outside the vocabulary.
func (s *Session) AtomListProperty(w xproto.Window, property Atom) ([]Atom, error) {
	reply, err := s.getProperty(w, property, xproto.AtomAtom)
	if err != nil {
		return nil, err
	}
	var out []Atom
	for v := reply.Value; len(v) >= 4; v = v[4:] {
		if a, ok := s.atoms.Lookup(xproto.Atom(xgb.Get32(v))); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// stringType is the property type text properties are read as. The EWMH
// names are UTF8_STRING, the ICCCM ones STRING.
func (s *Session) stringType(property Atom) xproto.Atom {
	if property == AtomNetWmName {
		return s.atoms.ID(AtomUTF8String)
	}
	return xproto.AtomString
}

func (s *Session) getProperty(w xproto.Window, property Atom, typ xproto.Atom) (*xproto.GetPropertyReply, error) {
	reply, err := xproto.GetProperty(s.conn, false, w, s.atoms.ID(property),
		typ, 0, propertyLongs).Reply()
	if err != nil {
		return nil, fmt.Errorf("unable to get property %s for window %d: %w", property, w, err)
	}
	return reply, nil
}

// ExistingWindow describes a root child found when the session starts.
type ExistingWindow struct {
	ID               xproto.Window
	Region           geom.Region
	BorderWidth      uint16
	OverrideRedirect bool
	Viewable         bool
}

// ExistingWindows lists the current children of the root window with their
// attributes and geometry. Windows that vanish while being queried are left
// out.
func (s *Session) ExistingWindows() ([]ExistingWindow, error) {
	tree, err := xproto.QueryTree(s.conn, s.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}

	attrCookies := make([]xproto.GetWindowAttributesCookie, len(tree.Children))
	geomCookies := make([]xproto.GetGeometryCookie, len(tree.Children))
	for i, child := range tree.Children {
		attrCookies[i] = xproto.GetWindowAttributes(s.conn, child)
		geomCookies[i] = xproto.GetGeometry(s.conn, xproto.Drawable(child))
	}

	out := make([]ExistingWindow, 0, len(tree.Children))
	for i, child := range tree.Children {
		attrs, attrErr := attrCookies[i].Reply()
		g, geomErr := geomCookies[i].Reply()
		if s.ownWindow(child) {
			continue
		}
		if attrErr != nil || geomErr != nil {
			s.logger.Debug("skipping window that vanished during adoption", "window", child)
			continue
		}
		out = append(out, ExistingWindow{
			ID: child,
			Region: geom.Region{
				X:      int32(g.X),
				Y:      int32(g.Y),
				Width:  uint32(g.Width),
				Height: uint32(g.Height),
			},
			BorderWidth:      g.BorderWidth,
			OverrideRedirect: attrs.OverrideRedirect,
			Viewable:         attrs.MapState == xproto.MapStateViewable,
		})
	}
	return out, nil
}
