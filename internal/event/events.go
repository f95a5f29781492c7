package event

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/geom"
)

// Event is one decoded wire event.
type Event interface {
	Kind() Kind
}

// Windowed is implemented by events that target a single window.
type Windowed interface {
	Event
	Target() xproto.Window
}

// KeyCode is a physical key together with the modifier state at the time
// it was pressed.
type KeyCode struct {
	Mask uint16
	Code xproto.Keycode
}

// MouseButton is a core pointer button number.
type MouseButton byte

const (
	ButtonLeft       MouseButton = 1
	ButtonMiddle     MouseButton = 2
	ButtonRight      MouseButton = 3
	ButtonScrollUp   MouseButton = 4
	ButtonScrollDown MouseButton = 5
)

// KeyPress is delivered for grabbed keys.
type KeyPress struct {
	Window xproto.Window
	Child  xproto.Window
	Key    KeyCode
	Root   geom.Point
}

type KeyRelease struct {
	Window xproto.Window
	Child  xproto.Window
	Key    KeyCode
	Root   geom.Point
}

// ButtonPress carries the child window under the pointer; for grabs on the
// root window, Window is the root and Child is the client.
type ButtonPress struct {
	Window xproto.Window
	Child  xproto.Window
	Button MouseButton
	Mask   uint16
	Root   geom.Point
}

type ButtonRelease struct {
	Window xproto.Window
	Child  xproto.Window
	Button MouseButton
	Mask   uint16
	Root   geom.Point
}

type Motion struct {
	Window xproto.Window
	Mask   uint16
	Root   geom.Point
}

// Enter is sent when the pointer crosses into a window.
type Enter struct {
	Window xproto.Window
	Mode   byte
	Detail byte
	Root   geom.Point
}

type Leave struct {
	Window xproto.Window
	Mode   byte
	Detail byte
	Root   geom.Point
}

type FocusIn struct {
	Window xproto.Window
	Mode   byte
	Detail byte
}

type FocusOut struct {
	Window xproto.Window
	Mode   byte
	Detail byte
}

// Create announces a new child of the root window.
type Create struct {
	Window           xproto.Window
	Parent           xproto.Window
	Region           geom.Region
	Border           uint32
	OverrideRedirect bool
}

type Destroy struct {
	Window xproto.Window
}

type Unmap struct {
	Window        xproto.Window
	FromConfigure bool
}

// Map confirms that the server mapped a window.
type Map struct {
	Window           xproto.Window
	OverrideRedirect bool
}

// MapRequest is intercepted by substructure redirect; nothing is mapped
// until someone sends a map request on the client's behalf.
type MapRequest struct {
	Window xproto.Window
	Parent xproto.Window
}

// ConfigureNotify reports geometry the server has applied.
type ConfigureNotify struct {
	Window xproto.Window
	Region geom.Region
	Border uint32
}

// ConfigureRequest is a client's geometry request. Fields outside Mask
// hold the window's current values.
type ConfigureRequest struct {
	Window xproto.Window
	Region geom.Region
	Border uint32
	Mask   uint16
}

type PropertyChange struct {
	Window  xproto.Window
	Atom    xproto.Atom
	Deleted bool
}

// ClientMessage carries 32-bit formatted data. Other formats are
// delivered with Data zeroed.
type ClientMessage struct {
	Window xproto.Window
	Type   xproto.Atom
	Format byte
	Data   [5]uint32
}

// OutputReason says which part of the output configuration changed.
type OutputReason uint8

const (
	OutputScreen OutputReason = iota
	OutputCrtc
	OutputConnector
	OutputProperty
	OutputProvider
	OutputResources
	OutputOther
)

func (r OutputReason) String() string {
	switch r {
	case OutputScreen:
		return "screen"
	case OutputCrtc:
		return "crtc"
	case OutputConnector:
		return "output"
	case OutputProperty:
		return "property"
	case OutputProvider:
		return "provider"
	case OutputResources:
		return "resources"
	default:
		return "other"
	}
}

// OutputChange tells that attached displays changed and outputs should be
// rediscovered.
type OutputChange struct {
	Reason OutputReason
}

func (KeyPress) Kind() Kind         { return KindKeyPress }
func (KeyRelease) Kind() Kind       { return KindKeyRelease }
func (ButtonPress) Kind() Kind      { return KindButtonPress }
func (ButtonRelease) Kind() Kind    { return KindButtonRelease }
func (Motion) Kind() Kind           { return KindMotion }
func (Enter) Kind() Kind            { return KindEnter }
func (Leave) Kind() Kind            { return KindLeave }
func (FocusIn) Kind() Kind          { return KindFocusIn }
func (FocusOut) Kind() Kind         { return KindFocusOut }
func (Create) Kind() Kind           { return KindCreate }
func (Destroy) Kind() Kind          { return KindDestroy }
func (Unmap) Kind() Kind            { return KindUnmap }
func (Map) Kind() Kind              { return KindMap }
func (MapRequest) Kind() Kind       { return KindMapRequest }
func (ConfigureNotify) Kind() Kind  { return KindConfigureNotify }
func (ConfigureRequest) Kind() Kind { return KindConfigureRequest }
func (PropertyChange) Kind() Kind   { return KindPropertyChange }
func (ClientMessage) Kind() Kind    { return KindClientMessage }
func (OutputChange) Kind() Kind     { return KindOutputChange }

func (e Enter) Target() xproto.Window            { return e.Window }
func (e Leave) Target() xproto.Window            { return e.Window }
func (e FocusIn) Target() xproto.Window          { return e.Window }
func (e FocusOut) Target() xproto.Window         { return e.Window }
func (e Create) Target() xproto.Window           { return e.Window }
func (e Destroy) Target() xproto.Window          { return e.Window }
func (e Unmap) Target() xproto.Window            { return e.Window }
func (e Map) Target() xproto.Window              { return e.Window }
func (e MapRequest) Target() xproto.Window       { return e.Window }
func (e ConfigureNotify) Target() xproto.Window  { return e.Window }
func (e ConfigureRequest) Target() xproto.Window { return e.Window }
func (e PropertyChange) Target() xproto.Window   { return e.Window }
func (e ClientMessage) Target() xproto.Window    { return e.Window }
