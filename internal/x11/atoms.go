package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Atom names one entry of the fixed property vocabulary interned at startup.
type Atom int

const (
	AtomManager Atom = iota
	AtomUTF8String
	AtomWmClass
	AtomWmProtocols
	AtomWmDeleteWindow
	AtomWmState
	AtomWmTakeFocus
	AtomWmName
	AtomNetActiveWindow
	AtomNetSupported
	AtomNetSupportingWmCheck
	AtomNetWmName
	AtomNetWmState
	AtomNetWmStateFullscreen
	// AtomWake is private to xwm. A client message of this type sent to the
	// check window unblocks the event wait.
	AtomWake

	atomCount
)

var atomNames = [atomCount]string{
	AtomManager:              "MANAGER",
	AtomUTF8String:           "UTF8_STRING",
	AtomWmClass:              "WM_CLASS",
	AtomWmProtocols:          "WM_PROTOCOLS",
	AtomWmDeleteWindow:       "WM_DELETE_WINDOW",
	AtomWmState:              "WM_STATE",
	AtomWmTakeFocus:          "WM_TAKE_FOCUS",
	AtomWmName:               "WM_NAME",
	AtomNetActiveWindow:      "_NET_ACTIVE_WINDOW",
	AtomNetSupported:         "_NET_SUPPORTED",
	AtomNetSupportingWmCheck: "_NET_SUPPORTING_WM_CHECK",
	AtomNetWmName:            "_NET_WM_NAME",
	AtomNetWmState:           "_NET_WM_STATE",
	AtomNetWmStateFullscreen: "_NET_WM_STATE_FULLSCREEN",
	AtomWake:                 "_XWM_WAKE",
}

// String returns the X name of the atom.
func (a Atom) String() string {
	if a < 0 || a >= atomCount {
		return fmt.Sprintf("Atom(%d)", int(a))
	}
	return atomNames[a]
}

// AllAtoms returns every atom of the vocabulary in declaration order.
func AllAtoms() []Atom {
	out := make([]Atom, 0, atomCount)
	for a := Atom(0); a < atomCount; a++ {
		out = append(out, a)
	}
	return out
}

// AtomRegistry maps the vocabulary to server-assigned atom ids in both
// directions. It is immutable once built.
type AtomRegistry struct {
	ids  [atomCount]xproto.Atom
	byID map[xproto.Atom]Atom
}

// NewAtomRegistry builds a registry from interned ids. Every atom of the
// vocabulary must be present with a distinct non-zero id; otherwise no
// registry is returned.
func NewAtomRegistry(ids map[Atom]xproto.Atom) (*AtomRegistry, error) {
	r := &AtomRegistry{byID: make(map[xproto.Atom]Atom, atomCount)}
	for a := Atom(0); a < atomCount; a++ {
		id, ok := ids[a]
		if !ok || id == xproto.AtomNone {
			return nil, fmt.Errorf("atom %s was not interned", a)
		}
		if prev, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("atoms %s and %s share id %d", prev, a, id)
		}
		r.ids[a] = id
		r.byID[id] = a
	}
	return r, nil
}

// ID returns the server id of a. A registry always holds every atom, so a
// miss means the process state is corrupt and ID panics.
func (r *AtomRegistry) ID(a Atom) xproto.Atom {
	if a < 0 || a >= atomCount || r.ids[a] == xproto.AtomNone {
		panic(fmt.Sprintf("x11: atom %s missing from registry", a))
	}
	return r.ids[a]
}

// Lookup maps a server id back to the vocabulary.
func (r *AtomRegistry) Lookup(id xproto.Atom) (Atom, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Name returns the vocabulary name for id, or a numeric placeholder for ids
// outside the vocabulary.
func (r *AtomRegistry) Name(id xproto.Atom) string {
	if a, ok := r.byID[id]; ok {
		return a.String()
	}
	return fmt.Sprintf("atom:%d", id)
}
