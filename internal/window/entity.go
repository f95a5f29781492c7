package window

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/geom"
)

// MapAction is the desired mapping state carried by a RequestMap marker.
type MapAction uint8

const (
	// MapNone means no RequestMap marker is attached.
	MapNone MapAction = iota
	MapShow
	MapHide
)

func (a MapAction) String() string {
	switch a {
	case MapShow:
		return "map"
	case MapHide:
		return "unmap"
	default:
		return "none"
	}
}

// Entity is a copy of one window's components. Optional components are nil
// when absent.
type Entity struct {
	ID xproto.Window

	// Managed is set for windows created without override-redirect.
	Managed bool
	// Mapped is set only once the server confirmed the window is mapped.
	Mapped bool

	PreferredSize   geom.Region
	PreferredBorder uint32

	ActualSize   *geom.Region
	ActualBorder *uint32

	RequestMap    MapAction
	RequestSize   *geom.Region
	RequestBorder *uint32

	Class string
	Title string
}

func (e *Entity) clone() Entity {
	out := *e
	out.ActualSize = copyRegion(e.ActualSize)
	out.ActualBorder = copyUint(e.ActualBorder)
	out.RequestSize = copyRegion(e.RequestSize)
	out.RequestBorder = copyUint(e.RequestBorder)
	return out
}

func copyRegion(r *geom.Region) *geom.Region {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

func copyUint(u *uint32) *uint32 {
	if u == nil {
		return nil
	}
	v := *u
	return &v
}
