package window

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Requester sends the protocol requests reconciliation produces. Requests
// are fire-and-forget; the caller flushes once per iteration.
type Requester interface {
	MapWindow(w xproto.Window)
	UnmapWindow(w xproto.Window)
	ConfigureWindow(w xproto.Window, mask uint16, values []uint32)
}

// ReconcileStats counts the requests one pass emitted.
type ReconcileStats struct {
	Examined   int
	Maps       int
	Unmaps     int
	Configures int
}

// Reconcile turns the request markers attached since the previous pass into
// protocol requests. Only entities with newly attached markers are
// examined, and every marker they carry is consumed.
func (t *Table) Reconcile(req Requester) ReconcileStats {
	var stats ReconcileStats
	for id := range t.dirty {
		ent, ok := t.entities[id]
		if !ok {
			continue
		}
		stats.Examined++

		switch {
		case ent.RequestMap == MapShow && !ent.Mapped:
			req.MapWindow(id)
			stats.Maps++
		case ent.RequestMap == MapHide && ent.Mapped:
			req.UnmapWindow(id)
			stats.Unmaps++
		}
		ent.RequestMap = MapNone

		if mask, values := configureDiff(ent); mask != 0 {
			req.ConfigureWindow(id, mask, values)
			stats.Configures++
		}
		ent.RequestSize = nil
		ent.RequestBorder = nil
	}
	clear(t.dirty)

	if stats.Examined > 0 {
		t.logger.Debug("reconciled windows",
			"examined", stats.Examined,
			"maps", stats.Maps,
			"unmaps", stats.Unmaps,
			"configures", stats.Configures)
	}
	return stats
}

// configureDiff returns the configure-window mask and values for the fields
// the entity's requests change. Values are in mask bit order. With no
// confirmed geometry yet, every requested field is sent.
func configureDiff(ent *Entity) (uint16, []uint32) {
	var mask uint16
	var values []uint32

	if want := ent.RequestSize; want != nil {
		have := ent.ActualSize
		if have == nil || want.X != have.X {
			mask |= xproto.ConfigWindowX
			values = append(values, uint32(want.X))
		}
		if have == nil || want.Y != have.Y {
			mask |= xproto.ConfigWindowY
			values = append(values, uint32(want.Y))
		}
		if have == nil || want.Width != have.Width {
			mask |= xproto.ConfigWindowWidth
			values = append(values, want.Width)
		}
		if have == nil || want.Height != have.Height {
			mask |= xproto.ConfigWindowHeight
			values = append(values, want.Height)
		}
	}
	if want := ent.RequestBorder; want != nil {
		if ent.ActualBorder == nil || *want != *ent.ActualBorder {
			mask |= xproto.ConfigWindowBorderWidth
			values = append(values, *want)
		}
	}
	return mask, values
}
