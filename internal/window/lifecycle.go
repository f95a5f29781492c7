package window

import (
	"github.com/1broseidon/xwm/internal/event"
)

// Apply updates the table for one decoded event. Events for windows the
// table does not know are ignored.
func (t *Table) Apply(ev event.Event) {
	switch e := ev.(type) {
	case event.Create:
		t.spawn(e)
	case event.Destroy:
		t.despawn(e)
	case event.MapRequest:
		t.mapRequest(e)
	case event.Map:
		t.mapNotify(e)
	case event.Unmap:
		t.unmapNotify(e)
	case event.ConfigureRequest:
		t.configureRequest(e)
	case event.ConfigureNotify:
		t.configureNotify(e)
	}
}

func (t *Table) spawn(e event.Create) {
	if _, exists := t.entities[e.Window]; exists {
		t.logger.Warn("window created twice, replacing entity", "window", e.Window)
		delete(t.dirty, e.Window)
	}
	t.entities[e.Window] = &Entity{
		ID:              e.Window,
		Managed:         !e.OverrideRedirect,
		PreferredSize:   e.Region,
		PreferredBorder: e.Border,
	}
	t.logger.Debug("window spawned",
		"window", e.Window,
		"managed", !e.OverrideRedirect,
		"region", e.Region)
}

func (t *Table) despawn(e event.Destroy) {
	if _, ok := t.entities[e.Window]; !ok {
		return
	}
	delete(t.entities, e.Window)
	delete(t.dirty, e.Window)
	t.logger.Debug("window despawned", "window", e.Window)
}

// mapRequest maps unmanaged windows unconditionally. Managed windows are
// left for policy handlers that see the same event.
func (t *Table) mapRequest(e event.MapRequest) {
	ent, ok := t.entities[e.Window]
	if !ok || ent.Mapped || ent.Managed {
		return
	}
	ent.RequestMap = MapShow
	t.dirty[e.Window] = struct{}{}
}

func (t *Table) mapNotify(e event.Map) {
	ent, ok := t.entities[e.Window]
	if !ok {
		return
	}
	ent.RequestMap = MapNone
	ent.Mapped = true
}

func (t *Table) unmapNotify(e event.Unmap) {
	ent, ok := t.entities[e.Window]
	if !ok {
		return
	}
	ent.RequestMap = MapNone
	ent.Mapped = false
}

// configureRequest always records the client's preference. Unmanaged
// windows also get the request mirrored so it is honored verbatim.
func (t *Table) configureRequest(e event.ConfigureRequest) {
	ent, ok := t.entities[e.Window]
	if !ok {
		return
	}
	ent.PreferredSize = e.Region
	ent.PreferredBorder = e.Border
	if ent.Managed {
		return
	}
	size, border := e.Region, e.Border
	ent.RequestSize = &size
	ent.RequestBorder = &border
	t.dirty[e.Window] = struct{}{}
}

func (t *Table) configureNotify(e event.ConfigureNotify) {
	ent, ok := t.entities[e.Window]
	if !ok {
		return
	}
	size, border := e.Region, e.Border
	ent.ActualSize = &size
	ent.ActualBorder = &border
}
