package window

import (
	"log/slog"
	"slices"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/geom"
)

// Table holds one entity per known top-level window. It is not safe for
// concurrent use; callers publish copies via Snapshot.
type Table struct {
	entities map[xproto.Window]*Entity
	// dirty holds entities that had a request marker attached since the
	// last reconcile.
	dirty  map[xproto.Window]struct{}
	logger *slog.Logger
}

// NewTable returns an empty table.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		entities: make(map[xproto.Window]*Entity),
		dirty:    make(map[xproto.Window]struct{}),
		logger:   logger,
	}
}

// Len returns the number of entities.
func (t *Table) Len() int {
	return len(t.entities)
}

// Has reports whether an entity exists for id.
func (t *Table) Has(id xproto.Window) bool {
	_, ok := t.entities[id]
	return ok
}

// Get returns a copy of the entity for id.
func (t *Table) Get(id xproto.Window) (Entity, bool) {
	e, ok := t.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.clone(), true
}

// IDs returns every window id in ascending order.
func (t *Table) IDs() []xproto.Window {
	ids := make([]xproto.Window, 0, len(t.entities))
	for id := range t.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Snapshot returns copies of every entity ordered by id.
func (t *Table) Snapshot() []Entity {
	out := make([]Entity, 0, len(t.entities))
	for _, id := range t.IDs() {
		out = append(out, t.entities[id].clone())
	}
	return out
}

// Pending returns the ids that will be reconciled next, in ascending order.
func (t *Table) Pending() []xproto.Window {
	ids := make([]xproto.Window, 0, len(t.dirty))
	for id := range t.dirty {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RequestMap attaches a RequestMap marker. It reports false when id is not
// a known window.
func (t *Table) RequestMap(id xproto.Window, action MapAction) bool {
	e, ok := t.entities[id]
	if !ok || action == MapNone {
		return false
	}
	e.RequestMap = action
	t.dirty[id] = struct{}{}
	return true
}

// RequestSize attaches a RequestSize marker.
func (t *Table) RequestSize(id xproto.Window, r geom.Region) bool {
	e, ok := t.entities[id]
	if !ok {
		return false
	}
	e.RequestSize = &r
	t.dirty[id] = struct{}{}
	return true
}

// RequestBorder attaches a RequestBorder marker.
func (t *Table) RequestBorder(id xproto.Window, width uint32) bool {
	e, ok := t.entities[id]
	if !ok {
		return false
	}
	e.RequestBorder = &width
	t.dirty[id] = struct{}{}
	return true
}

// SetLabel records the class and title shown for a window.
func (t *Table) SetLabel(id xproto.Window, class, title string) {
	if e, ok := t.entities[id]; ok {
		e.Class = class
		e.Title = title
	}
}
