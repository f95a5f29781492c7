package x11

import (
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func fullIDs() map[Atom]xproto.Atom {
	ids := make(map[Atom]xproto.Atom)
	for i, a := range AllAtoms() {
		ids[a] = xproto.Atom(100 + i)
	}
	return ids
}

func TestAtomNamesComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range AllAtoms() {
		name := a.String()
		if name == "" {
			t.Fatalf("atom %d has no name", int(a))
		}
		if seen[name] {
			t.Fatalf("duplicate atom name %q", name)
		}
		seen[name] = true
	}
	if got := Atom(-1).String(); got != "Atom(-1)" {
		t.Fatalf("got %q, want %q", got, "Atom(-1)")
	}
}

func TestNewAtomRegistry(t *testing.T) {
	r, err := NewAtomRegistry(fullIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, a := range AllAtoms() {
		id := xproto.Atom(100 + i)
		if got := r.ID(a); got != id {
			t.Errorf("ID(%s) = %d, want %d", a, got, id)
		}
		back, ok := r.Lookup(id)
		if !ok || back != a {
			t.Errorf("Lookup(%d) = %v, %v, want %v, true", id, back, ok, a)
		}
	}
	if got := r.Name(r.ID(AtomNetWmState)); got != "_NET_WM_STATE" {
		t.Errorf("Name = %q, want %q", got, "_NET_WM_STATE")
	}
	if got := r.Name(9999); got != "atom:9999" {
		t.Errorf("Name = %q, want %q", got, "atom:9999")
	}
	if _, ok := r.Lookup(9999); ok {
		t.Errorf("Lookup(9999) succeeded, want miss")
	}
}

func TestNewAtomRegistryRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[Atom]xproto.Atom)
		want   string
	}{
		{
			name:   "missing",
			mutate: func(ids map[Atom]xproto.Atom) { delete(ids, AtomWmState) },
			want:   "WM_STATE",
		},
		{
			name:   "zero id",
			mutate: func(ids map[Atom]xproto.Atom) { ids[AtomNetActiveWindow] = xproto.AtomNone },
			want:   "_NET_ACTIVE_WINDOW",
		},
		{
			name:   "duplicate id",
			mutate: func(ids map[Atom]xproto.Atom) { ids[AtomWake] = ids[AtomManager] },
			want:   "share id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := fullIDs()
			tt.mutate(ids)
			r, err := NewAtomRegistry(ids)
			if err == nil {
				t.Fatalf("expected error")
			}
			if r != nil {
				t.Fatalf("got partial registry, want nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestAtomRegistryIDPanicsOutsideVocabulary(t *testing.T) {
	r, err := NewAtomRegistry(fullIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	r.ID(atomCount)
}
