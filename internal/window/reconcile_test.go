package window

import (
	"slices"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xwm/internal/event"
	"github.com/1broseidon/xwm/internal/geom"
)

type configureCall struct {
	window xproto.Window
	mask   uint16
	values []uint32
}

type fakeRequester struct {
	mapped     []xproto.Window
	unmapped   []xproto.Window
	configures []configureCall
}

func (f *fakeRequester) MapWindow(w xproto.Window)   { f.mapped = append(f.mapped, w) }
func (f *fakeRequester) UnmapWindow(w xproto.Window) { f.unmapped = append(f.unmapped, w) }
func (f *fakeRequester) ConfigureWindow(w xproto.Window, mask uint16, values []uint32) {
	f.configures = append(f.configures, configureCall{window: w, mask: mask, values: values})
}

func TestReconcileMapTransitions(t *testing.T) {
	tests := []struct {
		name      string
		mapped    bool
		action    MapAction
		wantMap   int
		wantUnmap int
	}{
		{"map unmapped", false, MapShow, 1, 0},
		{"map mapped is noop", true, MapShow, 0, 0},
		{"unmap mapped", true, MapHide, 0, 1},
		{"unmap unmapped is noop", false, MapHide, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTestTable()
			req := &fakeRequester{}
			tbl.Apply(event.Create{Window: 1})
			if tt.mapped {
				tbl.Apply(event.Map{Window: 1})
			}
			tbl.RequestMap(1, tt.action)

			tbl.Reconcile(req)
			if len(req.mapped) != tt.wantMap || len(req.unmapped) != tt.wantUnmap {
				t.Fatalf("got maps=%v unmaps=%v, want %d/%d", req.mapped, req.unmapped, tt.wantMap, tt.wantUnmap)
			}
			e := mustGet(t, tbl, 1)
			if e.RequestMap != MapNone {
				t.Fatalf("RequestMap not consumed")
			}
			if e.Mapped != tt.mapped {
				t.Fatalf("reconcile changed Mapped")
			}
		})
	}
}

func TestReconcileOnlyNewlyAttached(t *testing.T) {
	tbl := newTestTable()
	req := &fakeRequester{}
	tbl.Apply(event.Create{Window: 9, OverrideRedirect: true})
	tbl.Apply(event.MapRequest{Window: 9})

	tbl.Reconcile(req)
	tbl.Reconcile(req)
	tbl.Reconcile(req)
	if !slices.Equal(req.mapped, []xproto.Window{9}) {
		t.Fatalf("got maps %v, want exactly one", req.mapped)
	}
	if len(tbl.Pending()) != 0 {
		t.Fatalf("pending not cleared")
	}
}

func TestReconcileConfigureDiff(t *testing.T) {
	actual := geom.Region{X: 10, Y: 20, Width: 300, Height: 200}

	tests := []struct {
		name       string
		actual     *geom.Region
		border     *uint32
		size       *geom.Region
		reqBorder  *uint32
		wantMask   uint16
		wantValues []uint32
	}{
		{
			name:   "equal size sends nothing",
			actual: &actual,
			size:   &actual,
		},
		{
			name:       "only width differs",
			actual:     &actual,
			size:       &geom.Region{X: 10, Y: 20, Width: 400, Height: 200},
			wantMask:   xproto.ConfigWindowWidth,
			wantValues: []uint32{400},
		},
		{
			name:       "position and border",
			actual:     &actual,
			border:     ptr(uint32(1)),
			size:       &geom.Region{X: -5, Y: 30, Width: 300, Height: 200},
			reqBorder:  ptr(uint32(4)),
			wantMask:   xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowBorderWidth,
			wantValues: []uint32{0xfffffffb, 30, 4},
		},
		{
			name:      "equal border sends nothing",
			border:    ptr(uint32(2)),
			reqBorder: ptr(uint32(2)),
		},
		{
			name:       "no confirmed geometry sends everything",
			size:       &geom.Region{X: 1, Y: 2, Width: 3, Height: 4},
			reqBorder:  ptr(uint32(5)),
			wantMask:   xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth,
			wantValues: []uint32{1, 2, 3, 4, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTestTable()
			req := &fakeRequester{}
			tbl.Apply(event.Create{Window: 1})
			if tt.actual != nil || tt.border != nil {
				notify := event.ConfigureNotify{Window: 1}
				if tt.actual != nil {
					notify.Region = *tt.actual
				}
				if tt.border != nil {
					notify.Border = *tt.border
				}
				tbl.Apply(notify)
			}
			if tt.size != nil {
				tbl.RequestSize(1, *tt.size)
			}
			if tt.reqBorder != nil {
				tbl.RequestBorder(1, *tt.reqBorder)
			}

			stats := tbl.Reconcile(req)
			if tt.wantMask == 0 {
				if len(req.configures) != 0 {
					t.Fatalf("got configures %+v, want none", req.configures)
				}
				if stats.Configures != 0 {
					t.Fatalf("stats.Configures = %d, want 0", stats.Configures)
				}
			} else {
				if len(req.configures) != 1 {
					t.Fatalf("got %d configures, want 1", len(req.configures))
				}
				got := req.configures[0]
				if got.mask != tt.wantMask {
					t.Fatalf("mask = %#x, want %#x", got.mask, tt.wantMask)
				}
				if !slices.Equal(got.values, tt.wantValues) {
					t.Fatalf("values = %v, want %v", got.values, tt.wantValues)
				}
			}

			e := mustGet(t, tbl, 1)
			if e.RequestSize != nil || e.RequestBorder != nil {
				t.Fatalf("size markers not consumed")
			}
		})
	}
}

func TestReconcileUnmanagedConfigureRequest(t *testing.T) {
	tbl := newTestTable()
	req := &fakeRequester{}
	tbl.Apply(event.Create{Window: 9, OverrideRedirect: true, Region: geom.Region{Width: 10, Height: 10}})
	tbl.Apply(event.ConfigureNotify{Window: 9, Region: geom.Region{Width: 10, Height: 10}})
	tbl.Apply(event.ConfigureRequest{Window: 9, Region: geom.Region{Width: 10, Height: 40}})

	tbl.Reconcile(req)
	if len(req.configures) != 1 {
		t.Fatalf("got %d configures, want 1", len(req.configures))
	}
	if got := req.configures[0]; got.mask != xproto.ConfigWindowHeight || !slices.Equal(got.values, []uint32{40}) {
		t.Fatalf("got %+v, want height 40 only", got)
	}
}

func TestReconcileManagedConfigureRequestSendsNothing(t *testing.T) {
	tbl := newTestTable()
	req := &fakeRequester{}
	tbl.Apply(event.Create{Window: 7})
	tbl.Apply(event.ConfigureRequest{Window: 7, Region: geom.Region{Width: 10, Height: 40}})

	tbl.Reconcile(req)
	if len(req.configures) != 0 {
		t.Fatalf("got configures %+v for managed window", req.configures)
	}
	if got := mustGet(t, tbl, 7).PreferredSize; got.Height != 40 {
		t.Fatalf("PreferredSize not updated: %v", got)
	}
}

func TestReconcileSkipsDestroyed(t *testing.T) {
	tbl := newTestTable()
	req := &fakeRequester{}
	tbl.Apply(event.Create{Window: 9, OverrideRedirect: true})
	tbl.Apply(event.MapRequest{Window: 9})
	tbl.Apply(event.Destroy{Window: 9})

	stats := tbl.Reconcile(req)
	if len(req.mapped) != 0 || stats.Examined != 0 {
		t.Fatalf("reconciled destroyed window: %+v", stats)
	}
}

func ptr[T any](v T) *T {
	return &v
}
