package x11

import (
	"testing"

	"github.com/1broseidon/xwm/internal/geom"
)

func TestOutputContaining(t *testing.T) {
	outputs := []Output{
		{Name: "DP-1", Region: geom.Region{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Name: "HDMI-1", Region: geom.Region{X: 1920, Y: 0, Width: 1280, Height: 1024}},
	}

	tests := []struct {
		name   string
		p      geom.Point
		want   string
		wantOK bool
	}{
		{"first", geom.Point{X: 10, Y: 10}, "DP-1", true},
		{"right edge belongs to next", geom.Point{X: 1920, Y: 0}, "HDMI-1", true},
		{"below second", geom.Point{X: 2000, Y: 1050}, "", false},
		{"negative", geom.Point{X: -1, Y: 5}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OutputContaining(outputs, tt.p)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got.Name != tt.want {
				t.Fatalf("got %q, want %q", got.Name, tt.want)
			}
		})
	}
}
