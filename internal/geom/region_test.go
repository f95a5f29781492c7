package geom

import "testing"

func TestRegion_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want bool
	}{
		{"zero", Region{}, true},
		{"zero width", Region{Width: 0, Height: 10}, true},
		{"zero height", Region{Width: 10, Height: 0}, true},
		{"non-empty", Region{Width: 1, Height: 1}, false},
		{"offset non-empty", Region{X: -5, Y: -5, Width: 800, Height: 600}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRegion_Center(t *testing.T) {
	r := Region{X: 100, Y: 50, Width: 800, Height: 601}
	if got, want := r.RelativeCenter(), (Point{X: 400, Y: 300}); got != want {
		t.Fatalf("RelativeCenter = %+v, want %+v", got, want)
	}
	if got, want := r.Center(), (Point{X: 500, Y: 350}); got != want {
		t.Fatalf("Center = %+v, want %+v", got, want)
	}
}

func TestRegion_Contains(t *testing.T) {
	r := Region{X: 0, Y: 0, Width: 1920, Height: 1080}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{1919, 1079}, true},
		{Point{1920, 0}, false},
		{Point{0, 1080}, false},
		{Point{-1, 5}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if (Region{Width: 0, Height: 10}).Contains(Point{}) {
		t.Errorf("empty region must not contain any point")
	}
}

func TestRegion_String(t *testing.T) {
	if got, want := (Region{X: 10, Y: -20, Width: 800, Height: 600}).String(), "800x600+10+-20"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
