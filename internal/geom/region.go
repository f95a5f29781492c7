package geom

import "fmt"

// Point is a position in root window coordinates.
type Point struct {
	X int32
	Y int32
}

// Region describes a rectangle in root window coordinates. Width and Height
// are unsigned so a region can never have negative extent.
type Region struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// IsEmpty reports whether the region has zero width or height.
func (r Region) IsEmpty() bool {
	return r.Width == 0 || r.Height == 0
}

// RelativeCenter returns the center of the region relative to its own
// top-left corner.
func (r Region) RelativeCenter() Point {
	return Point{X: int32(r.Width / 2), Y: int32(r.Height / 2)}
}

// Center returns the center of the region in absolute coordinates.
func (r Region) Center() Point {
	c := r.RelativeCenter()
	return Point{X: r.X + c.X, Y: r.Y + c.Y}
}

// Contains reports whether p lies inside the region. The right and bottom
// edges are exclusive.
func (r Region) Contains(p Point) bool {
	if r.IsEmpty() {
		return false
	}
	return int64(p.X) >= int64(r.X) && int64(p.X) < int64(r.X)+int64(r.Width) &&
		int64(p.Y) >= int64(r.Y) && int64(p.Y) < int64(r.Y)+int64(r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
