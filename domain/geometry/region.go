package geometry

import (
	"fmt"
	"image"
)

// Region is an axis-aligned box in image pixel coordinates.
// Regions are values; two regions with identical geometry are still
// distinct candidates when they sit at different indices of a slice.
type Region struct {
	X, Y          int
	Width, Height int
}

// FromRect converts an image.Rectangle into a Region.
func FromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (r Region) Area() int   { return r.Width * r.Height }
func (r Region) Right() int  { return r.X + r.Width }
func (r Region) Bottom() int { return r.Y + r.Height }

// Degenerate reports a box with a negative dimension.
func (r Region) Degenerate() bool { return r.Width < 0 || r.Height < 0 }

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// Min returns the top-left corner.
func (r Region) Min() image.Point { return image.Pt(r.X, r.Y) }

// Inset returns the top-left corner moved d pixels right and down.
func (r Region) Inset(d int) image.Point { return image.Pt(r.X+d, r.Y+d) }

// Expand grows the region by m pixels on every side.
func (r Region) Expand(m int) Region {
	return Region{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Intersects reports whether the closed boxes share at least one point.
// Touching edges count as intersecting.
func (r Region) Intersects(o Region) bool {
	return r.X <= o.Right() && o.X <= r.Right() && r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Region) Contains(o Region) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Overlap returns the area shared by r and o.
func (r Region) Overlap(o Region) int {
	w := min(r.Right(), o.Right()) - max(r.X, o.X)
	h := min(r.Bottom(), o.Bottom()) - max(r.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IoU returns intersection over union, 0 when both areas are empty.
func (r Region) IoU(o Region) float64 {
	inter := r.Overlap(o)
	union := r.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
