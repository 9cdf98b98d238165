package geometry

import (
	"image"
	"testing"
)

func TestRegion_Derived(t *testing.T) {
	r := Region{X: 10, Y: 20, Width: 30, Height: 40}
	if r.Area() != 1200 || r.Right() != 40 || r.Bottom() != 60 {
		t.Fatalf("unexpected derived values area=%d right=%d bottom=%d", r.Area(), r.Right(), r.Bottom())
	}
	if got := r.Inset(5); got != image.Pt(15, 25) {
		t.Fatalf("inset point %v", got)
	}
	if got := FromRect(r.Rect()); got != r {
		t.Fatalf("rect conversion mismatch %v", got)
	}
}

func TestRegion_Intersects(t *testing.T) {
	cases := []struct {
		name string
		a, b Region
		want bool
	}{
		{"nested", Region{0, 0, 100, 100}, Region{5, 5, 20, 20}, true},
		{"touching edge", Region{0, 0, 10, 10}, Region{10, 0, 10, 10}, true},
		{"apart", Region{0, 0, 10, 10}, Region{11, 0, 10, 10}, false},
		{"diagonal apart", Region{0, 0, 10, 10}, Region{20, 20, 5, 5}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Intersects(c.b); got != c.want {
				t.Fatalf("a∩b = %v, want %v", got, c.want)
			}
			if got := c.b.Intersects(c.a); got != c.want {
				t.Fatalf("b∩a = %v, want %v", got, c.want)
			}
		})
	}
}

func TestRegion_ExpandMakesNeighbours(t *testing.T) {
	a := Region{0, 0, 10, 10}
	b := Region{18, 0, 10, 10}
	if a.Intersects(b) {
		t.Fatalf("boxes should be apart before expansion")
	}
	if !a.Expand(10).Intersects(b) || !b.Expand(10).Intersects(a) {
		t.Fatalf("expanded boxes should reach each other")
	}
	if a.Expand(4).Intersects(b) {
		t.Fatalf("small margin should not reach")
	}
}

func TestRegion_OverlapAndIoU(t *testing.T) {
	a := Region{0, 0, 10, 10}
	b := Region{5, 5, 10, 10}
	if got := a.Overlap(b); got != 25 {
		t.Fatalf("overlap %d", got)
	}
	if iou := a.IoU(b); iou < 0.14 || iou > 0.15 {
		t.Fatalf("iou %f", iou)
	}
	if got := a.Overlap(Region{20, 20, 1, 1}); got != 0 {
		t.Fatalf("disjoint overlap %d", got)
	}
	if !a.Contains(Region{1, 1, 2, 2}) || a.Contains(b) {
		t.Fatalf("contains mismatch")
	}
}
