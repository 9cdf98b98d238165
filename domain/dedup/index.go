package dedup

import (
	"errors"
	"fmt"

	"github.com/tidwall/rtree"

	"github.com/pranitsh/keyflare/domain/geometry"
)

// ErrMalformedBox is returned when a box cannot be indexed.
var ErrMalformedBox = errors.New("malformed box")

// spatialIndex maps candidate ids to their boxes. Boxes are stored as closed
// rectangles, so boxes that only touch still intersect.
type spatialIndex interface {
	insert(id int, r geometry.Region) error
	remove(id int, r geometry.Region)
	search(q geometry.Region, fn func(id int) bool)
	len() int
}

type rtreeIndex struct {
	tr rtree.RTreeG[int]
}

func bounds(r geometry.Region) (lo, hi [2]float64) {
	lo = [2]float64{float64(r.X), float64(r.Y)}
	hi = [2]float64{float64(r.Right()), float64(r.Bottom())}
	return lo, hi
}

func (x *rtreeIndex) insert(id int, r geometry.Region) error {
	if r.Degenerate() {
		return fmt.Errorf("%w: id %d %v", ErrMalformedBox, id, r)
	}
	lo, hi := bounds(r)
	x.tr.Insert(lo, hi, id)
	return nil
}

func (x *rtreeIndex) remove(id int, r geometry.Region) {
	lo, hi := bounds(r)
	x.tr.Delete(lo, hi, id)
}

func (x *rtreeIndex) search(q geometry.Region, fn func(id int) bool) {
	lo, hi := bounds(q)
	x.tr.Search(lo, hi, func(_, _ [2]float64, id int) bool { return fn(id) })
}

func (x *rtreeIndex) len() int { return x.tr.Len() }

// linearIndex answers the same queries with a scan. Used for small inputs.
type linearIndex struct {
	boxes map[int]geometry.Region
}

func newLinearIndex(n int) *linearIndex {
	return &linearIndex{boxes: make(map[int]geometry.Region, n)}
}

func (x *linearIndex) insert(id int, r geometry.Region) error {
	if r.Degenerate() {
		return fmt.Errorf("%w: id %d %v", ErrMalformedBox, id, r)
	}
	x.boxes[id] = r
	return nil
}

func (x *linearIndex) remove(id int, _ geometry.Region) { delete(x.boxes, id) }

func (x *linearIndex) search(q geometry.Region, fn func(id int) bool) {
	for id, r := range x.boxes {
		if q.Intersects(r) && !fn(id) {
			return
		}
	}
}

func (x *linearIndex) len() int { return len(x.boxes) }
