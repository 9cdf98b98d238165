package extract

import "github.com/pranitsh/keyflare/domain/geometry"

// externalBoxes returns the bounding box of every outermost ink component.
// Ink is 8-connected and background 4-connected. A component counts as
// outermost when it touches the image border or background that is reachable
// from the border. Components sitting inside another component's hole are
// skipped.
func externalBoxes(m *mask) []geometry.Region {
	w, h := m.w, m.h
	if w == 0 || h == 0 {
		return nil
	}
	outside := markOutside(m)
	seen := make([]bool, w*h)
	stack := make([]int, 0, 256)
	var boxes []geometry.Region

	for start, v := range m.pix {
		if v == 0 || seen[start] {
			continue
		}
		minX, minY := w, h
		maxX, maxY := -1, -1
		external := false
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := p%w, p/w
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
			if !external {
				if x == 0 || y == 0 || x == w-1 || y == h-1 {
					external = true
				} else if outside[p-1] || outside[p+1] || outside[p-w] || outside[p+w] {
					external = true
				}
			}
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w || (dx == 0 && dy == 0) {
						continue
					}
					q := ny*w + nx
					if m.pix[q] != 0 && !seen[q] {
						seen[q] = true
						stack = append(stack, q)
					}
				}
			}
		}
		if external {
			boxes = append(boxes, geometry.Region{
				X:      m.origin.X + minX,
				Y:      m.origin.Y + minY,
				Width:  maxX - minX + 1,
				Height: maxY - minY + 1,
			})
		}
	}
	return boxes
}

// markOutside flood-fills background from the image border with
// 4-connectivity.
func markOutside(m *mask) []bool {
	w, h := m.w, m.h
	outside := make([]bool, w*h)
	stack := make([]int, 0, 2*(w+h))
	push := func(p int) {
		if m.pix[p] == 0 && !outside[p] {
			outside[p] = true
			stack = append(stack, p)
		}
	}
	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p%w, p/w
		if x > 0 {
			push(p - 1)
		}
		if x < w-1 {
			push(p + 1)
		}
		if y > 0 {
			push(p - w)
		}
		if y < h-1 {
			push(p + w)
		}
	}
	return outside
}
