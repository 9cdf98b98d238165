package extract

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// mask is a binary raster; 1 marks ink.
type mask struct {
	origin image.Point
	w, h   int
	pix    []uint8
}

func newMask(origin image.Point, w, h int) *mask {
	return &mask{origin: origin, w: w, h: h, pix: make([]uint8, w*h)}
}

func (m *mask) at(x, y int) uint8 { return m.pix[y*m.w+x] }

// adaptiveThreshold marks pixels at or below the Gaussian-weighted local mean
// minus c. Flat areas of any brightness come out empty.
func adaptiveThreshold(img image.Image, block int, c float64) *mask {
	gray := effect.Grayscale(img)
	gb := gray.Bounds()
	m := newMask(img.Bounds().Min, gb.Dx(), gb.Dy())
	if m.w == 0 || m.h == 0 {
		return m
	}
	mean := blur.Gaussian(gray, float64(block-1)/2)
	mb := mean.Bounds()
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			g := float64(gray.Pix[gray.PixOffset(gb.Min.X+x, gb.Min.Y+y)])
			local := float64(mean.Pix[mean.PixOffset(mb.Min.X+x, mb.Min.Y+y)])
			if g <= local-c {
				m.pix[y*m.w+x] = 1
			}
		}
	}
	return m
}

// dilateHorizontal applies a 1xwidth rectangular kernel anchored at its
// centre, once.
func dilateHorizontal(src *mask, width int) *mask {
	if width <= 1 {
		return src
	}
	dst := newMask(src.origin, src.w, src.h)
	anchor := width / 2
	for y := 0; y < src.h; y++ {
		row := src.pix[y*src.w : (y+1)*src.w]
		out := dst.pix[y*dst.w : (y+1)*dst.w]
		for x, v := range row {
			if v == 0 {
				continue
			}
			// dst(x') = max src(x'-anchor .. x'-anchor+width-1)
			lo := max(x-width+1+anchor, 0)
			hi := min(x+anchor, src.w-1)
			for i := lo; i <= hi; i++ {
				out[i] = 1
			}
		}
	}
	return dst
}
