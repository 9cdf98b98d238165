package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit scales src to fit within maxW x maxH preserving aspect ratio.
// If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	return imaging.Fit(src, maxW, maxH, imaging.Box)
}

// CropAround cuts a size x size square centred on p, shifted to stay inside
// img. It returns the crop and its rectangle in img coordinates.
func CropAround(img image.Image, p image.Point, size int) (image.Image, image.Rectangle) {
	if img == nil {
		return nil, image.Rectangle{}
	}
	if size < 1 {
		size = 1
	}
	b := img.Bounds()
	size = min(size, b.Dx(), b.Dy())
	half := size / 2
	r := image.Rect(p.X-half, p.Y-half, p.X-half+size, p.Y-half+size)
	if r.Min.X < b.Min.X {
		r = r.Add(image.Pt(b.Min.X-r.Min.X, 0))
	}
	if r.Min.Y < b.Min.Y {
		r = r.Add(image.Pt(0, b.Min.Y-r.Min.Y))
	}
	if r.Max.X > b.Max.X {
		r = r.Sub(image.Pt(r.Max.X-b.Max.X, 0))
	}
	if r.Max.Y > b.Max.Y {
		r = r.Sub(image.Pt(0, r.Max.Y-b.Max.Y))
	}
	r = r.Intersect(b)
	if r.Empty() {
		return nil, r
	}
	return imaging.Crop(img, r), r
}
