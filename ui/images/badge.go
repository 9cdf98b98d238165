package images

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Badge is one code label drawn at a point of the base image.
type Badge struct {
	Text string
	At   image.Point
}

// BadgeStyle controls badge appearance.
type BadgeStyle struct {
	Fill color.RGBA
	Text color.RGBA
	// Size is the badge height and minimum width in pixels.
	Size int
}

// NewBadgeStyle builds a style from a hex colour; text colour follows the fill.
func NewBadgeStyle(hex string, size int) (BadgeStyle, error) {
	fill, err := ParseHex(hex)
	if err != nil {
		return BadgeStyle{}, err
	}
	if size < 8 {
		size = 20
	}
	return BadgeStyle{Fill: fill, Text: ContrastText(fill), Size: size}, nil
}

var badgeFace font.Face = basicfont.Face7x13

// BadgeRect returns the rectangle a badge with text occupies at p.
func BadgeRect(text string, p image.Point, size int) image.Rectangle {
	w := font.MeasureString(badgeFace, text).Ceil() + 6
	if w < size {
		w = size
	}
	return image.Rect(p.X, p.Y, p.X+w, p.Y+size)
}

// ComposeBadges copies base into a pooled frame and draws every badge on
// top. Call RecycleFrame on the result once it is no longer displayed.
func ComposeBadges(base image.Image, badges []Badge, style BadgeStyle) *image.RGBA {
	b := base.Bounds()
	dst := acquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, base, b.Min, draw.Src)
	fill := image.NewUniform(style.Fill)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(style.Text), Face: badgeFace}
	metrics := badgeFace.Metrics()
	textH := (metrics.Ascent + metrics.Descent).Ceil()
	for _, bd := range badges {
		at := bd.At.Sub(b.Min)
		r := BadgeRect(bd.Text, at, style.Size)
		draw.Draw(dst, r.Intersect(dst.Rect), fill, image.Point{}, draw.Src)
		tw := font.MeasureString(badgeFace, bd.Text).Ceil()
		x := r.Min.X + (r.Dx()-tw)/2
		y := r.Min.Y + (r.Dy()-textH)/2 + metrics.Ascent.Ceil()
		d.Dot = fixed.P(x, y)
		d.DrawString(bd.Text)
	}
	return dst
}
