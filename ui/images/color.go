package images

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultBadgeColor is the badge fill used when none is configured.
const DefaultBadgeColor = "#f85d5e"

// ParseHex parses "#rrggbb" (or "#rgb") into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// NormalizeHex returns s in canonical lower-case "#rrggbb" form.
func NormalizeHex(s string) (string, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("colour %q: %w", s, err)
	}
	return c.Hex(), nil
}

// ContrastText picks black or white, whichever reads better on fill.
func ContrastText(fill color.Color) color.RGBA {
	c, ok := colorful.MakeColor(fill)
	if !ok {
		return color.RGBA{A: 0xff}
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// ContrastHex returns the text colour for a hex fill, as hex.
func ContrastHex(fill string) string {
	c, err := ParseHex(fill)
	if err != nil {
		return "#000000"
	}
	t, _ := colorful.MakeColor(ContrastText(c))
	return t.Hex()
}
