package capture

import (
	"image"
	"time"
)

// FrameSnapshot is one captured frame. Origin is the screen position of the
// image's top-left pixel.
type FrameSnapshot struct {
	Image      *image.RGBA
	Origin     image.Point
	CapturedAt time.Time
	Sequence   uint64
}

// ToScreen maps an image-relative point to screen coordinates.
func (f FrameSnapshot) ToScreen(p image.Point) image.Point { return p.Add(f.Origin) }

// CaptureStats summarises capture behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Failures         uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	Sequence         uint64
}
