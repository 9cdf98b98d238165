package extract

import (
	"image"
	"log/slog"
	"time"

	"github.com/pranitsh/keyflare/domain/geometry"
)

// Native is the pure-Go extractor.
type Native struct {
	cfg    Config
	logger *slog.Logger
}

// NewNative returns a pure-Go extractor.
func NewNative(cfg Config, logger *slog.Logger) *Native {
	return &Native{cfg: cfg.normalized(), logger: logger}
}

// Extract binarizes img and returns coarse (dilated) boxes followed by fine
// ones. In adaptive mode only the coarse boxes of the best width are kept.
func (n *Native) Extract(img image.Image) []geometry.Region {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	start := time.Now()
	ink := adaptiveThreshold(img, n.cfg.BlockSize, n.cfg.C)

	var boxes []geometry.Region
	if n.cfg.Adaptive {
		boxes = sweep(n.cfg, func(width int) []geometry.Region {
			return externalBoxes(dilateHorizontal(ink, width))
		})
	} else {
		coarse := externalBoxes(dilateHorizontal(ink, n.cfg.DilationWidth))
		fine := externalBoxes(ink)
		boxes = make([]geometry.Region, 0, len(coarse)+len(fine))
		boxes = append(boxes, coarse...)
		boxes = append(boxes, fine...)
	}
	if n.logger != nil {
		n.logger.Debug("extract complete", "backend", BackendNative, "boxes", len(boxes), "adaptive", n.cfg.Adaptive, "elapsed", time.Since(start))
	}
	return boxes
}

var _ Extractor = (*Native)(nil)
