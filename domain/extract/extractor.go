package extract

import (
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/pranitsh/keyflare/domain/geometry"
)

// Backend names accepted by New.
const (
	BackendNative = "native"
	BackendGocv   = "gocv"
)

// Extractor turns a raster image into candidate bounding boxes.
type Extractor interface {
	Extract(img image.Image) []geometry.Region
}

// Config holds thresholding and dilation parameters.
type Config struct {
	Backend string
	// BlockSize is the odd side of the local-mean window.
	BlockSize int
	// C is subtracted from the local mean before comparing.
	C float64
	// DilationWidth is the horizontal kernel width used for coarse boxes.
	DilationWidth int
	// Adaptive sweeps widths 1..AdaptiveMaxWidth instead of using DilationWidth.
	Adaptive         bool
	AdaptiveMaxWidth int
	AdaptiveCap      int
	AdaptiveTarget   int
}

// DefaultConfig returns the standard extraction parameters.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendNative,
		BlockSize:        11,
		C:                2,
		DilationWidth:    4,
		AdaptiveMaxWidth: 7,
		AdaptiveCap:      525,
		AdaptiveTarget:   300,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.BlockSize < 3 {
		c.BlockSize = d.BlockSize
	}
	if c.BlockSize%2 == 0 {
		c.BlockSize++
	}
	if c.DilationWidth < 1 {
		c.DilationWidth = d.DilationWidth
	}
	if c.AdaptiveMaxWidth < 1 {
		c.AdaptiveMaxWidth = d.AdaptiveMaxWidth
	}
	if c.AdaptiveCap < 1 {
		c.AdaptiveCap = d.AdaptiveCap
	}
	if c.AdaptiveTarget < 1 {
		c.AdaptiveTarget = d.AdaptiveTarget
	}
	return c
}

type factory func(Config, *slog.Logger) Extractor

var backends = map[string]factory{
	BackendNative: func(cfg Config, logger *slog.Logger) Extractor { return NewNative(cfg, logger) },
}

// Backends lists the backends compiled into this binary.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the extractor for cfg.Backend.
func New(cfg Config, logger *slog.Logger) (Extractor, error) {
	cfg = cfg.normalized()
	f, ok := backends[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("extractor backend %q not available (have %v)", cfg.Backend, Backends())
	}
	return f(cfg, logger), nil
}

// sweep runs the adaptive width search shared by every backend. boxesAt
// returns the coarse boxes for one dilation width.
func sweep(cfg Config, boxesAt func(width int) []geometry.Region) []geometry.Region {
	var best []geometry.Region
	for w := 1; w <= cfg.AdaptiveMaxWidth; w++ {
		boxes := boxesAt(w)
		if len(boxes) < cfg.AdaptiveCap && len(boxes) > len(best) {
			best = boxes
		}
		if len(best) > cfg.AdaptiveTarget {
			break
		}
	}
	return best
}
