//go:build gocv

package extract

import (
	"image"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/pranitsh/keyflare/domain/geometry"
)

func init() {
	backends[BackendGocv] = func(cfg Config, logger *slog.Logger) Extractor { return NewGocv(cfg, logger) }
}

// Gocv runs the extraction through OpenCV.
type Gocv struct {
	cfg    Config
	logger *slog.Logger
}

// NewGocv returns an OpenCV-backed extractor.
func NewGocv(cfg Config, logger *slog.Logger) *Gocv {
	return &Gocv{cfg: cfg.normalized(), logger: logger}
}

func (g *Gocv) Extract(img image.Image) []geometry.Region {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	start := time.Now()
	src, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("gocv: convert image", "error", err)
		}
		return nil
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(gray, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, g.cfg.BlockSize, float32(g.cfg.C))

	origin := img.Bounds().Min
	coarseAt := func(width int) []geometry.Region {
		if width <= 1 {
			return contourBoxes(thresh, origin)
		}
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(width, 1))
		defer kernel.Close()
		dilated := gocv.NewMat()
		defer dilated.Close()
		gocv.Dilate(thresh, &dilated, kernel)
		return contourBoxes(dilated, origin)
	}

	var boxes []geometry.Region
	if g.cfg.Adaptive {
		boxes = sweep(g.cfg, coarseAt)
	} else {
		boxes = append(coarseAt(g.cfg.DilationWidth), contourBoxes(thresh, origin)...)
	}
	if g.logger != nil {
		g.logger.Debug("extract complete", "backend", BackendGocv, "boxes", len(boxes), "adaptive", g.cfg.Adaptive, "elapsed", time.Since(start))
	}
	return boxes
}

func contourBoxes(bin gocv.Mat, origin image.Point) []geometry.Region {
	contours := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	out := make([]geometry.Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		r := gocv.BoundingRect(contours.At(i))
		out = append(out, geometry.FromRect(r.Add(origin)))
	}
	return out
}

var _ Extractor = (*Gocv)(nil)
