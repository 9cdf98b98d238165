package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vova616/screenshot"
)

// ErrEmptyFrame is returned when a grab yields no pixels.
var ErrEmptyFrame = errors.New("capture: empty frame")

// Source hands out one frame per call.
type Source interface {
	Capture(ctx context.Context) (FrameSnapshot, error)
}

// GrabFunc captures rect, or the whole screen when rect is nil.
type GrabFunc func(rect *image.Rectangle) (*image.RGBA, error)

// ScreenService grabs the screen on demand, optionally restricted to a
// selection rectangle. Use NewScreenService to construct an instance.
type ScreenService struct {
	mu           sync.RWMutex
	selFn        func() *image.Rectangle
	grab         GrabFunc
	logger       *slog.Logger
	latest       atomic.Pointer[FrameSnapshot]
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

// NewScreenService returns a service backed by the system screenshot API.
func NewScreenService(logger *slog.Logger, selectionFn func() *image.Rectangle) *ScreenService {
	return NewScreenServiceWithGrab(logger, selectionFn, Grab)
}

// NewScreenServiceWithGrab swaps the grab implementation.
func NewScreenServiceWithGrab(logger *slog.Logger, selectionFn func() *image.Rectangle, grab GrabFunc) *ScreenService {
	return &ScreenService{selFn: selectionFn, grab: grab, logger: logger}
}

func (s *ScreenService) SetSelectionProvider(fn func() *image.Rectangle) {
	s.mu.Lock()
	s.selFn = fn
	s.mu.Unlock()
}

func (s *ScreenService) selection() *image.Rectangle {
	s.mu.RLock()
	fn := s.selFn
	s.mu.RUnlock()
	if fn == nil {
		return nil
	}
	if r := fn(); r != nil && !r.Empty() {
		return r
	}
	return nil
}

// Capture grabs the selection rectangle, falling back to the full screen
// when the selection cannot be captured.
func (s *ScreenService) Capture(ctx context.Context) (FrameSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return FrameSnapshot{}, err
	}
	start := time.Now()
	var (
		img    *image.RGBA
		origin image.Point
		err    error
	)
	if r := s.selection(); r != nil {
		img, err = s.grab(r)
		if err == nil && img != nil {
			origin = r.Min
		} else if s.logger != nil {
			s.logger.Error("capture selection", "error", err, "rect", r.String())
		}
	}
	if img == nil {
		img, err = s.grab(nil)
		if err != nil {
			s.failures.Add(1)
			return FrameSnapshot{}, fmt.Errorf("capture full: %w", err)
		}
	}
	if img == nil || img.Rect.Empty() {
		s.failures.Add(1)
		return FrameSnapshot{}, ErrEmptyFrame
	}

	elapsed := time.Since(start)
	s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
	n := s.captures.Add(1)
	snap := FrameSnapshot{Image: img, Origin: origin, CapturedAt: time.Now(), Sequence: s.sequence.Add(1)}
	s.latest.Store(&snap)
	if s.logger != nil {
		s.logger.Debug("capture.frame", "seq", snap.Sequence, "size", img.Rect.Size().String(), "origin", origin.String(), "elapsed", elapsed, "captures", n)
	}
	return snap, nil
}

func (s *ScreenService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *ScreenService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	return CaptureStats{
		Captures:         captures,
		Failures:         s.failures.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		Sequence:         snapshot.Sequence,
	}
}

// Grab captures rect, clipped to the screen, or the whole screen when rect is nil.
func Grab(rect *image.Rectangle) (*image.RGBA, error) {
	if rect == nil {
		return screenshot.CaptureScreen()
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, err
	}
	r := rect.Intersect(screen)
	if r.Empty() {
		return nil, fmt.Errorf("capture: selection out of bounds sel=%v screen=%v", *rect, screen)
	}
	return screenshot.CaptureRect(r)
}

var _ Source = (*ScreenService)(nil)
