package app

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/pranitsh/keyflare/config"
	"github.com/pranitsh/keyflare/domain/action"
	"github.com/pranitsh/keyflare/domain/activation"
	"github.com/pranitsh/keyflare/domain/capture"
	"github.com/pranitsh/keyflare/domain/dedup"
	"github.com/pranitsh/keyflare/domain/extract"
	"github.com/pranitsh/keyflare/domain/label"
	"github.com/pranitsh/keyflare/domain/pipeline"
	"github.com/pranitsh/keyflare/domain/selection"
	"github.com/pranitsh/keyflare/ui/images"
	"github.com/pranitsh/keyflare/ui/model"
	"github.com/pranitsh/keyflare/ui/presenter"
	"github.com/pranitsh/keyflare/ui/view"
)

// previewSize is the side of the crop kept around each click point.
const previewSize = 160

// Container assembles models, services, presenters and views.
type Container struct {
	Store    *config.Store
	Logger   *slog.Logger
	Capture  *capture.ScreenService
	Actuator action.Actuator
	Pipeline *pipeline.Pipeline
	Runner   *pipeline.Runner
	Bindings []activation.Binding
	Listener activation.Listener
	// Chord is nil unless mouse_chord is on and the platform can sample buttons.
	Chord *activation.ChordListener

	Runs  *model.RunModel
	Armed *model.ArmedModel

	Overlay     *view.Overlay
	Preferences *view.Preferences
	CaptureArea *view.CaptureArea
	Status      *view.StatusView

	StatePresenter *presenter.StatePresenter
	StatsPresenter *presenter.StatsPresenter
	ArmPresenter   *presenter.ArmPresenter
	Loop           *presenter.Loop
}

// BuildContainer constructs all components. No Tk widgets are created here.
// An unavailable pointer backend is logged and left nil so the overlay still
// works; the run then fails at the act stage.
func BuildContainer(ctx context.Context, store *config.Store, logger *slog.Logger) (*Container, error) {
	cfg := store.Get()
	c := &Container{Store: store, Logger: logger}

	bindings, err := parseBindings(cfg.Hotkeys)
	if err != nil {
		return nil, err
	}
	c.Bindings = bindings
	c.Listener = activation.NewSystemListener(logger)
	if cfg.MouseChord {
		if chord, err := activation.NewSystemChordListener(logger); err != nil {
			logger.Warn("pointer chord unavailable", "error", err)
		} else {
			c.Chord = chord
		}
	}

	ex, err := extract.New(extractConfig(cfg), logger)
	if err != nil {
		return nil, err
	}

	c.Capture = capture.NewScreenService(logger, store.CaptureRect)
	if clicker, err := action.NewSystem(logger); err != nil {
		logger.Warn("pointer backend unavailable", "error", err)
	} else {
		clicker.Settle = time.Duration(cfg.ClickDelayMs) * time.Millisecond
		c.Actuator = clicker
	}

	c.Runs = model.NewRunModel()
	c.Armed = model.NewArmedModel(true)
	c.Status = view.NewStatusView(logger)
	c.StatePresenter = presenter.NewStatePresenter(c.Status)
	c.StatsPresenter = presenter.NewStatsPresenter(c.Runs, c.Status)
	c.Loop = presenter.NewLoop(c.StatePresenter, c.StatsPresenter, logger, nil)

	c.Overlay = view.NewOverlay(c.Loop, func() images.BadgeStyle {
		cur := store.Get()
		style, err := images.NewBadgeStyle(cur.BadgeColor, cur.BadgeSize)
		if err != nil {
			style, _ = images.NewBadgeStyle(images.DefaultBadgeColor, cur.BadgeSize)
		}
		return style
	}, func() image.Point { return c.Capture.LatestFrame().Origin }, logger)
	c.Preferences = view.NewPreferences(c.Loop, store, logger)
	c.CaptureArea = view.NewCaptureArea(store, logger)

	c.Pipeline = pipeline.New(pipeline.Deps{
		Source:    c.Capture,
		Extractor: ex,
		Port:      c.Overlay,
		Actuator:  c.Actuator,
		Fallback:  c.Preferences,
		Logger:    logger,
		Settings:  func() pipeline.Settings { return settingsFrom(store.Get()) },
		Listeners: []selection.StateListener{c.StatePresenter.OnState},
	})
	c.Runner = pipeline.NewRunner(ctx, c.Pipeline, logger)
	c.Runner.AddListener(c.recordRun)
	c.ArmPresenter = presenter.NewArmPresenter(c.Armed, c.Runner, c.Status)
	return c, nil
}

// Fire hands a hotkey press to the runner and counts the ones it refuses.
func (c *Container) Fire(trig activation.Trigger) {
	if err := c.Runner.Trigger(trig); err != nil {
		c.Runs.RecordDropped()
		c.Logger.Debug("trigger dropped", "error", err)
	}
}

func (c *Container) recordRun(res pipeline.Result, err error) {
	if err != nil {
		c.Runs.RecordFailure(err)
		return
	}
	run := res.Run
	if run == nil {
		return
	}
	c.Runs.Record(run.Outcome.State, run.Outcome.Code, run.Duration)
	if run.Clicked && run.Frame.Image != nil {
		at := run.Point.Sub(run.Frame.Origin).Add(run.Frame.Image.Rect.Min)
		crop, _ := images.CropAround(run.Frame.Image, at, previewSize)
		c.Runs.SetPreview(crop)
	}
}

func parseBindings(hotkeys []config.Hotkey) ([]activation.Binding, error) {
	out := make([]activation.Binding, 0, len(hotkeys))
	for _, h := range hotkeys {
		b, err := activation.ParseBinding(h.Keys, h.Clicks, h.Button)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := activation.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func extractConfig(cfg *config.Config) extract.Config {
	return extract.Config{
		Backend:          cfg.Extractor,
		BlockSize:        cfg.ThresholdBlock,
		C:                float64(cfg.ThresholdC),
		DilationWidth:    cfg.DilationWidth,
		Adaptive:         cfg.AdaptiveDilation,
		AdaptiveMaxWidth: cfg.AdaptiveMaxWidth,
		AdaptiveCap:      cfg.AdaptiveCap,
		AdaptiveTarget:   cfg.AdaptiveTarget,
	}
}

// settingsFrom converts a validated config into per-run pipeline settings.
func settingsFrom(cfg *config.Config) pipeline.Settings {
	s := pipeline.DefaultSettings()
	s.Dedup = dedup.Config{
		MinArea:         cfg.MinArea,
		Margin:          cfg.Margin,
		DominanceSlack:  cfg.DominanceSlack,
		LinearScanBelow: cfg.LinearScanBelow,
	}
	if a, err := label.ParseAlphabet(cfg.Alphabet); err == nil {
		s.Alphabet = a
	}
	s.ClickInset = cfg.ClickInset
	s.StepTimeout = time.Duration(cfg.StepTimeoutSeconds) * time.Second
	return s
}
