package pipeline

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pranitsh/keyflare/domain/action"
	"github.com/pranitsh/keyflare/domain/activation"
	"github.com/pranitsh/keyflare/domain/capture"
	"github.com/pranitsh/keyflare/domain/dedup"
	"github.com/pranitsh/keyflare/domain/extract"
	"github.com/pranitsh/keyflare/domain/geometry"
	"github.com/pranitsh/keyflare/domain/label"
	"github.com/pranitsh/keyflare/domain/selection"
)

// Fallback is shown when a selection exhausts. Returning exit=true asks the
// host to shut down.
type Fallback interface {
	Show(ctx context.Context) (exit bool, err error)
}

// Settings are the tunables read at the start of each run.
type Settings struct {
	Dedup       dedup.Config
	Alphabet    label.Alphabet
	ClickInset  int
	StepTimeout time.Duration
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Dedup:      dedup.DefaultConfig(),
		Alphabet:   label.MustAlphabet(label.Frequency),
		ClickInset: 5,
	}
}

// Run is the state owned by one trigger. It is never reused.
type Run struct {
	ID         string
	Trigger    activation.Trigger
	Started    time.Time
	Frame      capture.FrameSnapshot
	Raw        int
	Candidates []geometry.Region
	Entries    []label.Entry
	Outcome    selection.Outcome
	// Point is the screen point acted on, set when Clicked.
	Point    image.Point
	Clicked  bool
	Fallback bool
	Duration time.Duration
}

// Result is what Execute hands back to the Runner.
type Result struct {
	Run  *Run
	Exit bool
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Source    capture.Source
	Extractor extract.Extractor
	Port      selection.Port
	Actuator  action.Actuator
	Fallback  Fallback
	Logger    *slog.Logger
	// Settings is read once per run. Nil means DefaultSettings.
	Settings  func() Settings
	Listeners []selection.StateListener
}

// Pipeline runs capture, extraction, dedup, labelling, selection and
// actuation for one trigger at a time.
type Pipeline struct {
	deps Deps
}

func New(d Deps) *Pipeline {
	if d.Settings == nil {
		d.Settings = DefaultSettings
	}
	return &Pipeline{deps: d}
}

// Execute performs one complete run. Empty candidate sets are not errors:
// they exhaust the selection and show the fallback.
func (p *Pipeline) Execute(ctx context.Context, trig activation.Trigger) (Result, error) {
	settings := p.deps.Settings()
	run := &Run{ID: uuid.NewString(), Trigger: trig, Started: time.Now()}
	res := Result{Run: run}
	log := p.deps.Logger
	if log != nil {
		log = log.With("run_id", run.ID)
	}
	defer func() { run.Duration = time.Since(run.Started) }()
	fail := func(stage Stage, err error) (Result, error) {
		if log != nil {
			log.Error("run failed", "stage", string(stage), "error", err)
		}
		return res, &RunError{Stage: stage, RunID: run.ID, Err: err}
	}

	frame, err := p.deps.Source.Capture(ctx)
	if err != nil {
		return fail(StageCapture, err)
	}
	run.Frame = frame

	if p.deps.Extractor == nil {
		return fail(StageExtract, errNoExtractor)
	}
	raw := p.deps.Extractor.Extract(frame.Image)
	run.Raw = len(raw)
	run.Candidates = dedup.New(settings.Dedup, log).Deduplicate(raw)
	if log != nil {
		log.Info("regions extracted", "raw", run.Raw, "candidates", len(run.Candidates))
	}

	run.Entries, err = label.Assign(run.Candidates, settings.Alphabet)
	if err != nil {
		return fail(StageLabel, err)
	}
	if log != nil && len(run.Entries) > 0 {
		log.Info("codes assigned", "count", len(run.Entries), "length", len(run.Entries[0].Code))
	}

	ctrl := selection.NewController(run.Entries, log, p.deps.Listeners...)
	run.Outcome, err = ctrl.Run(ctx, p.deps.Port, frame.Image, settings.StepTimeout)
	if err != nil {
		return fail(StageSelect, err)
	}

	switch run.Outcome.State {
	case selection.StateResolved:
		run.Point = clickPoint(frame, run.Outcome.Region, settings.ClickInset)
		if p.deps.Actuator == nil {
			return fail(StageAct, action.ErrUnsupported)
		}
		if err := p.deps.Actuator.Act(ctx, run.Point, trig.Clicks, trig.Button); err != nil {
			return fail(StageAct, err)
		}
		run.Clicked = true
	case selection.StateExhausted:
		run.Fallback = true
		if p.deps.Fallback != nil {
			exit, err := p.deps.Fallback.Show(ctx)
			if err != nil {
				return fail(StageFallback, err)
			}
			res.Exit = exit
		}
	}
	if log != nil {
		log.Info("run finished",
			"state", run.Outcome.State.String(),
			"code", run.Outcome.Code,
			"keys", run.Outcome.Consumed,
			"clicked", run.Clicked,
			"exit", res.Exit,
			"elapsed", time.Since(run.Started),
		)
	}
	return res, nil
}

// clickPoint maps a region of frame to the screen point just inside its
// top-left corner.
func clickPoint(frame capture.FrameSnapshot, r geometry.Region, inset int) image.Point {
	p := r.Inset(inset)
	if frame.Image != nil {
		p = p.Sub(frame.Image.Rect.Min)
	}
	return frame.ToScreen(p)
}
