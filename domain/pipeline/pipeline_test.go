package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pranitsh/keyflare/domain/action"
	"github.com/pranitsh/keyflare/domain/activation"
	"github.com/pranitsh/keyflare/domain/capture"
	"github.com/pranitsh/keyflare/domain/geometry"
	"github.com/pranitsh/keyflare/domain/label"
	"github.com/pranitsh/keyflare/domain/selection"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeSource struct {
	origin image.Point
	err    error
}

func (f *fakeSource) Capture(context.Context) (capture.FrameSnapshot, error) {
	if f.err != nil {
		return capture.FrameSnapshot{}, f.err
	}
	return capture.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 400, 300)), Origin: f.origin, Sequence: 1}, nil
}

type fakeExtractor struct{ boxes []geometry.Region }

func (f *fakeExtractor) Extract(image.Image) []geometry.Region { return f.boxes }

type fakePort struct {
	inputs  []selection.Input
	renders [][]selection.Candidate
}

func (p *fakePort) Render(_ context.Context, _ image.Image, remaining []selection.Candidate) error {
	p.renders = append(p.renders, remaining)
	return nil
}

func (p *fakePort) AwaitInput(ctx context.Context) (selection.Input, error) {
	if len(p.inputs) == 0 {
		<-ctx.Done()
		return selection.Input{}, ctx.Err()
	}
	in := p.inputs[0]
	p.inputs = p.inputs[1:]
	return in, nil
}

func (p *fakePort) Dismiss() {}

type click struct {
	pt     image.Point
	clicks int
	button action.Button
}

type fakeActuator struct {
	clicks []click
	err    error
}

func (a *fakeActuator) Act(_ context.Context, pt image.Point, clicks int, b action.Button) error {
	a.clicks = append(a.clicks, click{pt, clicks, b})
	return a.err
}

type fakeFallback struct {
	shown int
	exit  bool
}

func (f *fakeFallback) Show(context.Context) (bool, error) {
	f.shown++
	return f.exit, nil
}

var (
	_ capture.Source  = (*fakeSource)(nil)
	_ selection.Port  = (*fakePort)(nil)
	_ action.Actuator = (*fakeActuator)(nil)
	_ Fallback        = (*fakeFallback)(nil)
)

func fourBoxes() []geometry.Region {
	return []geometry.Region{
		{X: 10, Y: 10, Width: 30, Height: 12},
		{X: 100, Y: 10, Width: 30, Height: 12},
		{X: 10, Y: 100, Width: 30, Height: 12},
		{X: 100, Y: 100, Width: 30, Height: 12},
	}
}

type harness struct {
	src  *fakeSource
	ext  *fakeExtractor
	port *fakePort
	act  *fakeActuator
	fb   *fakeFallback
	p    *Pipeline
}

func newHarness(boxes []geometry.Region, inputs string) *harness {
	h := &harness{
		src: &fakeSource{origin: image.Pt(1000, 500)},
		ext: &fakeExtractor{boxes: boxes},
		act: &fakeActuator{},
		fb:  &fakeFallback{},
	}
	h.port = &fakePort{}
	for _, r := range inputs {
		h.port.inputs = append(h.port.inputs, selection.Key(r))
	}
	h.p = New(Deps{
		Source: h.src, Extractor: h.ext, Port: h.port, Actuator: h.act, Fallback: h.fb, Logger: discardLogger,
		Settings: func() Settings {
			s := DefaultSettings()
			s.Alphabet = label.MustAlphabet("ab")
			return s
		},
	})
	return h
}

func TestExecute_ResolvedClicksInsideRegion(t *testing.T) {
	h := newHarness(fourBoxes(), "ba")
	res, err := h.p.Execute(context.Background(), activation.Trigger{Clicks: 2, Button: action.ButtonSecondary})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Run.ID == "" || res.Run.Raw != 4 || len(res.Run.Candidates) != 4 {
		t.Fatalf("unexpected run %+v", res.Run)
	}
	if len(h.act.clicks) != 1 {
		t.Fatalf("expected one actuation, got %+v", h.act.clicks)
	}
	got := h.act.clicks[0]
	if got.pt != image.Pt(1015, 605) || got.clicks != 2 || got.button != action.ButtonSecondary {
		t.Fatalf("unexpected click %+v", got)
	}
	if !res.Run.Clicked || res.Exit || h.fb.shown != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExecute_CancelWithFourRemainingDoesNotAct(t *testing.T) {
	h := newHarness(fourBoxes(), "")
	h.port.inputs = []selection.Input{selection.CancelInput}
	res, err := h.p.Execute(context.Background(), activation.Trigger{Clicks: 1})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Run.Outcome.State != selection.StateCancelled {
		t.Fatalf("expected cancelled, got %v", res.Run.Outcome.State)
	}
	if len(h.port.renders) != 1 || len(h.port.renders[0]) != 4 {
		t.Fatalf("expected one render of four, got %d", len(h.port.renders))
	}
	if len(h.act.clicks) != 0 || h.fb.shown != 0 {
		t.Fatalf("cancelled run had side effects: clicks=%d fallback=%d", len(h.act.clicks), h.fb.shown)
	}
}

func TestExecute_ExhaustedShowsFallback(t *testing.T) {
	h := newHarness(fourBoxes(), "z")
	h.fb.exit = true
	res, err := h.p.Execute(context.Background(), activation.Trigger{Clicks: 1})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if h.fb.shown != 1 || !res.Exit || !res.Run.Fallback {
		t.Fatalf("expected fallback with exit, got %+v shown=%d", res, h.fb.shown)
	}
	if len(h.act.clicks) != 0 {
		t.Fatalf("exhausted run clicked")
	}
}

func TestExecute_NoRegionsExhaustsWithoutRender(t *testing.T) {
	h := newHarness(nil, "")
	res, err := h.p.Execute(context.Background(), activation.Trigger{Clicks: 1})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Run.Outcome.State != selection.StateExhausted || len(h.port.renders) != 0 || h.fb.shown != 1 {
		t.Fatalf("unexpected result %+v renders=%d", res.Run.Outcome, len(h.port.renders))
	}
}

func TestExecute_DedupDropsContainedBox(t *testing.T) {
	h := newHarness([]geometry.Region{{X: 0, Y: 0, Width: 100, Height: 100}, {X: 5, Y: 5, Width: 20, Height: 20}}, "a")
	res, err := h.p.Execute(context.Background(), activation.Trigger{Clicks: 1})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(res.Run.Candidates) != 1 || res.Run.Outcome.State != selection.StateResolved {
		t.Fatalf("expected one candidate resolved by one key, got %+v", res.Run)
	}
}

func TestExecute_CollaboratorFailures(t *testing.T) {
	boom := errors.New("boom")

	h := newHarness(fourBoxes(), "")
	h.src.err = boom
	if _, err := h.p.Execute(context.Background(), activation.Trigger{}); !errors.Is(err, boom) || StageOf(err) != StageCapture {
		t.Fatalf("expected capture stage error, got %v", err)
	}

	h = newHarness(fourBoxes(), "aa")
	h.act.err = boom
	_, err := h.p.Execute(context.Background(), activation.Trigger{Clicks: 1})
	var re *RunError
	if !errors.As(err, &re) || re.Stage != StageAct || re.RunID == "" {
		t.Fatalf("expected act stage error, got %v", err)
	}
}

type scriptedExec struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	res     Result
	panic   bool
}

func (e *scriptedExec) Execute(context.Context, activation.Trigger) (Result, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.release != nil {
		<-e.release
	}
	if e.panic {
		panic("extractor blew up")
	}
	return e.res, nil
}

func TestRunner_OneRunAtATime(t *testing.T) {
	exec := &scriptedExec{release: make(chan struct{})}
	r := NewRunner(context.Background(), exec, discardLogger)
	if err := r.Trigger(activation.Trigger{Clicks: 1}); err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if err := r.Trigger(activation.Trigger{Clicks: 1}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(exec.release)
	r.Wait()
	if exec.calls != 1 {
		t.Fatalf("expected one execution, got %d", exec.calls)
	}
	exec.release = nil
	if err := r.Trigger(activation.Trigger{Clicks: 1}); err != nil {
		t.Fatalf("trigger after run: %v", err)
	}
	r.Wait()
}

func TestRunner_Disarmed(t *testing.T) {
	exec := &scriptedExec{}
	r := NewRunner(context.Background(), exec, discardLogger)
	r.SetArmed(false)
	if err := r.Trigger(activation.Trigger{}); !errors.Is(err, ErrDisarmed) {
		t.Fatalf("expected ErrDisarmed, got %v", err)
	}
	r.Wait()
	if exec.calls != 0 {
		t.Fatalf("disarmed runner executed")
	}
}

func TestRunner_PanicRecovered(t *testing.T) {
	exec := &scriptedExec{panic: true}
	r := NewRunner(context.Background(), exec, discardLogger)
	var got error
	r.AddListener(func(_ Result, err error) { got = err })
	_ = r.Trigger(activation.Trigger{})
	r.Wait()
	if StageOf(got) != StagePanic {
		t.Fatalf("expected panic stage error, got %v", got)
	}
	if r.Busy() {
		t.Fatalf("runner still busy after panic")
	}
	exec.panic = false
	if err := r.Trigger(activation.Trigger{}); err != nil {
		t.Fatalf("runner did not survive panic: %v", err)
	}
	r.Wait()
}

func TestRunner_ExitPropagates(t *testing.T) {
	exec := &scriptedExec{res: Result{Exit: true}}
	r := NewRunner(context.Background(), exec, discardLogger)
	exited := make(chan struct{})
	r.OnExit(func() { close(exited) })
	_ = r.Trigger(activation.Trigger{})
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatalf("exit not propagated")
	}
	r.Wait()
}
