package presenter

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/pranitsh/keyflare/domain/selection"
	"github.com/pranitsh/keyflare/ui/model"
)

type mockRunner struct{ calls []bool }

func (r *mockRunner) SetArmed(b bool) { r.calls = append(r.calls, b) }

type mockArmView struct {
	calls int
	last  bool
}

func (v *mockArmView) SetArmed(b bool) { v.calls++; v.last = b }

func TestArmPresenter_ArmDisarm_Idempotent(t *testing.T) {
	m := model.NewArmedModel(true)
	r := &mockRunner{}
	v := &mockArmView{}
	p := NewArmPresenter(m, r, v)

	p.Arm()
	if len(r.calls) != 0 || v.calls != 0 {
		t.Fatalf("arm on armed model should be a no-op: runner=%v view=%d", r.calls, v.calls)
	}
	p.Disarm()
	if m.Armed() || len(r.calls) != 1 || r.calls[0] || v.calls != 1 || v.last {
		t.Fatalf("disarm failed: armed=%v runner=%v view=%d last=%v", m.Armed(), r.calls, v.calls, v.last)
	}
	p.Disarm()
	if len(r.calls) != 1 || v.calls != 1 {
		t.Fatalf("disarm not idempotent: runner=%v view=%d", r.calls, v.calls)
	}
}

func TestArmPresenter_Toggle(t *testing.T) {
	m := model.NewArmedModel(false)
	r := &mockRunner{}
	v := &mockArmView{}
	p := NewArmPresenter(m, r, v)
	p.Toggle()
	if !m.Armed() || len(r.calls) != 1 || !r.calls[0] || !v.last {
		t.Fatalf("toggle arm failed")
	}
	p.Toggle()
	if m.Armed() || len(r.calls) != 2 || r.calls[1] || v.last {
		t.Fatalf("toggle disarm failed")
	}
}

type mockStateView struct{ labels []string }

func (v *mockStateView) SetStateLabel(s string) { v.labels = append(v.labels, s) }

func TestStatePresenter_ReflectsLatest(t *testing.T) {
	v := &mockStateView{}
	p := NewStatePresenter(v)
	p.OnState(selection.StateActive, selection.StateCancelled)
	p.OnState(selection.StateActive, selection.StateResolved)
	p.Tick(time.Now())
	if len(v.labels) != 1 || v.labels[0] != "State: resolved" {
		t.Fatalf("unexpected labels %v", v.labels)
	}
	p.Tick(time.Now())
	p.OnState(selection.StateActive, selection.StateResolved)
	p.Tick(time.Now())
	if len(v.labels) != 1 {
		t.Fatalf("unchanged state redrawn: %v", v.labels)
	}
}

type mockStatsView struct {
	stats    []model.RunStats
	previews int
}

func (v *mockStatsView) SetStats(s model.RunStats) { v.stats = append(v.stats, s) }
func (v *mockStatsView) SetPreview(image.Image)    { v.previews++ }

func TestStatsPresenter_RedrawsOnChange(t *testing.T) {
	runs := model.NewRunModel()
	v := &mockStatsView{}
	p := NewStatsPresenter(runs, v)
	p.Tick(time.Now())
	if len(v.stats) != 0 {
		t.Fatalf("redraw without change")
	}
	runs.Record(selection.StateResolved, "ab", time.Second)
	runs.SetPreview(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	p.Tick(time.Now())
	p.Tick(time.Now())
	if len(v.stats) != 1 || v.stats[0].Resolved != 1 || v.previews != 1 {
		t.Fatalf("unexpected redraws stats=%d previews=%d", len(v.stats), v.previews)
	}
}

func TestLoop_RunsPostedWorkInOrder(t *testing.T) {
	scheduled := 0
	l := NewLoop(nil, nil, nil, func() { scheduled++ })
	var got []int
	l.Post(func() { got = append(got, 1) })
	l.Post(func() { panic("widget destroyed") })
	l.Post(func() { got = append(got, 2) })
	l.Tick()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected order %v", got)
	}
	if scheduled != 1 {
		t.Fatalf("expected reschedule, got %d", scheduled)
	}
}

func TestLoop_CallWaitsForTick(t *testing.T) {
	l := &Loop{}
	boom := errors.New("boom")
	errc := make(chan error, 1)
	go func() { errc <- l.Call(context.Background(), func() error { return boom }) }()
	deadline := time.After(time.Second)
	for {
		l.Tick()
		select {
		case err := <-errc:
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}
			return
		case <-deadline:
			t.Fatalf("call never completed")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestLoop_CallCancelAndClose(t *testing.T) {
	l := &Loop{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Call(ctx, func() error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancel, got %v", err)
	}
	l.Close()
	if err := l.Call(context.Background(), func() error { return nil }); !errors.Is(err, ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
	var nilLoop *Loop
	nilLoop.Tick()
	if nilLoop.Post(func() {}) {
		t.Fatalf("nil loop accepted work")
	}
}
