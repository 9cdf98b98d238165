package action

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"testing"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type recorder struct {
	calls    []string
	pressErr error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		MoveCursor: func(x, y int) error {
			r.calls = append(r.calls, fmt.Sprintf("move %d,%d", x, y))
			return nil
		},
		Press: func(b Button) error {
			r.calls = append(r.calls, "down "+b.String())
			return r.pressErr
		},
		Release: func(b Button) error {
			r.calls = append(r.calls, "up "+b.String())
			return nil
		},
	}
}

func fastClicker(cb Callbacks) *Clicker {
	c := NewClicker(cb, discardLogger)
	c.Settle, c.Hold, c.Interval = 0, 0, 0
	return c
}

func TestClicker_DoubleClickSequence(t *testing.T) {
	r := &recorder{}
	if err := fastClicker(r.callbacks()).Act(context.Background(), image.Pt(25, 40), 2, ButtonPrimary); err != nil {
		t.Fatalf("act: %v", err)
	}
	want := []string{"move 25,40", "down primary", "up primary", "down primary", "up primary"}
	if fmt.Sprint(r.calls) != fmt.Sprint(want) {
		t.Fatalf("calls %v want %v", r.calls, want)
	}
}

func TestClicker_ZeroClicksMeansOne(t *testing.T) {
	r := &recorder{}
	_ = fastClicker(r.callbacks()).Act(context.Background(), image.Pt(1, 1), 0, ButtonSecondary)
	if len(r.calls) != 3 || r.calls[1] != "down secondary" {
		t.Fatalf("calls %v", r.calls)
	}
}

func TestClicker_PressErrorStops(t *testing.T) {
	boom := errors.New("denied")
	r := &recorder{pressErr: boom}
	err := fastClicker(r.callbacks()).Act(context.Background(), image.Pt(1, 1), 2, ButtonPrimary)
	if !errors.Is(err, boom) {
		t.Fatalf("expected press error, got %v", err)
	}
	if len(r.calls) != 2 {
		t.Fatalf("release after failed press: %v", r.calls)
	}
}

func TestClicker_CancelledDuringSettle(t *testing.T) {
	r := &recorder{}
	c := NewClicker(r.callbacks(), discardLogger)
	c.Settle = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Act(ctx, image.Pt(1, 1), 1, ButtonPrimary); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancel, got %v", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("pointer touched after cancel: %v", r.calls)
	}
}

func TestClicker_NoBackend(t *testing.T) {
	if err := fastClicker(Callbacks{}).Act(context.Background(), image.Pt(0, 0), 1, ButtonPrimary); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestParseButton(t *testing.T) {
	cases := map[string]Button{"": ButtonPrimary, "Left": ButtonPrimary, "primary": ButtonPrimary, "RIGHT": ButtonSecondary, " secondary ": ButtonSecondary}
	for in, want := range cases {
		got, err := ParseButton(in)
		if err != nil || got != want {
			t.Fatalf("ParseButton(%q)=%v,%v", in, got, err)
		}
	}
	if _, err := ParseButton("middle"); err == nil {
		t.Fatalf("expected error for middle")
	}
}
