package activation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pranitsh/keyflare/domain/action"
)

func TestChord_Observe(t *testing.T) {
	type sample struct{ primary, secondary, fire bool }
	cases := []struct {
		name    string
		samples []sample
	}{
		{"left then right", []sample{{true, false, false}, {true, true, true}}},
		{"held does not repeat", []sample{{true, true, true}, {true, true, false}, {true, true, false}}},
		{"re-press right while left held", []sample{{true, true, true}, {true, false, false}, {true, true, true}}},
		{"single buttons never fire", []sample{{true, false, false}, {false, true, false}, {false, false, false}}},
		{"release both and chord again", []sample{{true, true, true}, {false, false, false}, {true, true, true}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var ch Chord
			for i, s := range c.samples {
				if got := ch.Observe(s.primary, s.secondary); got != s.fire {
					t.Fatalf("sample %d (%v,%v): fire=%v want %v", i, s.primary, s.secondary, got, s.fire)
				}
			}
		})
	}
}

// scriptedButtons replays samples, then reports both buttons released.
type scriptedButtons struct {
	mu      sync.Mutex
	samples [][2]bool
	err     error
}

func (s *scriptedButtons) read() (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return false, false, s.err
	}
	next := s.samples[0]
	s.samples = s.samples[1:]
	return next[0], next[1], nil
}

func TestChordListener_FiresOncePerChord(t *testing.T) {
	src := &scriptedButtons{samples: [][2]bool{{true, false}, {true, true}, {true, true}, {false, false}, {true, true}}}
	closed := false
	l := NewChordListener(src.read, func() error { closed = true; return nil }, nil)
	l.Interval = time.Millisecond

	var mu sync.Mutex
	var got []Trigger
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- l.Listen(ctx, func(tr Trigger) {
			mu.Lock()
			got = append(got, tr)
			mu.Unlock()
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 chords, got %d", n)
		}
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("listen: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected exactly 2 chords, got %d", len(got))
	}
	if got[0].Clicks != 1 || got[0].Button != action.ButtonPrimary {
		t.Fatalf("unexpected trigger %+v", got[0])
	}
	if !closed {
		t.Fatalf("reader not closed")
	}
}

func TestChordListener_ReaderErrorStops(t *testing.T) {
	boom := errors.New("display gone")
	l := NewChordListener((&scriptedButtons{err: boom}).read, nil, nil)
	l.Interval = time.Millisecond
	err := l.Listen(context.Background(), func(Trigger) { t.Fatalf("fired on error") })
	if !errors.Is(err, boom) {
		t.Fatalf("expected reader error, got %v", err)
	}
}
