package activation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pranitsh/keyflare/domain/action"
)

// ChordTrigger is what a primary+secondary button chord asks for.
var ChordTrigger = Trigger{Clicks: 1, Button: action.ButtonPrimary}

// DefaultChordInterval is how often pointer buttons are sampled.
const DefaultChordInterval = 15 * time.Millisecond

// Chord detects both pointer buttons going down together. It fires once per
// chord; holding both buttons does not repeat, but releasing either one and
// pressing it again while the other is held fires again.
type Chord struct {
	held bool
}

// Observe takes one button sample and reports whether it completes a chord.
func (c *Chord) Observe(primary, secondary bool) bool {
	both := primary && secondary
	fire := both && !c.held
	c.held = both
	return fire
}

// ButtonReader samples the primary and secondary pointer buttons.
type ButtonReader func() (primary, secondary bool, err error)

// ChordListener polls a ButtonReader and fires ChordTrigger on each chord.
type ChordListener struct {
	read     ButtonReader
	close    func() error
	logger   *slog.Logger
	Interval time.Duration
}

// NewChordListener polls read; closeFn, when set, runs when Listen returns.
func NewChordListener(read ButtonReader, closeFn func() error, logger *slog.Logger) *ChordListener {
	return &ChordListener{read: read, close: closeFn, logger: logger, Interval: DefaultChordInterval}
}

// NewSystemChordListener returns a listener over the platform pointer state.
func NewSystemChordListener(logger *slog.Logger) (*ChordListener, error) {
	read, closeFn, err := systemButtons()
	if err != nil {
		return nil, err
	}
	return NewChordListener(read, closeFn, logger), nil
}

// Listen samples until ctx ends or the reader fails. fire must not block.
func (l *ChordListener) Listen(ctx context.Context, fire func(Trigger)) error {
	if l.close != nil {
		defer l.close()
	}
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultChordInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	var chord Chord
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		primary, secondary, err := l.read()
		if err != nil {
			return fmt.Errorf("read pointer buttons: %w", err)
		}
		if chord.Observe(primary, secondary) {
			if l.logger != nil {
				l.logger.Debug("pointer chord")
			}
			fire(ChordTrigger)
		}
	}
}
