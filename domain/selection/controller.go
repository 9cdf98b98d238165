package selection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pranitsh/keyflare/domain/label"
)

// Controller narrows a code map one character at a time. It is owned by a
// single pipeline run and is not safe for concurrent use.
type Controller struct {
	state     State
	remaining []Candidate
	consumed  int
	length    int
	chosen    Candidate
	renders   int
	logger    *slog.Logger
	listeners []StateListener
}

// NewController starts a session over entries. An empty code map is
// exhausted immediately.
func NewController(entries []label.Entry, logger *slog.Logger, listeners ...StateListener) *Controller {
	c := &Controller{state: StateActive, logger: logger, listeners: listeners}
	c.remaining = make([]Candidate, len(entries))
	for i, e := range entries {
		c.remaining[i] = Candidate{Code: e.Code, Suffix: e.Code, Region: e.Region, Index: e.Index}
	}
	if len(entries) > 0 {
		c.length = utf8.RuneCountInString(entries[0].Code)
	} else {
		c.transition(StateExhausted)
	}
	return c
}

func (c *Controller) State() State  { return c.state }
func (c *Controller) Consumed() int { return c.consumed }

// Remaining returns a copy of the candidates still in play.
func (c *Controller) Remaining() []Candidate {
	out := make([]Candidate, len(c.remaining))
	copy(out, c.remaining)
	return out
}

// Feed consumes one character. Input after a terminal state is ignored.
func (c *Controller) Feed(r rune) State {
	if c.state != StateActive {
		return c.state
	}
	want := unicode.ToLower(r)
	kept := c.remaining[:0]
	for _, cand := range c.remaining {
		first, size := utf8.DecodeRuneInString(cand.Suffix)
		if size == 0 || unicode.ToLower(first) != want {
			continue
		}
		cand.Suffix = cand.Suffix[size:]
		kept = append(kept, cand)
	}
	c.remaining = kept
	c.consumed++

	switch {
	case len(kept) == 0:
		c.transition(StateExhausted)
	case len(kept) == 1 && kept[0].Suffix == "":
		c.chosen = kept[0]
		c.transition(StateResolved)
	case c.consumed >= c.length:
		c.transition(StateExhausted)
	}
	return c.state
}

// Cancel ends an active session without a choice.
func (c *Controller) Cancel() State {
	if c.state == StateActive {
		c.transition(StateCancelled)
	}
	return c.state
}

// Outcome reports the current result.
func (c *Controller) Outcome() Outcome {
	o := Outcome{State: c.state, Consumed: c.consumed, Renders: c.renders, Index: -1}
	if c.state == StateResolved {
		o.Region = c.chosen.Region
		o.Code = c.chosen.Code
		o.Index = c.chosen.Index
	}
	return o
}

// Run drives the session through port until a terminal state: one render,
// then one input, per step. A step that outlives stepTimeout (when positive)
// or a cancelled ctx ends the session as cancelled. Any other port error
// aborts the session and is returned.
func (c *Controller) Run(ctx context.Context, port Port, base image.Image, stepTimeout time.Duration) (Outcome, error) {
	if c.state != StateActive {
		return c.Outcome(), nil
	}
	if port == nil {
		return c.Outcome(), ErrNoPort
	}
	defer port.Dismiss()
	for c.state == StateActive {
		if err := ctx.Err(); err != nil {
			c.logCancel("context done", err)
			c.Cancel()
			break
		}
		if err := port.Render(ctx, base, c.Remaining()); err != nil {
			if ctxDone(err) {
				c.logCancel("render interrupted", err)
				c.Cancel()
				break
			}
			return c.Outcome(), fmt.Errorf("render: %w", err)
		}
		c.renders++
		in, err := c.await(ctx, port, stepTimeout)
		if err != nil {
			if ctxDone(err) {
				c.logCancel("input wait ended", err)
				c.Cancel()
				break
			}
			return c.Outcome(), fmt.Errorf("await input: %w", err)
		}
		if in.Cancel {
			c.Cancel()
			continue
		}
		c.Feed(in.Char)
	}
	return c.Outcome(), nil
}

func (c *Controller) await(ctx context.Context, port Port, timeout time.Duration) (Input, error) {
	if timeout <= 0 {
		return port.AwaitInput(ctx)
	}
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return port.AwaitInput(stepCtx)
}

func ctxDone(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func (c *Controller) logCancel(msg string, err error) {
	if c.logger != nil {
		c.logger.Debug("selection "+msg, "error", err, "consumed", c.consumed)
	}
}

func (c *Controller) transition(next State) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next
	if c.logger != nil {
		c.logger.Debug("selection state transition", "from", prev.String(), "to", next.String(), "remaining", len(c.remaining))
	}
	for _, l := range c.listeners {
		l(prev, next)
	}
}
