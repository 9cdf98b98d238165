package selection

import (
	"context"
	"errors"
	"image"

	"github.com/pranitsh/keyflare/domain/geometry"
)

// State enumerates the phases of a selection session.
type State int

const (
	StateActive State = iota
	StateResolved
	StateExhausted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool { return s != StateActive }

// Candidate is one region still reachable by typing Suffix.
type Candidate struct {
	Code   string
	Suffix string
	Region geometry.Region
	Index  int
}

// Typed returns the part of the code already consumed.
func (c Candidate) Typed() string { return c.Code[:len(c.Code)-len(c.Suffix)] }

// Input is one event from the input source: a character or a cancel.
type Input struct {
	Char   rune
	Cancel bool
}

// Key wraps a typed character.
func Key(r rune) Input { return Input{Char: r} }

// CancelInput is the explicit cancel signal.
var CancelInput = Input{Cancel: true}

// ErrNoPort is returned when Run is called without a render/input port.
var ErrNoPort = errors.New("selection: no port")

// Port is the render surface and input source for one session. Render and
// AwaitInput are called strictly alternately from a single goroutine.
type Port interface {
	// Render shows the remaining candidates over base.
	Render(ctx context.Context, base image.Image, remaining []Candidate) error
	// AwaitInput blocks for the next character or cancel, or until ctx ends.
	AwaitInput(ctx context.Context) (Input, error)
	// Dismiss tears down whatever Render put on screen.
	Dismiss()
}

// Outcome summarises a finished session.
type Outcome struct {
	State    State
	Region   geometry.Region
	Code     string
	Index    int
	Consumed int
	Renders  int
}

// StateListener is called on each state change.
type StateListener func(prev, next State)
