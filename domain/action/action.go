package action

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// ParseButton accepts "primary"/"left" and "secondary"/"right".
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary", "left":
		return ButtonPrimary, nil
	case "secondary", "right":
		return ButtonSecondary, nil
	default:
		return ButtonPrimary, fmt.Errorf("unknown button %q", s)
	}
}

// ErrUnsupported is returned where no pointer backend exists.
var ErrUnsupported = errors.New("pointer actuation not supported on this platform")

// Actuator moves the pointer to p and clicks.
type Actuator interface {
	Act(ctx context.Context, p image.Point, clicks int, button Button) error
}

// Callbacks externalize the OS pointer calls.
type Callbacks struct {
	MoveCursor func(x, y int) error
	Press      func(Button) error
	Release    func(Button) error
	Close      func() error
}

// Clicker sequences move, settle and click calls over Callbacks.
type Clicker struct {
	cb     Callbacks
	logger *slog.Logger
	// Settle is waited before moving so overlays have time to disappear.
	Settle time.Duration
	// Hold is the time between press and release.
	Hold time.Duration
	// Interval separates consecutive clicks of a multi-click.
	Interval time.Duration
}

// NewClicker returns a Clicker with default timings.
func NewClicker(cb Callbacks, logger *slog.Logger) *Clicker {
	return &Clicker{cb: cb, logger: logger, Settle: 150 * time.Millisecond, Hold: 30 * time.Millisecond, Interval: 40 * time.Millisecond}
}

// NewSystem returns a Clicker bound to the platform pointer backend.
func NewSystem(logger *slog.Logger) (*Clicker, error) {
	cb, err := systemCallbacks()
	if err != nil {
		return nil, err
	}
	return NewClicker(cb, logger), nil
}

func (c *Clicker) Act(ctx context.Context, p image.Point, clicks int, button Button) error {
	if c.cb.MoveCursor == nil || c.cb.Press == nil || c.cb.Release == nil {
		return ErrUnsupported
	}
	if clicks < 1 {
		clicks = 1
	}
	if err := sleep(ctx, c.Settle); err != nil {
		return err
	}
	if err := c.cb.MoveCursor(p.X, p.Y); err != nil {
		return fmt.Errorf("move cursor: %w", err)
	}
	for i := 0; i < clicks; i++ {
		if i > 0 {
			if err := sleep(ctx, c.Interval); err != nil {
				return err
			}
		}
		if err := c.cb.Press(button); err != nil {
			return fmt.Errorf("press %s: %w", button, err)
		}
		time.Sleep(c.Hold)
		if err := c.cb.Release(button); err != nil {
			return fmt.Errorf("release %s: %w", button, err)
		}
	}
	if c.logger != nil {
		c.logger.Info("click executed", "x", p.X, "y", p.Y, "clicks", clicks, "button", button.String())
	}
	return nil
}

// Close releases the backend connection, if any.
func (c *Clicker) Close() error {
	if c.cb.Close == nil {
		return nil
	}
	return c.cb.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ Actuator = (*Clicker)(nil)
