package presenter

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// ErrLoopClosed is returned by Call once the loop has shut down.
var ErrLoopClosed = errors.New("ui loop closed")

// Loop runs queued UI work and drives periodic presenter updates on the
// Tk thread. Post and Call may be used from any goroutine; Tick must only
// run on the Tk thread. The zero value is usable (methods are nil-safe).
type Loop struct {
	State    *StatePresenter
	Stats    *StatsPresenter
	Schedule func()
	Logger   *slog.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool
}

func NewLoop(state *StatePresenter, stats *StatsPresenter, logger *slog.Logger, schedule func()) *Loop {
	return &Loop{State: state, Stats: stats, Logger: logger, Schedule: schedule}
}

// Post queues fn for the next Tick. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if l == nil || fn == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.queue = append(l.queue, fn)
	return true
}

// Call runs fn on the Tk thread and waits for it, or for ctx.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if !l.Post(func() { done <- fn() }) {
		return ErrLoopClosed
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drops pending work and rejects further posts.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.mu.Lock()
	work := l.queue
	l.queue = nil
	l.mu.Unlock()
	for _, fn := range work {
		l.run(fn)
	}
	now := time.Now()
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Stats != nil {
		l.Stats.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.Logger != nil {
			l.Logger.Error("ui task panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
