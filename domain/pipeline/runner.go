package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/pranitsh/keyflare/domain/activation"
)

var errNoExtractor = errors.New("no extractor configured")

// Executor performs one run.
type Executor interface {
	Execute(ctx context.Context, trig activation.Trigger) (Result, error)
}

// ResultListener observes finished runs. err is nil on success.
type ResultListener func(res Result, err error)

// Runner admits at most one run at a time. Triggers arriving while a run is
// active are dropped with ErrBusy.
type Runner struct {
	ctx       context.Context
	exec      Executor
	logger    *slog.Logger
	busy      atomic.Bool
	armed     atomic.Bool
	wg        sync.WaitGroup
	mu        sync.Mutex
	listeners []ResultListener
	onExit    func()
}

// NewRunner returns an armed Runner. Runs inherit ctx.
func NewRunner(ctx context.Context, exec Executor, logger *slog.Logger) *Runner {
	r := &Runner{ctx: ctx, exec: exec, logger: logger}
	r.armed.Store(true)
	return r
}

func (r *Runner) AddListener(l ResultListener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// OnExit sets the callback used when a run asks the host to shut down.
func (r *Runner) OnExit(fn func()) {
	r.mu.Lock()
	r.onExit = fn
	r.mu.Unlock()
}

func (r *Runner) SetArmed(v bool) {
	r.armed.Store(v)
	if r.logger != nil {
		r.logger.Info("runner armed changed", "armed", v)
	}
}

func (r *Runner) Armed() bool { return r.armed.Load() }
func (r *Runner) Busy() bool  { return r.busy.Load() }

// Trigger starts a run in the background unless one is already running.
func (r *Runner) Trigger(trig activation.Trigger) error {
	if !r.armed.Load() {
		return ErrDisarmed
	}
	if !r.busy.CompareAndSwap(false, true) {
		if r.logger != nil {
			r.logger.Debug("trigger ignored, run in progress")
		}
		return ErrBusy
	}
	r.wg.Add(1)
	go r.run(trig)
	return nil
}

// Fire adapts Trigger to an activation listener callback.
func (r *Runner) Fire(trig activation.Trigger) { _ = r.Trigger(trig) }

// Wait blocks until the in-flight run, if any, has finished.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) run(trig activation.Trigger) {
	defer r.wg.Done()
	var (
		res Result
		err error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				if r.logger != nil {
					r.logger.Error("run panic", "panic", rec, "stack", string(debug.Stack()))
				}
				id := ""
				if res.Run != nil {
					id = res.Run.ID
				}
				err = &RunError{Stage: StagePanic, RunID: id, Err: fmt.Errorf("%v", rec)}
			}
		}()
		res, err = r.exec.Execute(r.ctx, trig)
	}()
	r.busy.Store(false)

	r.mu.Lock()
	listeners := append([]ResultListener(nil), r.listeners...)
	onExit := r.onExit
	r.mu.Unlock()
	for _, l := range listeners {
		l(res, err)
	}
	if res.Exit && onExit != nil {
		if r.logger != nil {
			r.logger.Info("exit requested by fallback")
		}
		onExit()
	}
}
