package app

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/pranitsh/keyflare/config"
	rtdebug "github.com/pranitsh/keyflare/debug"
	"github.com/pranitsh/keyflare/domain/activation"
	"github.com/pranitsh/keyflare/ui/theme"
	"github.com/pranitsh/keyflare/ui/view"
)

const (
	tick          = 50 * time.Millisecond
	statsInterval = 5 * time.Second
)

// Application owns the Tk lifecycle: it schedules the UI loop, runs the
// hotkey listener and tears everything down on exit.
type Application struct {
	title   string
	store   *config.Store
	logger  *slog.Logger
	c       *Container
	ctx     context.Context
	cancel  context.CancelFunc
	afterID string
	exiting bool
}

// NewApp builds the container. Tk widgets are created in Start.
func NewApp(title string, store *config.Store, logger *slog.Logger) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c, err := BuildContainer(ctx, store, logger)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Application{title: title, store: store, logger: logger, c: c, ctx: ctx, cancel: cancel}, nil
}

// Start blocks in the Tk main loop until exit.
func (a *Application) Start() {
	cfg := a.store.Get()
	theme.SetDark(cfg.DarkTheme)
	theme.InitStyles()
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exit)

	if cfg.StatusWindow {
		a.c.Status.Build(view.StatusHandlers{
			ToggleArmed: a.c.ArmPresenter.Toggle,
			CaptureArea: a.c.CaptureArea.OpenOrFocus,
			Preferences: a.c.Preferences.Open,
			Exit:        a.exit,
		}, a.c.Armed.Armed())
	} else {
		WmWithdraw(App)
	}

	a.c.Loop.Schedule = a.scheduleUpdate
	a.c.Runner.OnExit(func() { a.c.Loop.Post(a.exit) })
	if cfg.Debug {
		rtdebug.StartRuntimeLogger(a.ctx, statsInterval, a.logger)
	}
	go a.listen()
	if a.c.Chord != nil {
		go a.listenChord()
	}

	a.scheduleUpdate()
	App.Wait()
	a.shutdown()
}

func (a *Application) listen() {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("hotkey listener panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	a.logger.Info("listening for hotkeys", "bindings", len(a.c.Bindings))
	err := a.c.Listener.Listen(a.ctx, a.c.Bindings, a.c.Fire)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return
	case errors.Is(err, activation.ErrUnsupported):
		a.logger.Warn("global hotkeys unavailable on this platform", "error", err)
	default:
		a.logger.Error("hotkey listener stopped", "error", err)
	}
	// without hotkeys a hidden root window leaves nothing to interact with
	if !a.store.Get().StatusWindow {
		a.c.Loop.Post(a.exit)
	}
}

func (a *Application) listenChord() {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("pointer chord listener panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	a.logger.Info("listening for pointer chord")
	if err := a.c.Chord.Listen(a.ctx, a.c.Fire); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("pointer chord listener stopped", "error", err)
	}
}

func (a *Application) scheduleUpdate() {
	if a.exiting {
		return
	}
	a.afterID = TclAfter(tick, a.c.Loop.Tick)
}

// exit runs on the Tk thread.
func (a *Application) exit() {
	if a.exiting {
		return
	}
	a.exiting = true
	a.logger.Info("exiting")
	a.cancel()
	a.c.Loop.Close()
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	Destroy(App)
}

func (a *Application) shutdown() {
	a.cancel()
	a.c.Loop.Close()
	a.c.Runner.Wait()
	if cl, ok := a.c.Actuator.(interface{ Close() error }); ok {
		if err := cl.Close(); err != nil {
			a.logger.Warn("pointer backend close failed", "error", err)
		}
	}
}
