//go:build linux

package activation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// lock and num-lock variants are grabbed too so the hotkeys fire regardless
var ignoredMods = []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}

type x11Listener struct{ logger *slog.Logger }

// NewSystemListener returns the X11 GrabKey listener.
func NewSystemListener(logger *slog.Logger) Listener { return &x11Listener{logger: logger} }

type grabKey struct {
	code xproto.Keycode
	mods uint16
}

func (l *x11Listener) Listen(ctx context.Context, bindings []Binding, fire func(Trigger)) error {
	if err := Validate(bindings); err != nil {
		return err
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root
	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, byte(setup.MaxKeycode-setup.MinKeycode+1)).Reply()
	if err != nil {
		conn.Close()
		return fmt.Errorf("keyboard mapping: %w", err)
	}

	grabs := make(map[grabKey]Trigger, len(bindings))
	for _, b := range bindings {
		code, ok := keycodeFor(mapping, setup.MinKeycode, xproto.Keysym(keysym(b.Hotkey.Key)))
		if !ok {
			conn.Close()
			return fmt.Errorf("hotkey %s: key not on keyboard", b.Hotkey)
		}
		mods := x11Mods(b.Hotkey.Mods)
		for _, extra := range ignoredMods {
			err := xproto.GrabKeyChecked(conn, true, root, mods|extra, code, xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
			if err != nil {
				conn.Close()
				return fmt.Errorf("grab %s: %w", b.Hotkey, err)
			}
		}
		grabs[grabKey{code: code, mods: mods}] = b.Trigger
	}
	if l.logger != nil {
		l.logger.Info("hotkeys registered", "count", len(bindings))
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("X connection closed")
		}
		if xerr != nil {
			if l.logger != nil {
				l.logger.Warn("x11 error", "error", xerr.Error())
			}
			continue
		}
		kp, ok := ev.(xproto.KeyPressEvent)
		if !ok {
			continue
		}
		state := kp.State &^ (xproto.ModMaskLock | xproto.ModMask2)
		if trig, ok := grabs[grabKey{code: kp.Detail, mods: state}]; ok {
			if l.logger != nil {
				l.logger.Debug("hotkey pressed", "keycode", kp.Detail, "state", state)
			}
			fire(trig)
		}
	}
}

func x11Mods(m Modifier) uint16 {
	var out uint16
	if m&ModShift != 0 {
		out |= xproto.ModMaskShift
	}
	if m&ModCtrl != 0 {
		out |= xproto.ModMaskControl
	}
	if m&ModAlt != 0 {
		out |= xproto.ModMask1
	}
	if m&ModSuper != 0 {
		out |= xproto.ModMask4
	}
	return out
}

func keycodeFor(m *xproto.GetKeyboardMappingReply, first xproto.Keycode, sym xproto.Keysym) (xproto.Keycode, bool) {
	per := int(m.KeysymsPerKeycode)
	if per == 0 || sym == 0 {
		return 0, false
	}
	for i := 0; i*per < len(m.Keysyms); i++ {
		for j := 0; j < per; j++ {
			if m.Keysyms[i*per+j] == sym {
				return xproto.Keycode(int(first) + i), true
			}
		}
	}
	return 0, false
}
