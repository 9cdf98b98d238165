//go:build windows

package activation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	wmHotkey   = 0x0312
	wmQuit     = 0x0012
	modAlt     = 0x0001
	modControl = 0x0002
	modShift   = 0x0004
	modWin     = 0x0008
	modNoRep   = 0x4000
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

type winMsg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type win32Listener struct{ logger *slog.Logger }

// NewSystemListener returns the RegisterHotKey listener.
func NewSystemListener(logger *slog.Logger) Listener { return &win32Listener{logger: logger} }

func (l *win32Listener) Listen(ctx context.Context, bindings []Binding, fire func(Trigger)) error {
	if err := Validate(bindings); err != nil {
		return err
	}
	type started struct {
		tid uint32
		err error
	}
	ready := make(chan started, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// hotkey messages are posted to the registering thread
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			if r := recover(); r != nil && l.logger != nil {
				l.logger.Error("hotkey loop panic", "panic", r, "stack", string(debug.Stack()))
			}
		}()
		registered := 0
		defer func() {
			for id := 1; id <= registered; id++ {
				procUnregisterHotKey.Call(0, uintptr(id))
			}
		}()
		for i, b := range bindings {
			vk, ok := virtualKey(b.Hotkey.Key)
			if !ok {
				ready <- started{err: fmt.Errorf("hotkey %s: no virtual key", b.Hotkey)}
				return
			}
			r, _, err := procRegisterHotKey.Call(0, uintptr(i+1), uintptr(win32Mods(b.Hotkey.Mods)|modNoRep), uintptr(vk))
			if r == 0 {
				ready <- started{err: fmt.Errorf("register hotkey %s: %w", b.Hotkey, err)}
				return
			}
			registered++
		}
		ready <- started{tid: windows.GetCurrentThreadId()}
		var msg winMsg
		for {
			r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(r) <= 0 {
				return
			}
			if msg.Message != wmHotkey {
				continue
			}
			id := int(msg.WParam)
			if id >= 1 && id <= len(bindings) {
				if l.logger != nil {
					l.logger.Debug("hotkey pressed", "hotkey", bindings[id-1].Hotkey.String())
				}
				fire(bindings[id-1].Trigger)
			}
		}
	}()

	st := <-ready
	if st.err != nil {
		<-done
		return st.err
	}
	if l.logger != nil {
		l.logger.Info("hotkeys registered", "count", len(bindings))
	}
	select {
	case <-ctx.Done():
		procPostThreadMessageW.Call(uintptr(st.tid), wmQuit, 0, 0)
		<-done
		return ctx.Err()
	case <-done:
		return fmt.Errorf("hotkey message loop exited")
	}
}

func win32Mods(m Modifier) uint32 {
	var out uint32
	if m&ModAlt != 0 {
		out |= modAlt
	}
	if m&ModCtrl != 0 {
		out |= modControl
	}
	if m&ModShift != 0 {
		out |= modShift
	}
	if m&ModSuper != 0 {
		out |= modWin
	}
	return out
}

// virtualKey converts a parsed key into a Windows virtual key code.
func virtualKey(k string) (uint32, bool) {
	if n, ok := functionKey(k); ok && n >= 1 && n <= 12 {
		return uint32(0x70 + n - 1), true // VK_F1=0x70
	}
	switch k {
	case "space":
		return 0x20, true
	case "escape":
		return 0x1B, true
	}
	if len(k) == 1 {
		c := k[0]
		if c >= 'a' && c <= 'z' {
			return uint32(c - 'a' + 'A'), true // 'A'..'Z' match VK codes
		}
		if c >= '0' && c <= '9' {
			return uint32(c), true
		}
	}
	return 0, false
}
