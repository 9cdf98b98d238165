//go:build windows

package action

import (
	"time"

	"golang.org/x/sys/windows"
)

const (
	mouseeventfLeftDown  = 0x0002
	mouseeventfLeftUp    = 0x0004
	mouseeventfRightDown = 0x0008
	mouseeventfRightUp   = 0x0010
)

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procSetCursor   = user32.NewProc("SetCursorPos")
	procMouseEvent  = user32.NewProc("mouse_event")
	settleAfterMove = 10 * time.Millisecond
)

func systemCallbacks() (Callbacks, error) {
	if err := user32.Load(); err != nil {
		return Callbacks{}, err
	}
	return Callbacks{
		MoveCursor: moveCursor,
		Press:      func(b Button) error { return mouseButton(b, true) },
		Release:    func(b Button) error { return mouseButton(b, false) },
	}, nil
}

// moveCursor moves the OS mouse pointer to (x, y) with SetCursorPos.
func moveCursor(x, y int) error {
	r, _, err := procSetCursor.Call(uintptr(x), uintptr(y))
	if r == 0 {
		return err
	}
	time.Sleep(settleAfterMove)
	return nil
}

func mouseButton(b Button, down bool) error {
	var flag uintptr
	switch {
	case b == ButtonSecondary && down:
		flag = mouseeventfRightDown
	case b == ButtonSecondary:
		flag = mouseeventfRightUp
	case down:
		flag = mouseeventfLeftDown
	default:
		flag = mouseeventfLeftUp
	}
	_, _, _ = procMouseEvent.Call(flag, 0, 0, 0, 0)
	return nil
}
