//go:build linux

package action

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
)

const (
	xButtonPress   = 4
	xButtonRelease = 5
)

// systemCallbacks drives the pointer through the XTEST extension.
func systemCallbacks() (Callbacks, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return Callbacks{}, fmt.Errorf("connect to X server: %w", err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return Callbacks{}, fmt.Errorf("xtest extension: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	fake := func(kind byte, b Button) error {
		return xtest.FakeInputChecked(conn, kind, xButton(b), 0, root, 0, 0, 0).Check()
	}
	return Callbacks{
		MoveCursor: func(x, y int) error {
			return xproto.WarpPointerChecked(conn, 0, root, 0, 0, 0, 0, int16(x), int16(y)).Check()
		},
		Press:   func(b Button) error { return fake(xButtonPress, b) },
		Release: func(b Button) error { return fake(xButtonRelease, b) },
		Close: func() error {
			conn.Close()
			return nil
		},
	}, nil
}

func xButton(b Button) byte {
	if b == ButtonSecondary {
		return 3
	}
	return 1
}
