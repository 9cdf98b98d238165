//go:build linux

package activation

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// systemButtons reads the pointer button mask with QueryPointer. Sampling
// leaves clicks untouched for other clients, which a passive button grab
// would not.
func systemButtons() (ButtonReader, func() error, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, nil, fmt.Errorf("connect to X server: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	read := func() (bool, bool, error) {
		reply, err := xproto.QueryPointer(conn, root).Reply()
		if err != nil {
			return false, false, err
		}
		return reply.Mask&xproto.KeyButMaskButton1 != 0, reply.Mask&xproto.KeyButMaskButton3 != 0, nil
	}
	return read, func() error { conn.Close(); return nil }, nil
}
