package view

import (
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// refocusDelays repeat the forced focus after the window manager has mapped
// the toplevel; the first request is often lost while another application
// owns the keyboard.
var refocusDelays = []time.Duration{time.Millisecond, 50 * time.Millisecond}

// takeFocus raises w above every other window and forces the keyboard focus
// away from whichever application currently holds it. Tk thread only.
func takeFocus(w *Window, alive func() bool) {
	Raise(w)
	Focus("-force", w)
	for _, d := range refocusDelays {
		TclAfter(d, func() {
			if alive() {
				Focus("-force", w)
			}
		})
	}
}
