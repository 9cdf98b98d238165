package view

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/pranitsh/keyflare/domain/selection"
	"github.com/pranitsh/keyflare/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Overlay shows the captured screen with a code badge over every remaining
// candidate and turns key presses into selection input. Render, AwaitInput
// and Dismiss run on the pipeline goroutine; widget work is posted to the
// Tk thread through the dispatcher.
type Overlay struct {
	ui     Dispatcher
	style  func() images.BadgeStyle
	origin func() image.Point
	logger *slog.Logger
	inputs chan selection.Input

	mu      sync.Mutex
	frame   *image.RGBA // composed frame currently on screen
	session bool        // a Render happened since the last Dismiss
	win     *ToplevelWidget
	label   *LabelWidget
	photo   *Img
}

// NewOverlay returns an overlay. style is read on every render; origin
// gives the screen position of the captured image.
func NewOverlay(ui Dispatcher, style func() images.BadgeStyle, origin func() image.Point, logger *slog.Logger) *Overlay {
	return &Overlay{ui: ui, style: style, origin: origin, logger: logger, inputs: make(chan selection.Input, 1)}
}

func (o *Overlay) Render(ctx context.Context, base image.Image, remaining []selection.Candidate) error {
	if base == nil {
		return fmt.Errorf("overlay: no base image")
	}
	badges := make([]images.Badge, len(remaining))
	for i, c := range remaining {
		badges[i] = images.Badge{Text: c.Suffix, At: c.Region.Min()}
	}
	frame := images.ComposeBadges(base, badges, o.style())
	png := images.EncodePNG(frame)
	at := image.Point{}
	if o.origin != nil {
		at = o.origin()
	}
	size := frame.Rect.Size()
	o.mu.Lock()
	prev := o.frame
	o.frame = frame
	fresh := !o.session
	o.session = true
	o.mu.Unlock()
	images.RecycleFrame(prev)
	if fresh {
		o.drain()
	}

	done := make(chan struct{})
	if !o.ui.Post(func() {
		defer close(done)
		o.show(png, at, size)
	}) {
		return ErrUIClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Overlay) AwaitInput(ctx context.Context) (selection.Input, error) {
	select {
	case in := <-o.inputs:
		return in, nil
	case <-ctx.Done():
		return selection.Input{}, ctx.Err()
	}
}

func (o *Overlay) Dismiss() {
	o.mu.Lock()
	frame := o.frame
	o.frame = nil
	o.session = false
	o.mu.Unlock()
	o.ui.Post(func() {
		o.hide()
		images.RecycleFrame(frame)
	})
}

// drain drops keys left over from a previous session.
func (o *Overlay) drain() {
	for {
		select {
		case <-o.inputs:
		default:
			return
		}
	}
}

// show runs on the Tk thread.
func (o *Overlay) show(png []byte, at image.Point, size image.Point) {
	photo := NewPhoto(Data(png))
	fresh := o.win == nil
	if fresh {
		o.win = App.Toplevel(Borderwidth(0))
		o.win.WmTitle("keyflare")
		WmAttributes(o.win.Window, "-topmost", 1)
		o.label = o.win.Label(Image(photo), Borderwidth(0))
		Pack(o.label)
		WmProtocol(o.win.Window, "WM_DELETE_WINDOW", func() { o.send(selection.CancelInput) })
		Bind(o.win, "<KeyPress>", Command(func(e *Event) { o.onKey(e.Keysym) }))
	} else {
		o.label.Configure(Image(photo))
	}
	if o.photo != nil {
		o.photo.Delete()
	}
	o.photo = photo
	WmGeometry(o.win.Window, fmt.Sprintf("%dx%d+%d+%d", size.X, size.Y, at.X, at.Y))
	if fresh {
		win := o.win
		takeFocus(win.Window, func() bool { return o.win == win })
		GrabSet(win.Window)
	}
}

// hide runs on the Tk thread.
func (o *Overlay) hide() {
	if o.win != nil {
		GrabRelease(o.win.Window)
		Destroy(o.win)
		o.win, o.label = nil, nil
	}
	// keys typed while the window was closing
	o.drain()
	if o.photo != nil {
		o.photo.Delete()
		o.photo = nil
	}
}

func (o *Overlay) onKey(keysym string) {
	if in, ok := keyInput(keysym); ok {
		o.send(in)
	}
}

// send delivers at most one pending input; extra keys typed before the next
// render are dropped.
func (o *Overlay) send(in selection.Input) {
	select {
	case o.inputs <- in:
	default:
		if o.logger != nil {
			o.logger.Debug("overlay input dropped", "char", string(in.Char), "cancel", in.Cancel)
		}
	}
}

// keyInput maps a Tk keysym to a selection input. Modifier and navigation
// keys map to nothing.
func keyInput(keysym string) (selection.Input, bool) {
	if keysym == "Escape" {
		return selection.CancelInput, true
	}
	if utf8.RuneCountInString(keysym) == 1 {
		r, _ := utf8.DecodeRuneInString(keysym)
		return selection.Key(r), true
	}
	return selection.Input{}, false
}

var _ selection.Port = (*Overlay)(nil)
