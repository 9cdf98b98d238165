package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/pranitsh/keyflare/config"
	"github.com/pranitsh/keyflare/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// CaptureArea is a see-through window the user moves and resizes over the
// part of the screen that should be captured. Confirming stores the window
// geometry as the capture rectangle.
type CaptureArea struct {
	logger *slog.Logger
	store  *config.Store
	win    *ToplevelWidget
}

func NewCaptureArea(store *config.Store, logger *slog.Logger) *CaptureArea {
	return &CaptureArea{logger: logger, store: store}
}

// OpenOrFocus must run on the Tk thread.
func (v *CaptureArea) OpenOrFocus() {
	if v.win != nil {
		win := v.win
		takeFocus(win.Window, func() bool { return v.win == win })
		return
	}
	tint := theme.CurrentPalette().AreaTint
	win := App.Toplevel(Borderwidth(2), Background(tint))
	win.WmTitle("Capture Area")
	v.win = win
	geom := "960x600+200+150"
	if r := v.store.CaptureRect(); r != nil {
		geom = fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
	}
	WmGeometry(win.Window, geom)
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.45)
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.cancel)
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(1))
	center := win.Frame(Background(tint))
	Grid(center, Row(0), Column(0), Columnspan(3), Sticky("nsew"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	confirm := win.Button(Txt("Confirm [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.cancel))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	clear := win.Button(Txt("Full Screen"), Command(v.clear))
	Grid(clear, In(controls), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.cancel))
	takeFocus(win.Window, func() bool { return v.win == win })
}

func (v *CaptureArea) clear() {
	v.update(image.Rectangle{})
	v.destroy()
}

func (v *CaptureArea) confirm() {
	if v.win == nil {
		return
	}
	if rect, ok := parseGeometry(WmGeometry(v.win.Window)); ok {
		v.update(rect)
	}
	v.destroy()
}

func (v *CaptureArea) update(rect image.Rectangle) {
	err := v.store.Update(func(c *config.Config) {
		c.SelectionX, c.SelectionY = rect.Min.X, rect.Min.Y
		c.SelectionW, c.SelectionH = rect.Dx(), rect.Dy()
	})
	if v.logger == nil {
		return
	}
	if err != nil {
		v.logger.Error("config save failed", "error", err)
		return
	}
	v.logger.Info("capture area set", "rect", rect.String())
}

func (v *CaptureArea) cancel() { v.destroy() }

func (v *CaptureArea) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y"
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// parseGeometry parses a Tk geometry string and returns the corresponding rectangle.
func parseGeometry(g string) (image.Rectangle, bool) {
	g = strings.TrimSpace(g)
	m := geomRe.FindStringSubmatch(g)
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
