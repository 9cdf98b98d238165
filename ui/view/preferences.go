package view

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pranitsh/keyflare/config"
	"github.com/pranitsh/keyflare/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Preferences is the window shown when a selection finds nothing. It lets
// the user pick the badge colour, tune detection fields, continue, or exit
// the program. It satisfies pipeline.Fallback.
type Preferences struct {
	ui     Dispatcher
	store  *config.Store
	logger *slog.Logger

	// Tk thread only
	win     *ToplevelWidget
	swatch  *LabelWidget
	widgets map[string]*TextWidget
	result  chan bool
}

func NewPreferences(ui Dispatcher, store *config.Store, logger *slog.Logger) *Preferences {
	return &Preferences{ui: ui, store: store, logger: logger, widgets: make(map[string]*TextWidget)}
}

// Show opens the window and blocks until the user continues (false) or
// asks to exit (true).
func (p *Preferences) Show(ctx context.Context) (bool, error) {
	result := make(chan bool, 1)
	if !p.ui.Post(func() { p.open(result) }) {
		return false, ErrUIClosed
	}
	select {
	case exit := <-result:
		return exit, nil
	case <-ctx.Done():
		p.ui.Post(func() { p.close(false) })
		return false, ctx.Err()
	}
}

// Open shows the window without waiting. Must run on the Tk thread.
func (p *Preferences) Open() { p.open(nil) }

func (p *Preferences) open(result chan bool) {
	if p.win != nil {
		// already open: adopt the new waiter, release the old one
		p.finish(false)
		p.result = result
		win := p.win
		takeFocus(win.Window, func() bool { return p.win == win })
		return
	}
	p.result = result
	cfg := p.store.Get()
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Keyflare Preferences")
	WmAttributes(win.Window, "-topmost", 1)
	WmProtocol(win.Window, "WM_DELETE_WINDOW", func() { p.close(false) })
	p.win = win

	row := 0
	Grid(win.Label(Txt("Badge colour"), Anchor("w")), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	p.swatch = win.Label(Txt(cfg.BadgeColor), Background(cfg.BadgeColor), Foreground(images.ContrastHex(cfg.BadgeColor)), Width(10))
	Grid(p.swatch, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	Grid(win.Button(Txt("Select Color"), Command(p.chooseColor)), Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	row++

	makeRow := func(id, label, value string) {
		Grid(win.Label(Txt(label), Anchor("w")), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := win.Text(Height(1), Width(28))
		Grid(w, Row(row), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		p.widgets[id] = w
		row++
	}
	makeRow("alphabet", "Alphabet", cfg.Alphabet)
	makeRow("minArea", "Min Area", strconv.Itoa(cfg.MinArea))
	makeRow("margin", "Margin", strconv.Itoa(cfg.Margin))
	makeRow("dominanceSlack", "Dominance Slack", strconv.Itoa(cfg.DominanceSlack))

	Grid(win.Button(Txt("Apply Changes"), Command(p.ApplyChanges)), Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	Grid(win.Button(Txt("Continue"), Command(func() { p.close(false) })), Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	Grid(win.Button(Txt("Completely Exit"), Command(func() { p.close(true) })), Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	Bind(win, "<Escape>", Command(func() { p.close(false) }))
	takeFocus(win.Window, func() bool { return p.win == win })
}

func (p *Preferences) chooseColor() {
	cur := p.store.Get().BadgeColor
	picked := ChooseColor(Initialcolor(cur), Title("Badge colour"))
	if picked == "" {
		return
	}
	hex, err := images.NormalizeHex(picked)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("colour chooser returned unusable value", "value", picked, "error", err)
		}
		return
	}
	p.save(func(c *config.Config) { c.BadgeColor = hex })
	if p.swatch != nil {
		p.swatch.Configure(Txt(hex), Background(hex), Foreground(images.ContrastHex(hex)))
	}
}

func (p *Preferences) text(id string) (string, bool) {
	w := p.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

// ApplyChanges parses the fields into the config and persists it. Fields
// that do not parse keep their previous value.
func (p *Preferences) ApplyChanges() {
	fields := make(map[string]string, len(p.widgets))
	for id := range p.widgets {
		if v, ok := p.text(id); ok {
			fields[id] = v
		}
	}
	p.save(func(c *config.Config) { applyFields(c, fields) })
}

func applyFields(c *config.Config, fields map[string]string) {
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(fields[id]); ok {
			*dst = i
		}
	}
	if v := fields["alphabet"]; v != "" {
		c.Alphabet = v
	}
	assignInt("minArea", &c.MinArea)
	assignInt("margin", &c.Margin)
	assignInt("dominanceSlack", &c.DominanceSlack)
}

func (p *Preferences) save(fn func(*config.Config)) {
	if err := p.store.Update(fn); err != nil {
		if p.logger != nil {
			p.logger.Error("config save failed", "error", err)
		}
		return
	}
	if p.logger != nil {
		p.logger.Info("config saved", "path", p.store.Path())
	}
}

// close runs on the Tk thread.
func (p *Preferences) close(exit bool) {
	if p.win != nil {
		Destroy(p.win)
		p.win, p.swatch = nil, nil
		p.widgets = make(map[string]*TextWidget)
	}
	p.finish(exit)
}

func (p *Preferences) finish(exit bool) {
	if p.result != nil {
		p.result <- exit
		p.result = nil
	}
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
