package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pranitsh/keyflare/domain/extract"
	"github.com/pranitsh/keyflare/domain/label"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "keyflare.json"

// Hotkey binds a key combination to a click action.
type Hotkey struct {
	Keys   string `json:"keys"`
	Clicks int    `json:"clicks"`
	Button string `json:"button"`
}

// Config holds runtime configuration for detection, selection and UI.
// Fields may be loaded from a JSON file and overridden by environment variables.
type Config struct {
	Debug bool `json:"debug"`

	// Labelling and dedup
	Alphabet        string `json:"alphabet"`
	MinArea         int    `json:"min_area"`
	Margin          int    `json:"margin"`
	DominanceSlack  int    `json:"dominance_slack"`
	LinearScanBelow int    `json:"linear_scan_below"`

	// Extraction
	Extractor        string `json:"extractor"`
	DilationWidth    int    `json:"dilation_width"`
	AdaptiveDilation bool   `json:"adaptive_dilation"`
	AdaptiveMaxWidth int    `json:"adaptive_max_width"`
	AdaptiveCap      int    `json:"adaptive_cap"`
	AdaptiveTarget   int    `json:"adaptive_target"`
	ThresholdBlock   int    `json:"threshold_block"`
	ThresholdC       int    `json:"threshold_c"`

	// Actuation
	ClickInset         int `json:"click_inset"`
	ClickDelayMs       int `json:"click_delay_ms"`
	StepTimeoutSeconds int `json:"step_timeout_seconds"`

	// Overlay and windows
	BadgeColor   string `json:"badge_color"`
	BadgeSize    int    `json:"badge_size"`
	DarkTheme    bool   `json:"dark_theme"`
	StatusWindow bool   `json:"status_window"`

	Hotkeys []Hotkey `json:"hotkeys"`
	// MouseChord starts a single primary click run when both pointer
	// buttons are pressed together.
	MouseChord bool `json:"mouse_chord"`

	// Capture rectangle; zero size means full screen
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w"`
	SelectionH int `json:"selection_h"`
}

// DefaultHotkeys returns the stock bindings.
func DefaultHotkeys() []Hotkey {
	return []Hotkey{
		{Keys: "alt+z", Clicks: 1, Button: "primary"},
		{Keys: "alt+shift+z", Clicks: 2, Button: "primary"},
		{Keys: "alt+x", Clicks: 1, Button: "secondary"},
	}
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		Alphabet:           label.Frequency,
		MinArea:            15,
		Margin:             10,
		DominanceSlack:     5,
		LinearScanBelow:    0,
		Extractor:          "native",
		DilationWidth:      4,
		AdaptiveDilation:   false,
		AdaptiveMaxWidth:   7,
		AdaptiveCap:        525,
		AdaptiveTarget:     300,
		ThresholdBlock:     11,
		ThresholdC:         2,
		ClickInset:         5,
		ClickDelayMs:       150,
		StepTimeoutSeconds: 0,
		BadgeColor:         "#f85d5e",
		BadgeSize:          20,
		DarkTheme:          true,
		StatusWindow:       false,
		Hotkeys:            DefaultHotkeys(),
		MouseChord:         false,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Hotkeys = append([]Hotkey(nil), c.Hotkeys...)
	return &out
}

// Validate clamps/normalizes values to safe ranges. Every field it had to
// reset is reported in the returned error; the config is usable either way.
func (c *Config) Validate() error {
	d := DefaultConfig()
	var errs []error
	reset := func(name string, got any) {
		errs = append(errs, fmt.Errorf("%s: %v out of range, using default", name, got))
	}
	if a, err := label.ParseAlphabet(c.Alphabet); err != nil {
		errs = append(errs, fmt.Errorf("alphabet: %w", err))
		c.Alphabet = d.Alphabet
	} else {
		c.Alphabet = a.String()
	}
	if c.MinArea < 0 {
		reset("min_area", c.MinArea)
		c.MinArea = d.MinArea
	}
	if c.Margin < 0 {
		reset("margin", c.Margin)
		c.Margin = d.Margin
	}
	if c.DominanceSlack < 0 {
		reset("dominance_slack", c.DominanceSlack)
		c.DominanceSlack = d.DominanceSlack
	}
	if c.LinearScanBelow < 0 {
		c.LinearScanBelow = 0
	}
	c.Extractor = strings.ToLower(strings.TrimSpace(c.Extractor))
	if c.Extractor == "" {
		c.Extractor = d.Extractor
	} else if !slices.Contains(extract.Backends(), c.Extractor) {
		errs = append(errs, fmt.Errorf("extractor: %q not compiled in (have %v), using %s", c.Extractor, extract.Backends(), d.Extractor))
		c.Extractor = d.Extractor
	}
	if c.DilationWidth < 1 || c.DilationWidth > 64 {
		reset("dilation_width", c.DilationWidth)
		c.DilationWidth = d.DilationWidth
	}
	if c.AdaptiveMaxWidth < 1 || c.AdaptiveMaxWidth > 64 {
		reset("adaptive_max_width", c.AdaptiveMaxWidth)
		c.AdaptiveMaxWidth = d.AdaptiveMaxWidth
	}
	if c.AdaptiveCap < 1 {
		reset("adaptive_cap", c.AdaptiveCap)
		c.AdaptiveCap = d.AdaptiveCap
	}
	if c.AdaptiveTarget < 1 || c.AdaptiveTarget > c.AdaptiveCap {
		reset("adaptive_target", c.AdaptiveTarget)
		c.AdaptiveTarget = min(d.AdaptiveTarget, c.AdaptiveCap)
	}
	if c.ThresholdBlock < 3 {
		reset("threshold_block", c.ThresholdBlock)
		c.ThresholdBlock = d.ThresholdBlock
	}
	if c.ThresholdBlock%2 == 0 {
		c.ThresholdBlock++
	}
	if c.ClickInset < 0 {
		reset("click_inset", c.ClickInset)
		c.ClickInset = d.ClickInset
	}
	if c.ClickDelayMs < 0 || c.ClickDelayMs > 5000 {
		reset("click_delay_ms", c.ClickDelayMs)
		c.ClickDelayMs = d.ClickDelayMs
	}
	if c.StepTimeoutSeconds < 0 {
		reset("step_timeout_seconds", c.StepTimeoutSeconds)
		c.StepTimeoutSeconds = 0
	}
	if col, err := colorful.Hex(c.BadgeColor); err != nil {
		reset("badge_color", c.BadgeColor)
		c.BadgeColor = d.BadgeColor
	} else {
		c.BadgeColor = col.Hex()
	}
	if c.BadgeSize < 8 || c.BadgeSize > 128 {
		reset("badge_size", c.BadgeSize)
		c.BadgeSize = d.BadgeSize
	}
	if len(c.Hotkeys) == 0 {
		c.Hotkeys = DefaultHotkeys()
	}
	for i := range c.Hotkeys {
		if c.Hotkeys[i].Clicks < 1 {
			c.Hotkeys[i].Clicks = 1
		}
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return errors.Join(errs...)
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
