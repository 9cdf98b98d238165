package theme

// Palette and ttk styles for the status and preferences windows.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
	// AreaTint fills the capture area picker.
	AreaTint string
}

var (
	lightPalette = PaletteSnapshot{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
		AreaTint:  "#008080",
	}
	darkPalette = PaletteSnapshot{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#10b981",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
		AreaTint:  "#0e7490",
	}
)

// Palette returns colors for the given mode.
func Palette(dark bool) PaletteSnapshot {
	if dark {
		return darkPalette
	}
	return lightPalette
}

// CurrentPalette returns colors for the current mode.
func CurrentPalette() PaletteSnapshot { return Palette(darkMode) }

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
	StyleMutedLabel    = "muted.TLabel"
)

var darkMode bool

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(Palette(darkMode)) }

// SetDark switches mode and reapplies styles.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles(Palette(dark))
	return darkMode
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	base := "azure light"
	if darkMode {
		base = "azure dark"
	}
	_ = ActivateTheme(base)
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleMutedLabel,
		Foreground(p.TextMuted),
		Background(p.Surface),
		Padding("2p 1p"),
	)
}
