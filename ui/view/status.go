package view

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/pranitsh/keyflare/ui/images"
	"github.com/pranitsh/keyflare/ui/model"
	"github.com/pranitsh/keyflare/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	maxPreviewW = 240
	maxPreviewH = 160
)

// StatusHandlers are invoked from status window buttons.
type StatusHandlers struct {
	ToggleArmed func()
	CaptureArea func()
	Preferences func()
	Exit        func()
}

// StatusView is the optional main window: last state, counters, armed
// toggle and a preview around the last click. All methods run on the Tk thread.
type StatusView struct {
	logger *slog.Logger

	stateLabel *TLabelWidget
	countLabel *LabelWidget
	lastLabel  *TLabelWidget
	armBtn     *TButtonWidget
	preview    *LabelWidget
	photo      *Img
}

func NewStatusView(logger *slog.Logger) *StatusView { return &StatusView{logger: logger} }

// Build lays the window out in App.
func (v *StatusView) Build(h StatusHandlers, armed bool) {
	App.WmTitle("Keyflare")
	v.stateLabel = TLabel(Txt("State: <none>"), Style(theme.StyleStateLabel))
	Grid(v.stateLabel, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	v.countLabel = Label(Txt(formatCounts(model.RunStats{})), Anchor("w"))
	Grid(v.countLabel, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.lastLabel = TLabel(Txt("Last: -"), Anchor("w"), Style(theme.StyleMutedLabel))
	Grid(v.lastLabel, Row(2), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))

	placeholder := image.NewRGBA(image.Rect(0, 0, maxPreviewW, maxPreviewH))
	v.photo = NewPhoto(Data(images.EncodePNG(placeholder)))
	v.preview = Label(Image(v.photo), Borderwidth(1), Relief("sunken"))
	Grid(v.preview, Row(3), Column(0), Rowspan(4), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))

	v.armBtn = TButton(Txt(armText(armed)), Command(h.ToggleArmed), Style(theme.StylePrimaryButton))
	Grid(v.armBtn, Row(3), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Grid(Button(Txt("Capture Area"), Command(h.CaptureArea)), Row(4), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Grid(Button(Txt("Preferences"), Command(h.Preferences)), Row(5), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Grid(TButton(Txt("Exit"), Command(h.Exit), Style(theme.StyleDangerButton)), Row(6), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
}

// SetStateLabel updates the state label text.
func (v *StatusView) SetStateLabel(text string) {
	if v != nil && v.stateLabel != nil {
		v.stateLabel.Configure(Txt(text))
	}
}

func (v *StatusView) SetArmed(armed bool) {
	if v != nil && v.armBtn != nil {
		v.armBtn.Configure(Txt(armText(armed)))
	}
}

func (v *StatusView) SetStats(s model.RunStats) {
	if v == nil || v.countLabel == nil {
		return
	}
	v.countLabel.Configure(Txt(formatCounts(s)))
	v.lastLabel.Configure(Txt(formatLast(s)))
}

// SetPreview replaces the preview image, disposing the previous photo.
func (v *StatusView) SetPreview(img image.Image) {
	if v == nil || v.preview == nil || img == nil {
		return
	}
	scaled := images.ScaleToFit(img, maxPreviewW, maxPreviewH)
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(images.EncodePNG(scaled)))
	v.preview.Configure(Image(v.photo))
}

func armText(armed bool) string {
	if armed {
		return "Disarm"
	}
	return "Arm"
}

func formatCounts(s model.RunStats) string {
	return fmt.Sprintf("Runs %d  clicked %d  no match %d  cancelled %d  failed %d  dropped %d",
		s.Runs, s.Resolved, s.Exhausted, s.Cancelled, s.Failed, s.Dropped)
}

func formatLast(s model.RunStats) string {
	if s.LastState == "" {
		return "Last: -"
	}
	out := "Last: " + s.LastState
	if s.LastCode != "" {
		out += " " + s.LastCode
	}
	if s.LastError != "" {
		out += " (" + s.LastError + ")"
	}
	if s.LastDuration > 0 {
		out += fmt.Sprintf(" in %dms", s.LastDuration.Milliseconds())
	}
	return out
}
