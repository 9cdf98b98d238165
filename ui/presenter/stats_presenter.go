package presenter

import (
	"image"
	"time"

	"github.com/pranitsh/keyflare/ui/model"
)

// StatsView displays run counters and the last click preview.
type StatsView interface {
	SetStats(model.RunStats)
	SetPreview(image.Image)
}

// StatsPresenter pushes RunModel changes to the view.
type StatsPresenter struct {
	runs    *model.RunModel
	view    StatsView
	version uint64
	preview image.Image
}

func NewStatsPresenter(runs *model.RunModel, view StatsView) *StatsPresenter {
	return &StatsPresenter{runs: runs, view: view}
}

// Tick redraws when the model version moved.
func (p *StatsPresenter) Tick(now time.Time) {
	if p == nil || p.runs == nil || p.view == nil {
		return
	}
	s := p.runs.Snapshot()
	if s.Version == p.version {
		return
	}
	p.version = s.Version
	p.view.SetStats(s)
	if img := p.runs.Preview(); img != nil && img != p.preview {
		p.preview = img
		p.view.SetPreview(img)
	}
}
