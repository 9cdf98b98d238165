package model

import (
	"image"
	"sync"
	"time"

	"github.com/pranitsh/keyflare/domain/selection"
)

// RunStats are the counters shown in the status window.
type RunStats struct {
	Runs      uint64
	Resolved  uint64
	Exhausted uint64
	Cancelled uint64
	Failed    uint64
	Dropped   uint64

	LastState    string
	LastCode     string
	LastError    string
	LastDuration time.Duration
	// Version increases on every change so presenters can skip redraws.
	Version uint64
}

// RunModel accumulates run outcomes. It is written from the pipeline
// goroutine and read on the Tk thread.
type RunModel struct {
	mu      sync.Mutex
	stats   RunStats
	preview image.Image
}

func NewRunModel() *RunModel { return &RunModel{} }

// Record counts a run that reached a terminal selection state.
func (m *RunModel) Record(state selection.State, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Runs++
	switch state {
	case selection.StateResolved:
		m.stats.Resolved++
	case selection.StateExhausted:
		m.stats.Exhausted++
	case selection.StateCancelled:
		m.stats.Cancelled++
	}
	m.stats.LastState = state.String()
	m.stats.LastCode = code
	m.stats.LastError = ""
	m.stats.LastDuration = d
	m.stats.Version++
}

// RecordFailure counts a run aborted by a collaborator error.
func (m *RunModel) RecordFailure(err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Runs++
	m.stats.Failed++
	m.stats.LastState = "failed"
	m.stats.LastCode = ""
	if err != nil {
		m.stats.LastError = err.Error()
	}
	m.stats.Version++
}

// RecordDropped counts a trigger ignored because a run was active or the
// runner was disarmed.
func (m *RunModel) RecordDropped() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.stats.Dropped++
	m.stats.Version++
	m.mu.Unlock()
}

// SetPreview stores the latest click preview image.
func (m *RunModel) SetPreview(img image.Image) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.preview = img
	m.stats.Version++
	m.mu.Unlock()
}

func (m *RunModel) Preview() image.Image {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preview
}

// Snapshot returns a copy of the counters.
func (m *RunModel) Snapshot() RunStats {
	if m == nil {
		return RunStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
