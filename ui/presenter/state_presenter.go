package presenter

import (
	"sync"
	"time"

	"github.com/pranitsh/keyflare/domain/selection"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives selection state changes from the pipeline
// goroutine and reflects the most recent one on the next Tick.
type StatePresenter struct {
	view    StateView
	mu      sync.Mutex
	latest  string
	pending []selection.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transitioned state. It matches selection.StateListener.
func (p *StatePresenter) OnState(_, next selection.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick updates the view with the most recent queued state.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()
	if label := "State: " + last.String(); label != p.latest {
		p.latest = label
		p.view.SetStateLabel(label)
	}
}
