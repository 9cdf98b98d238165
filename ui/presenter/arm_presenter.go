package presenter

// ArmedModel provides armed state access.
type ArmedModel interface {
	Armed() bool
	SetArmed(bool) bool
}

// Arming is the runner switch.
type Arming interface{ SetArmed(bool) }

// ArmView updates UI elements affected by arming.
type ArmView interface {
	SetArmed(bool)
}

// ArmPresenter owns presentation logic for arming and disarming triggers.
type ArmPresenter struct {
	model  ArmedModel
	runner Arming
	view   ArmView
}

func NewArmPresenter(model ArmedModel, runner Arming, view ArmView) *ArmPresenter {
	return &ArmPresenter{model: model, runner: runner, view: view}
}

// Arm lets hotkeys start runs again. Idempotent.
func (p *ArmPresenter) Arm() { p.set(true) }

// Disarm makes the runner ignore hotkeys. Idempotent.
func (p *ArmPresenter) Disarm() { p.set(false) }

// Toggle flips the armed state.
func (p *ArmPresenter) Toggle() {
	if p == nil || p.model == nil {
		return
	}
	p.set(!p.model.Armed())
}

func (p *ArmPresenter) set(v bool) {
	if p == nil || p.model == nil || p.runner == nil || p.view == nil {
		return
	}
	if !p.model.SetArmed(v) {
		return
	}
	p.runner.SetArmed(v)
	p.view.SetArmed(v)
}
