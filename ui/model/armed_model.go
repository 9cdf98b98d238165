package model

import (
	"sync/atomic"
)

// ArmedModel tracks whether hotkey triggers start runs. The zero value is
// disarmed and usable. UI callbacks and the listener goroutine both read it.
type ArmedModel struct{ armed atomic.Bool }

// NewArmedModel returns a model with the given initial value.
func NewArmedModel(armed bool) *ArmedModel {
	m := &ArmedModel{}
	m.armed.Store(armed)
	return m
}

// Armed reports whether triggers are accepted.
func (m *ArmedModel) Armed() bool {
	if m == nil {
		return false
	}
	return m.armed.Load()
}

// SetArmed stores the flag and reports whether it changed.
func (m *ArmedModel) SetArmed(b bool) bool {
	if m == nil {
		return false
	}
	return m.armed.Swap(b) != b
}
