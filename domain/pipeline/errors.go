package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the step of a run that failed.
type Stage string

const (
	StageCapture  Stage = "capture"
	StageExtract  Stage = "extract"
	StageLabel    Stage = "label"
	StageSelect   Stage = "select"
	StageAct      Stage = "act"
	StageFallback Stage = "fallback"
	StagePanic    Stage = "panic"
)

var (
	// ErrBusy is returned when a trigger arrives while a run is in progress.
	ErrBusy = errors.New("pipeline: run already in progress")
	// ErrDisarmed is returned when triggers are switched off.
	ErrDisarmed = errors.New("pipeline: disarmed")
)

// RunError tags a failure with the run and stage it came from.
type RunError struct {
	Stage Stage
	RunID string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s: %s: %v", e.RunID, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// StageOf returns the stage of a RunError in err's chain, or "".
func StageOf(err error) Stage {
	var re *RunError
	if errors.As(err, &re) {
		return re.Stage
	}
	return ""
}
