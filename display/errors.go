package display

import (
	"errors"
	"fmt"
)

// ErrNilCanvas is returned when constructing without a rendering context
var ErrNilCanvas = errors.New("display: nil canvas")

// ErrNilScene is returned when constructing without a scene controller
var ErrNilScene = errors.New("display: nil scene controller")

// Frame steps reported by PhaseError
const (
	StepLoad     = "load"
	StepDispatch = "dispatch"
	StepTimers   = "timers"
	StepDraw     = "draw"
	StepOverlay  = "debug overlay"
	StepEmulator = "emulator"
	StepUnload   = "unload"
)

// PhaseError is a scene step failure in the running phase
type PhaseError struct {
	Step string
	Err  error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("display: scene %s: %v", e.Step, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
