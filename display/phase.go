package display

// phase is the orchestrator lifecycle variant
// The intro phase only moves to running; running is terminal
type phase interface {
	isPhase()
}

// introPhase holds the overlay until the fade completes
// created is set once an overlay was built so it is never rebuilt in a session
type introPhase struct {
	overlay *IntroOverlay
	created bool
}

type runningPhase struct{}

func (*introPhase) isPhase()  {}
func (runningPhase) isPhase() {}
