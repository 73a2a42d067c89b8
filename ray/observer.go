package ray

import "time"

// Observer receives notifications about evaluation.  Implementations must be
// cheap; they are called on every function application.
type Observer interface {
	// ObserveCall is called when a function is entered.
	ObserveCall(name string, primitive bool)
	// ObserveEval is called when a top-level evaluation finishes.
	ObserveEval(d time.Duration, err error)
	// ObserveStop is called when evaluation is stopped.
	ObserveStop(reason StopReason)
}

type nopObserver struct{}

func (nopObserver) ObserveCall(string, bool)         {}
func (nopObserver) ObserveEval(time.Duration, error) {}
func (nopObserver) ObserveStop(StopReason)           {}
