package leadform

// State is the observable state of the form's submit control.
type State int32

const (
	// StateIdle accepts a submission; the submit control is enabled.
	StateIdle State = iota
	// StateSubmitting has a lead write in flight; the submit control is disabled.
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Outcome is how a submission attempt ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)
