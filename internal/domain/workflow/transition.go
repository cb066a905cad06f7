package workflow

import "strings"

// Transition is a named action that moves a document between statuses
type Transition string

const (
	TransitionValidate Transition = "VALIDATE"
	TransitionApprove  Transition = "APPROVE"
	TransitionReject   Transition = "REJECT"
)

var validTransitions = map[Transition]bool{
	TransitionValidate: true,
	TransitionApprove:  true,
	TransitionReject:   true,
}

// String returns the string representation of the transition
func (t Transition) String() string {
	return string(t)
}

// IsValid returns true if the transition is a known transition name
func (t Transition) IsValid() bool {
	return validTransitions[t]
}

// ParseTransition normalizes a transition name supplied by a caller
func ParseTransition(s string) (Transition, bool) {
	t := Transition(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}
