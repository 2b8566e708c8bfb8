package engine

import "github.com/steveyegge/waymark/internal/types"

// transitions is the fixed table of legal explicit status changes.
// Transitions back to ready hand the waypoint to the derived-status
// computation, which may immediately re-block it.
var transitions = map[types.Status][]types.Status{
	types.StatusBlocked:   {types.StatusActive, types.StatusAbandoned},
	types.StatusReady:     {types.StatusActive, types.StatusDone, types.StatusAbandoned},
	types.StatusActive:    {types.StatusDone, types.StatusAbandoned, types.StatusReady},
	types.StatusDone:      {types.StatusActive, types.StatusReady},
	types.StatusAbandoned: {types.StatusReady},
}

// CanTransition reports whether the status change from -> to is legal.
func CanTransition(from, to types.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError naming both
// endpoints if from -> to is not in the transition table. Unknown target
// statuses are rejected the same way.
func ValidateTransition(from, to types.Status) error {
	if !to.IsValid() || !CanTransition(from, to) {
		return &types.InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// AllowedTransitions returns the legal targets from the given status,
// in table order. Useful for CLI help and error messages.
func AllowedTransitions(from types.Status) []types.Status {
	return append([]types.Status(nil), transitions[from]...)
}
