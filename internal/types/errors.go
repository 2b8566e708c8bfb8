package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the waymark failure taxonomy. Callers classify
// failures with errors.Is; operations wrap these with context via %w.
var (
	// ErrNotFound means a referenced waypoint, branch, note, or edge
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means a caller-supplied value is malformed
	// (empty title, self-dependency, unknown field).
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict means the requested entity or edge already exists.
	ErrConflict = errors.New("already exists")

	// ErrInvalidTransition means a status change is not in the legal
	// transition table. See InvalidTransitionError for the endpoints.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrWouldCycle means a dependency edge would make the graph cyclic.
	ErrWouldCycle = errors.New("would create dependency cycle")

	// ErrNoActiveContext means no initialized data root is available.
	ErrNoActiveContext = errors.New("no active waymark context")

	// ErrPersistence means reading or writing the backing store failed.
	ErrPersistence = errors.New("persistence failure")
)

// InvalidTransitionError reports a rejected status change, naming both
// endpoints so the caller can surface them.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// Is makes the error match ErrInvalidTransition under errors.Is.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// CycleError reports a rejected dependency edge that would close a cycle.
type CycleError struct {
	WaypointID   string
	DependencyID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency %s -> %s would create a cycle", e.WaypointID, e.DependencyID)
}

// Is makes the error match ErrWouldCycle under errors.Is.
func (e *CycleError) Is(target error) bool {
	return target == ErrWouldCycle
}

// PersistenceError wraps a storage failure with the operation and
// collection key it occurred on.
type PersistenceError struct {
	Op  string // "read" or "write"
	Key string // collection key
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes the error match ErrPersistence under errors.Is.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
