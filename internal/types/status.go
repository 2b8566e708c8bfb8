package types

// Status is the lifecycle state of a waypoint.
//
// Statuses split into two families. Explicit statuses (active, done,
// abandoned) are authoritative and stored as written. Derived statuses
// (blocked, ready) are computed from the dependency graph and rewritten
// after every mutation; they are never the source of truth.
type Status string

const (
	// StatusBlocked means at least one dependency is not done. Derived.
	StatusBlocked Status = "blocked"
	// StatusReady means every dependency is done (or there are none). Derived.
	StatusReady Status = "ready"
	// StatusActive means work is underway. Explicit.
	StatusActive Status = "active"
	// StatusDone means work is complete. Explicit.
	StatusDone Status = "done"
	// StatusAbandoned means work was dropped. Explicit.
	StatusAbandoned Status = "abandoned"
)

// AllStatuses lists every valid status value.
var AllStatuses = []Status{
	StatusBlocked,
	StatusReady,
	StatusActive,
	StatusDone,
	StatusAbandoned,
}

// IsValid reports whether s is one of the five known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusBlocked, StatusReady, StatusActive, StatusDone, StatusAbandoned:
		return true
	default:
		return false
	}
}

// IsExplicit reports whether s is stored as authoritative.
func (s Status) IsExplicit() bool {
	switch s {
	case StatusActive, StatusDone, StatusAbandoned:
		return true
	default:
		return false
	}
}

// IsDerived reports whether s is recomputed from the graph.
func (s Status) IsDerived() bool {
	return s == StatusBlocked || s == StatusReady
}

// String returns the status as a plain string.
func (s Status) String() string {
	return string(s)
}
