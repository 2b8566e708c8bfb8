// Package types defines the core data structures for waymark waypoints,
// branches, and the error taxonomy shared across the engine and CLI.
package types

import (
	"fmt"
	"time"
)

// DefaultBranch is the branch every data root starts with.
const DefaultBranch = "main"

// Waypoint represents a unit of planned work: one node in the dependency
// graph of an exploration session.
//
// Fields are flat and JSON-tagged so a collection serializes as a plain
// array of records. DependsOn is ordered and duplicate-free; entries may
// reference since-deleted waypoints in externally edited data, and readers
// must treat such ids as permanently not done rather than fail.
type Waypoint struct {
	ID string `json:"id" yaml:"id"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status `json:"status" yaml:"status"`

	// DependsOn lists waypoint ids this waypoint is blocked behind.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	// Reasoning records why this waypoint exists.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// LinkedNoteIDs references external note entities by id.
	LinkedNoteIDs []string `json:"linked_note_ids,omitempty" yaml:"linked_note_ids,omitempty"`

	// Branch is the name of the branch this waypoint belongs to.
	Branch string `json:"branch" yaml:"branch"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the waypoint's own field invariants. Graph-level
// invariants (acyclicity, referential integrity) are checked by the engine.
func (w *Waypoint) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if w.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !w.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, w.Status)
	}
	if w.Branch == "" {
		return fmt.Errorf("%w: branch is required", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(w.DependsOn))
	for _, dep := range w.DependsOn {
		if dep == w.ID {
			return fmt.Errorf("%w: waypoint %s cannot depend on itself", ErrInvalidInput, w.ID)
		}
		if seen[dep] {
			return fmt.Errorf("%w: duplicate dependency %s", ErrInvalidInput, dep)
		}
		seen[dep] = true
	}
	return nil
}

// DependsOnID reports whether id appears in the depends_on list.
func (w *Waypoint) DependsOnID(id string) bool {
	for _, dep := range w.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

// HasNote reports whether noteID appears in the linked note list.
func (w *Waypoint) HasNote(noteID string) bool {
	for _, n := range w.LinkedNoteIDs {
		if n == noteID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the waypoint.
func (w *Waypoint) Clone() *Waypoint {
	c := *w
	if w.DependsOn != nil {
		c.DependsOn = append([]string(nil), w.DependsOn...)
	}
	if w.LinkedNoteIDs != nil {
		c.LinkedNoteIDs = append([]string(nil), w.LinkedNoteIDs...)
	}
	return &c
}

// Branch is a named partition of the waypoint set, supporting alternate or
// parallel routes through the same exploration.
type Branch struct {
	Name      string    `json:"name"`
	Reasoning string    `json:"reasoning,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatePatch enumerates the mutable waypoint fields for UpdateWaypoint.
// A nil field means "leave unchanged". Status, dependencies, and note links
// have their own operations and are deliberately absent here.
type UpdatePatch struct {
	Title       *string
	Description *string
	Reasoning   *string
	Branch      *string
}

// IsZero reports whether the patch changes nothing.
func (p UpdatePatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Reasoning == nil && p.Branch == nil
}
