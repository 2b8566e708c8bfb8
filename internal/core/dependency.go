package core

import (
	"fmt"

	"github.com/steveyegge/waymark/internal/engine"
	"github.com/steveyegge/waymark/internal/notify"
	"github.com/steveyegge/waymark/internal/types"
)

// AddDependency records that waypointID depends on dependencyID. The edge
// is rejected with a distinguishable error when it is a self-dependency,
// touches an unknown waypoint, already exists, or would close a cycle.
// Nothing is mutated on rejection.
func (s *Service) AddDependency(waypointID, dependencyID string) (*types.Waypoint, error) {
	if waypointID == dependencyID {
		return nil, fmt.Errorf("%w: waypoint %s cannot depend on itself", types.ErrInvalidInput, waypointID)
	}

	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, waypointID)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", waypointID, types.ErrNotFound)
	}
	if find(wps, dependencyID) == nil {
		return nil, fmt.Errorf("dependency %s: %w", dependencyID, types.ErrNotFound)
	}
	if wp.DependsOnID(dependencyID) {
		return nil, fmt.Errorf("dependency %s -> %s: %w", waypointID, dependencyID, types.ErrConflict)
	}
	if engine.WouldCycle(wps, waypointID, dependencyID) {
		return nil, &types.CycleError{WaypointID: waypointID, DependencyID: dependencyID}
	}

	wp.DependsOn = append(wp.DependsOn, dependencyID)
	wp.UpdatedAt = s.now()

	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventDepAdded, map[string]any{
		"waypoint": waypointID, "depends_on": dependencyID,
	})
	return wp.Clone(), nil
}

// RemoveDependency removes an existing edge. Removing an absent edge is
// a NotFound error, even when a dangling id with the same value sits in
// another waypoint's list.
func (s *Service) RemoveDependency(waypointID, dependencyID string) (*types.Waypoint, error) {
	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, waypointID)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", waypointID, types.ErrNotFound)
	}
	if !wp.DependsOnID(dependencyID) {
		return nil, fmt.Errorf("dependency %s -> %s: %w", waypointID, dependencyID, types.ErrNotFound)
	}

	deps := wp.DependsOn[:0]
	for _, dep := range wp.DependsOn {
		if dep != dependencyID {
			deps = append(deps, dep)
		}
	}
	wp.DependsOn = deps
	wp.UpdatedAt = s.now()

	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventDepRemoved, map[string]any{
		"waypoint": waypointID, "depends_on": dependencyID,
	})
	return wp.Clone(), nil
}
