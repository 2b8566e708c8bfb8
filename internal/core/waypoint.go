package core

import (
	"fmt"

	"github.com/steveyegge/waymark/internal/engine"
	"github.com/steveyegge/waymark/internal/notify"
	"github.com/steveyegge/waymark/internal/types"
)

// CreateInput carries the caller-supplied fields for a new waypoint.
type CreateInput struct {
	Title       string
	Description string
	Reasoning   string

	// Branch defaults to the session's active branch when empty.
	Branch string

	// DependsOn may reference existing waypoints; each must resolve.
	DependsOn []string
}

// CreateWaypoint creates a new waypoint. The initial status is derived:
// ready when its dependencies (if any) are all done, blocked otherwise.
func (s *Service) CreateWaypoint(in CreateInput) (*types.Waypoint, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", types.ErrInvalidInput)
	}

	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}

	branch := in.Branch
	if branch == "" {
		branch = s.sess.ActiveBranch()
	}

	seen := make(map[string]bool, len(in.DependsOn))
	for _, dep := range in.DependsOn {
		if seen[dep] {
			return nil, fmt.Errorf("%w: duplicate dependency %s", types.ErrInvalidInput, dep)
		}
		seen[dep] = true
		if find(wps, dep) == nil {
			return nil, fmt.Errorf("dependency %s: %w", dep, types.ErrNotFound)
		}
	}

	now := s.now()
	wp := &types.Waypoint{
		ID:          s.freshID(wps),
		Title:       in.Title,
		Description: in.Description,
		Reasoning:   in.Reasoning,
		Status:      types.StatusReady, // rewritten by the status pass
		DependsOn:   append([]string(nil), in.DependsOn...),
		Branch:      branch,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	wps = append(wps, wp)
	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventWaypointCreated, map[string]any{
		"id": wp.ID, "title": wp.Title, "branch": wp.Branch, "status": wp.Status,
	})
	return wp.Clone(), nil
}

// UpdateWaypoint applies a field patch to a waypoint. Only the fields
// enumerated on UpdatePatch are mutable this way; status, dependencies,
// and note links have dedicated operations.
func (s *Service) UpdateWaypoint(id string, patch types.UpdatePatch) (*types.Waypoint, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", types.ErrInvalidInput)
	}
	if patch.Branch != nil && *patch.Branch == "" {
		return nil, fmt.Errorf("%w: branch cannot be empty", types.ErrInvalidInput)
	}

	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, id)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", id, types.ErrNotFound)
	}

	if patch.Title != nil {
		wp.Title = *patch.Title
	}
	if patch.Description != nil {
		wp.Description = *patch.Description
	}
	if patch.Reasoning != nil {
		wp.Reasoning = *patch.Reasoning
	}
	if patch.Branch != nil {
		wp.Branch = *patch.Branch
	}
	wp.UpdatedAt = s.now()

	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventWaypointUpdated, map[string]any{
		"id": wp.ID, "title": wp.Title, "branch": wp.Branch,
	})
	return wp.Clone(), nil
}

// SetStatus applies an explicit status transition, gated by the legal
// transition table. The cascade happens in the status pass afterwards: a
// dependency becoming done can flip dependents from blocked to ready, and
// a dependency leaving done re-blocks them.
func (s *Service) SetStatus(id string, to types.Status) (*types.Waypoint, error) {
	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, id)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", id, types.ErrNotFound)
	}

	from := wp.Status
	if err := engine.ValidateTransition(from, to); err != nil {
		return nil, err
	}

	wp.Status = to
	wp.UpdatedAt = s.now()

	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventStatusChanged, map[string]any{
		"id": wp.ID, "from": from, "to": wp.Status,
	})
	return wp.Clone(), nil
}

// DeleteWaypoint removes a waypoint, strips its id from every remaining
// depends_on list, and clears the back-reference of every linked note.
// Stripping is a repair, not an error: waypoints that never referenced
// the deleted id are untouched.
func (s *Service) DeleteWaypoint(id string) error {
	wps, err := s.loadWaypoints()
	if err != nil {
		return err
	}
	wp := find(wps, id)
	if wp == nil {
		return fmt.Errorf("waypoint %s: %w", id, types.ErrNotFound)
	}

	remaining := make([]*types.Waypoint, 0, len(wps)-1)
	for _, other := range wps {
		if other.ID == id {
			continue
		}
		if other.DependsOnID(id) {
			deps := other.DependsOn[:0]
			for _, dep := range other.DependsOn {
				if dep != id {
					deps = append(deps, dep)
				}
			}
			other.DependsOn = deps
			other.UpdatedAt = s.now()
		}
		remaining = append(remaining, other)
	}

	if err := s.saveWaypoints(remaining); err != nil {
		return err
	}

	// Clear note back-references after the collection is saved. Only a
	// back-reference still pointing at the deleted waypoint is cleared; a
	// note that has since moved elsewhere keeps its link. The note side
	// is a sequential follow-up with no rollback; a failed clear is
	// logged and skipped so the deletion itself stands.
	for _, noteID := range wp.LinkedNoteIDs {
		note, err := s.notes.Get(noteID)
		if err != nil {
			s.logger.Printf("delete %s: look up note %s: %v", id, noteID, err)
			continue
		}
		if note.WaypointID != id {
			continue
		}
		if _, err := s.notes.SetWaypoint(noteID, ""); err != nil {
			s.logger.Printf("delete %s: clear back-reference on note %s: %v", id, noteID, err)
		}
	}

	s.emitter.Emit(notify.EventWaypointDeleted, map[string]any{"id": id})
	return nil
}

// Get returns one waypoint by id, with its derived status current.
func (s *Service) Get(id string) (*types.Waypoint, error) {
	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, id)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", id, types.ErrNotFound)
	}
	return wp.Clone(), nil
}

// List returns the waypoints on the given branch in storage order. An
// empty branch means the session's active branch; BranchAll means every
// branch.
func (s *Service) List(branch string) ([]*types.Waypoint, error) {
	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	return s.filterBranch(wps, branch), nil
}

// BranchAll selects waypoints across every branch in List.
const BranchAll = "*"

func (s *Service) filterBranch(wps []*types.Waypoint, branch string) []*types.Waypoint {
	if branch == "" {
		branch = s.sess.ActiveBranch()
	}
	out := make([]*types.Waypoint, 0, len(wps))
	for _, wp := range wps {
		if branch == BranchAll || wp.Branch == branch {
			out = append(out, wp.Clone())
		}
	}
	return out
}

// GetRoute returns the branch's waypoints in topological order: the
// route through the exploration. An empty branch means the active branch.
func (s *Service) GetRoute(branch string) ([]*types.Waypoint, error) {
	wps, err := s.List(branch)
	if err != nil {
		return nil, err
	}
	return engine.TopoSort(wps), nil
}

// GetReady returns the branch's waypoints whose derived status is ready,
// in storage order.
func (s *Service) GetReady(branch string) ([]*types.Waypoint, error) {
	wps, err := s.List(branch)
	if err != nil {
		return nil, err
	}
	ready := make([]*types.Waypoint, 0, len(wps))
	for _, wp := range wps {
		if wp.Status == types.StatusReady {
			ready = append(ready, wp)
		}
	}
	return ready, nil
}
