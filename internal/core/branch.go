package core

import (
	"fmt"

	"github.com/steveyegge/waymark/internal/notify"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/types"
)

// CreateBranch registers a new branch name. The name must be non-empty
// and not already known.
func (s *Service) CreateBranch(name, reasoning string) (*types.Branch, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: branch name is required", types.ErrInvalidInput)
	}

	known, err := s.knownBranches()
	if err != nil {
		return nil, err
	}
	for _, b := range known {
		if b == name {
			return nil, fmt.Errorf("branch %s: %w", name, types.ErrConflict)
		}
	}

	branches, err := s.loadBranches()
	if err != nil {
		return nil, err
	}
	branch := &types.Branch{Name: name, Reasoning: reasoning, CreatedAt: s.now()}
	branches = append(branches, branch)
	if err := s.storage.Write(store.KeyBranches, branches); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventBranchCreated, map[string]any{"name": name})
	return branch, nil
}

// SwitchBranch repoints the session's active branch. The target must be
// the default branch, a registered branch, or a branch observed on an
// existing waypoint. The pointer is process-local and never persisted.
func (s *Service) SwitchBranch(name string) error {
	known, err := s.knownBranches()
	if err != nil {
		return err
	}
	for _, b := range known {
		if b == name {
			s.sess.SetActiveBranch(name)
			return nil
		}
	}
	return fmt.Errorf("branch %s: %w", name, types.ErrNotFound)
}

// ActiveBranch returns the session's active branch name.
func (s *Service) ActiveBranch() string {
	return s.sess.ActiveBranch()
}

// ListBranches returns every known branch name exactly once: the default
// branch, then registered branches, then branch tags observed on
// waypoints, in discovery order.
func (s *Service) ListBranches() ([]string, error) {
	return s.knownBranches()
}

func (s *Service) knownBranches() ([]string, error) {
	seen := map[string]bool{types.DefaultBranch: true}
	names := []string{types.DefaultBranch}

	branches, err := s.loadBranches()
	if err != nil {
		return nil, err
	}
	for _, b := range branches {
		if !seen[b.Name] {
			seen[b.Name] = true
			names = append(names, b.Name)
		}
	}

	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	for _, wp := range wps {
		if wp.Branch != "" && !seen[wp.Branch] {
			seen[wp.Branch] = true
			names = append(names, wp.Branch)
		}
	}
	return names, nil
}

// MergeBranch copies every waypoint on source onto target as a brand-new
// waypoint: fresh id, title/description/reasoning carried over, status
// reset to ready (the source status is deliberately discarded), and no
// linked notes. Dependency ids are remapped to the new copies where the
// dependency was part of the merged set; edges pointing outside the set
// keep referencing the originals on the source branch. Source waypoints
// are untouched.
//
// An empty source is a no-op: the returned slice is empty and err is nil;
// the caller is expected to surface the warning.
func (s *Service) MergeBranch(source, target string) ([]*types.Waypoint, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: source and target branches are required", types.ErrInvalidInput)
	}
	if source == target {
		return nil, fmt.Errorf("%w: cannot merge branch %s into itself", types.ErrInvalidInput, source)
	}

	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}

	var sourceWPs []*types.Waypoint
	for _, wp := range wps {
		if wp.Branch == source {
			sourceWPs = append(sourceWPs, wp)
		}
	}
	if len(sourceWPs) == 0 {
		s.logger.Printf("merge %s -> %s: source branch has no waypoints, nothing to do", source, target)
		return nil, nil
	}

	// First pass: allocate ids so the second pass can remap edges within
	// the merged set regardless of storage order.
	taken := make(map[string]bool, len(wps))
	for _, wp := range wps {
		taken[wp.ID] = true
	}
	idMap := make(map[string]string, len(sourceWPs))
	for _, wp := range sourceWPs {
		id := s.newID()
		for taken[id] {
			id = s.newID()
		}
		taken[id] = true
		idMap[wp.ID] = id
	}

	now := s.now()
	copies := make([]*types.Waypoint, 0, len(sourceWPs))
	for _, src := range sourceWPs {
		deps := make([]string, 0, len(src.DependsOn))
		for _, dep := range src.DependsOn {
			if mapped, ok := idMap[dep]; ok {
				deps = append(deps, mapped)
			} else {
				deps = append(deps, dep)
			}
		}
		copies = append(copies, &types.Waypoint{
			ID:          idMap[src.ID],
			Title:       src.Title,
			Description: src.Description,
			Reasoning:   src.Reasoning,
			Status:      types.StatusReady,
			DependsOn:   deps,
			Branch:      target,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	wps = append(wps, copies...)
	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}

	s.emitter.Emit(notify.EventBranchMerged, map[string]any{
		"source": source, "target": target, "copied": len(copies),
	})

	out := make([]*types.Waypoint, len(copies))
	for i, wp := range copies {
		out[i] = wp.Clone()
	}
	return out, nil
}
