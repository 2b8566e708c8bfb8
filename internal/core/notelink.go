package core

import (
	"fmt"

	"github.com/steveyegge/waymark/internal/notify"
	"github.com/steveyegge/waymark/internal/types"
)

// LinkNote attaches a note to a waypoint: the note id is appended to the
// waypoint's linked_note_ids and the note's back-reference is set to the
// waypoint. A note links to at most one waypoint; linking a note that
// already belongs to a different waypoint is a conflict and must go
// through UnlinkNote first. The two sides are updated by sequential calls
// with no rollback; if setting the back-reference fails after the
// waypoint side persisted, the error is returned and the waypoint side
// stands.
func (s *Service) LinkNote(noteID, waypointID string) (*types.Waypoint, error) {
	note, err := s.notes.Get(noteID)
	if err != nil {
		return nil, err
	}
	if note.WaypointID != "" && note.WaypointID != waypointID {
		return nil, fmt.Errorf("note %s already linked to %s: %w", noteID, note.WaypointID, types.ErrConflict)
	}

	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, waypointID)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", waypointID, types.ErrNotFound)
	}
	if wp.HasNote(noteID) {
		return nil, fmt.Errorf("note %s already linked to %s: %w", noteID, waypointID, types.ErrConflict)
	}

	wp.LinkedNoteIDs = append(wp.LinkedNoteIDs, noteID)
	wp.UpdatedAt = s.now()

	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}
	if _, err := s.notes.SetWaypoint(noteID, waypointID); err != nil {
		return nil, fmt.Errorf("note %s linked but back-reference not set: %w", noteID, err)
	}

	s.emitter.Emit(notify.EventNoteLinked, map[string]any{
		"note": noteID, "waypoint": waypointID,
	})
	return wp.Clone(), nil
}

// UnlinkNote is the inverse of LinkNote, failing when the note is not
// currently linked to the waypoint.
func (s *Service) UnlinkNote(noteID, waypointID string) (*types.Waypoint, error) {
	wps, err := s.loadWaypoints()
	if err != nil {
		return nil, err
	}
	wp := find(wps, waypointID)
	if wp == nil {
		return nil, fmt.Errorf("waypoint %s: %w", waypointID, types.ErrNotFound)
	}
	if !wp.HasNote(noteID) {
		return nil, fmt.Errorf("note %s not linked to %s: %w", noteID, waypointID, types.ErrNotFound)
	}

	linked := wp.LinkedNoteIDs[:0]
	for _, n := range wp.LinkedNoteIDs {
		if n != noteID {
			linked = append(linked, n)
		}
	}
	wp.LinkedNoteIDs = linked
	wp.UpdatedAt = s.now()

	if err := s.saveWaypoints(wps); err != nil {
		return nil, err
	}
	if _, err := s.notes.SetWaypoint(noteID, ""); err != nil {
		return nil, fmt.Errorf("note %s unlinked but back-reference not cleared: %w", noteID, err)
	}

	s.emitter.Emit(notify.EventNoteUnlinked, map[string]any{
		"note": noteID, "waypoint": waypointID,
	})
	return wp.Clone(), nil
}
