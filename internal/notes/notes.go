// Package notes provides the note collaborator consumed by the waypoint
// core. Notes are free-text annotations that live outside the dependency
// graph; the core only reads them by id and maintains the waypoint
// back-reference on link, unlink, and delete.
package notes

import (
	"fmt"
	"time"

	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/types"
)

// Note is an external annotation entity. Only ID and WaypointID matter to
// the core; Text is carried for the CLI.
type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	// WaypointID is the back-reference set when the note is linked to a
	// waypoint, empty when unlinked.
	WaypointID string `json:"waypoint_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collaborator is the narrow surface the waypoint core uses: resolve a
// note by id and rewrite its waypoint back-reference.
type Collaborator interface {
	// Get returns the note, or a types.ErrNotFound error if unknown.
	Get(id string) (*Note, error)

	// SetWaypoint rewrites the note's waypoint back-reference. An empty
	// waypointID clears it.
	SetWaypoint(id, waypointID string) (*Note, error)
}

// FileStore is a Collaborator backed by the shared collection storage.
type FileStore struct {
	storage store.Storage
	now     func() time.Time
}

// NewFileStore returns a note store over the given storage. A nil now
// falls back to time.Now.
func NewFileStore(storage store.Storage, now func() time.Time) *FileStore {
	if now == nil {
		now = time.Now
	}
	return &FileStore{storage: storage, now: now}
}

func (s *FileStore) load() ([]*Note, error) {
	var all []*Note
	if err := s.storage.Read(store.KeyNotes, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Add creates a new note with the given id and text.
func (s *FileStore) Add(id, text string) (*Note, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: note id is required", types.ErrInvalidInput)
	}
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, n := range all {
		if n.ID == id {
			return nil, fmt.Errorf("note %s: %w", id, types.ErrConflict)
		}
	}
	now := s.now()
	note := &Note{ID: id, Text: text, CreatedAt: now, UpdatedAt: now}
	all = append(all, note)
	if err := s.storage.Write(store.KeyNotes, all); err != nil {
		return nil, err
	}
	return note, nil
}

// Get implements Collaborator.
func (s *FileStore) Get(id string) (*Note, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, n := range all {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("note %s: %w", id, types.ErrNotFound)
}

// SetWaypoint implements Collaborator.
func (s *FileStore) SetWaypoint(id, waypointID string) (*Note, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, n := range all {
		if n.ID == id {
			n.WaypointID = waypointID
			n.UpdatedAt = s.now()
			if err := s.storage.Write(store.KeyNotes, all); err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	return nil, fmt.Errorf("note %s: %w", id, types.ErrNotFound)
}

// List returns all notes in storage order.
func (s *FileStore) List() ([]*Note, error) {
	return s.load()
}
