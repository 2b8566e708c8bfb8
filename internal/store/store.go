// Package store persists waymark collections as JSON files under a data
// root. Every collection is written whole: read, mutate in memory, write
// back atomically via a temp file and rename. The design assumes a single
// active process per data root; there is no cross-process locking.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steveyegge/waymark/internal/types"
)

// Collection keys used by the core.
const (
	KeyWaypoints = "waypoints"
	KeyBranches  = "branches"
	KeyNotes     = "notes"
)

// Storage reads and writes whole collections keyed by name. A missing
// collection reads as empty; Write replaces the collection atomically.
type Storage interface {
	// Read decodes the collection into out, which must be a pointer to a
	// slice. A collection that has never been written leaves out empty.
	Read(key string, out any) error

	// Write atomically replaces the collection with records.
	Write(key string, records any) error
}

// FileStorage implements Storage with one pretty-printed JSON file per
// collection under the data root directory.
type FileStorage struct {
	dir string
}

// DirName is the data root directory created inside a workspace.
const DirName = ".waymark"

// NewFileStorage returns a FileStorage rooted at dir. The directory is not
// created; call Init first for new roots.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the data root directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Initialized reports whether the data root directory exists.
func (s *FileStorage) Initialized() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Init creates the data root directory.
func (s *FileStorage) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &types.PersistenceError{Op: "init", Key: s.dir, Err: err}
	}
	return nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read implements Storage.
func (s *FileStorage) Read(key string, out any) error {
	if !s.Initialized() {
		return fmt.Errorf("%w: %s not initialized (run 'wm init')", types.ErrNoActiveContext, s.dir)
	}
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil // never written, reads as empty
	}
	if err != nil {
		return &types.PersistenceError{Op: "read", Key: key, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &types.PersistenceError{Op: "read", Key: key, Err: err}
	}
	return nil
}

// Write implements Storage. The records are marshaled to a temp file in
// the same directory and renamed over the target, so readers never see a
// partial collection.
func (s *FileStorage) Write(key string, records any) error {
	if !s.Initialized() {
		return fmt.Errorf("%w: %s not initialized (run 'wm init')", types.ErrNoActiveContext, s.dir)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &types.PersistenceError{Op: "write", Key: key, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return &types.PersistenceError{Op: "write", Key: key, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &types.PersistenceError{Op: "write", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &types.PersistenceError{Op: "write", Key: key, Err: err}
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return &types.PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}
