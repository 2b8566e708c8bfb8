package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/steveyegge/waymark/internal/types"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	s := NewFileStorage(filepath.Join(t.TempDir(), DirName))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestFileStorage_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)

	in := []*types.Waypoint{
		{
			ID:        "wp-0001",
			Title:     "Survey the area",
			Status:    types.StatusReady,
			Branch:    types.DefaultBranch,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "wp-0002",
			Title:     "Set up camp",
			Status:    types.StatusBlocked,
			DependsOn: []string{"wp-0001"},
			Branch:    types.DefaultBranch,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.Write(KeyWaypoints, in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var out []*types.Waypoint
	if err := s.Read(KeyWaypoints, &out); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("read %d waypoints, want 2", len(out))
	}
	if out[0].ID != "wp-0001" || out[1].ID != "wp-0002" {
		t.Errorf("storage order not preserved: %s, %s", out[0].ID, out[1].ID)
	}
	if out[1].DependsOn[0] != "wp-0001" {
		t.Errorf("depends_on lost in round trip")
	}
}

func TestFileStorage_MissingCollectionReadsEmpty(t *testing.T) {
	s := newTestStorage(t)
	var out []*types.Waypoint
	if err := s.Read(KeyWaypoints, &out); err != nil {
		t.Fatalf("Read of missing collection: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("missing collection read %d records, want 0", len(out))
	}
}

func TestFileStorage_UninitializedRoot(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), DirName))
	var out []*types.Waypoint
	err := s.Read(KeyWaypoints, &out)
	if !errors.Is(err, types.ErrNoActiveContext) {
		t.Errorf("Read on uninitialized root = %v, want ErrNoActiveContext", err)
	}
	if err := s.Write(KeyWaypoints, out); !errors.Is(err, types.ErrNoActiveContext) {
		t.Errorf("Write on uninitialized root = %v, want ErrNoActiveContext", err)
	}
}

func TestFileStorage_WriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStorage(t)
	if err := s.Write(KeyBranches, []*types.Branch{{Name: "main"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStorage_CorruptCollection(t *testing.T) {
	s := newTestStorage(t)
	if err := os.WriteFile(s.path(KeyWaypoints), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	var out []*types.Waypoint
	err := s.Read(KeyWaypoints, &out)
	if !errors.Is(err, types.ErrPersistence) {
		t.Errorf("corrupt collection read = %v, want ErrPersistence", err)
	}
}
