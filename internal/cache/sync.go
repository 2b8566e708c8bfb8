package cache

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/steveyegge/waymark/internal/engine"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/types"
)

// Syncer refreshes the SQLite mirror from the collection storage.
type Syncer struct {
	db      *DB
	storage store.Storage
	logger  *log.Logger
}

// NewSyncer creates a Syncer. The database must be open with its schema
// initialized. A nil logger defaults to stderr.
func NewSyncer(db *DB, storage store.Storage, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Syncer{db: db, storage: storage, logger: logger}
}

// FullSync reads the whole waypoint collection, recomputes derived
// statuses, and replaces the mirror. Records that fail validation are
// skipped with a warning, the same view the core takes of the collection.
// Returns the number of waypoints and dependency edges synced.
func (s *Syncer) FullSync(ctx context.Context) (int, int, error) {
	var all []*types.Waypoint
	if err := s.storage.Read(store.KeyWaypoints, &all); err != nil {
		return 0, 0, fmt.Errorf("read waypoint collection: %w", err)
	}
	wps := all[:0]
	for _, wp := range all {
		if err := wp.Validate(); err != nil {
			s.logger.Printf("skip invalid waypoint record %q: %v", wp.ID, err)
			continue
		}
		wps = append(wps, wp)
	}
	engine.ComputeStatuses(wps)

	if err := s.db.ReplaceAll(ctx, wps); err != nil {
		return 0, 0, fmt.Errorf("replace cache mirror: %w", err)
	}

	depCount := 0
	for _, wp := range wps {
		depCount += len(wp.DependsOn)
	}
	s.logger.Printf("Synced %d waypoints, %d deps", len(wps), depCount)
	return len(wps), depCount, nil
}
