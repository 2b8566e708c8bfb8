// Package core implements the waypoint dependency-graph engine behind
// every public waymark operation. All mutations follow the same shape:
// load the full waypoint collection, validate entirely up front, apply
// one change in memory, recompute derived statuses over the whole set,
// persist atomically, and emit a notification. A failed validation leaves
// no trace, in memory or on disk.
package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/steveyegge/waymark/internal/engine"
	"github.com/steveyegge/waymark/internal/notes"
	"github.com/steveyegge/waymark/internal/notify"
	"github.com/steveyegge/waymark/internal/session"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/types"
)

// Service orchestrates waypoint CRUD, dependency mutation, branch
// management, and note linking over one data root. Operations run
// synchronously to completion; the service is not safe for concurrent use
// and is not meant to be.
type Service struct {
	storage store.Storage
	notes   notes.Collaborator
	emitter notify.Emitter
	sess    *session.Session
	newID   func() string
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator replaces the id generator. Used in tests for stable ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithClock replaces the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger replaces the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a Service over the given collaborators. A nil emitter
// discards events.
func New(storage store.Storage, noteStore notes.Collaborator, emitter notify.Emitter, sess *session.Session, opts ...Option) *Service {
	if emitter == nil {
		emitter = notify.Discard
	}
	s := &Service{
		storage: storage,
		notes:   noteStore,
		emitter: emitter,
		sess:    sess,
		newID:   defaultNewID,
		now:     time.Now,
		logger:  log.New(os.Stderr, "[waymark] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the session this service operates in.
func (s *Service) Session() *session.Session {
	return s.sess
}

// defaultNewID generates a short opaque waypoint id: "wp-" plus four
// random hex characters. Collisions are handled by the caller retrying.
func defaultNewID() string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for id generation
		panic(fmt.Sprintf("waymark: cannot generate id: %v", err))
	}
	return "wp-" + hex.EncodeToString(b)
}

// freshID returns a generated id not present in the snapshot.
func (s *Service) freshID(wps []*types.Waypoint) string {
	taken := make(map[string]bool, len(wps))
	for _, wp := range wps {
		taken[wp.ID] = true
	}
	for {
		id := s.newID()
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
}

// loadWaypoints reads the full waypoint collection, drops records that
// fail validation (possible only through external edits), and recomputes
// derived statuses, so every read path sees a consistent snapshot. A
// skipped record is logged; the next mutation persists the collection
// without it.
func (s *Service) loadWaypoints() ([]*types.Waypoint, error) {
	var all []*types.Waypoint
	if err := s.storage.Read(store.KeyWaypoints, &all); err != nil {
		return nil, err
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
	return wps, nil
}

// saveWaypoints recomputes derived statuses over the full set and writes
// the collection back. Called at the end of every mutation.
func (s *Service) saveWaypoints(wps []*types.Waypoint) error {
	engine.ComputeStatuses(wps)
	return s.storage.Write(store.KeyWaypoints, wps)
}

func (s *Service) loadBranches() ([]*types.Branch, error) {
	var branches []*types.Branch
	if err := s.storage.Read(store.KeyBranches, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// find returns the waypoint with the given id, or nil.
func find(wps []*types.Waypoint, id string) *types.Waypoint {
	for _, wp := range wps {
		if wp.ID == id {
			return wp
		}
	}
	return nil
}
