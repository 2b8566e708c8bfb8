// Package notify delivers fire-and-forget event notifications from the
// waypoint core to whoever listens: the debug log, an append-only JSONL
// event file, or the dashboard broadcaster. Emit never returns an error
// and emitter failures never reach the caller.
package notify

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Event names emitted by the core.
const (
	EventWaypointCreated = "waypoint.created"
	EventWaypointUpdated = "waypoint.updated"
	EventWaypointDeleted = "waypoint.deleted"
	EventStatusChanged   = "waypoint.status_changed"
	EventDepAdded        = "dependency.added"
	EventDepRemoved      = "dependency.removed"
	EventNoteLinked      = "note.linked"
	EventNoteUnlinked    = "note.unlinked"
	EventBranchCreated   = "branch.created"
	EventBranchMerged    = "branch.merged"
)

// Emitter receives named events with an arbitrary JSON-marshalable
// payload. Implementations must swallow their own failures.
type Emitter interface {
	Emit(event string, payload any)
}

// Discard is an Emitter that drops everything. Useful in tests.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(string, any) {}

// LogEmitter writes one line per event to a log.Logger.
type LogEmitter struct {
	logger *log.Logger
}

// NewLogEmitter returns a LogEmitter. A nil logger defaults to stderr
// with an "[event]" prefix.
func NewLogEmitter(logger *log.Logger) *LogEmitter {
	if logger == nil {
		logger = log.New(os.Stderr, "[event] ", log.LstdFlags)
	}
	return &LogEmitter{logger: logger}
}

// Emit implements Emitter.
func (e *LogEmitter) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Printf("%s (unmarshalable payload: %v)", event, err)
		return
	}
	e.logger.Printf("%s %s", event, data)
}

// record is one line of the JSONL event file.
type record struct {
	Timestamp time.Time `json:"ts"`
	Event     string    `json:"event"`
	Payload   any       `json:"payload,omitempty"`
}

// FileEmitter appends events as JSONL to a file, one record per line.
// Write failures are logged and dropped.
type FileEmitter struct {
	path   string
	now    func() time.Time
	logger *log.Logger
	mu     sync.Mutex
}

// NewFileEmitter returns a FileEmitter appending to path.
func NewFileEmitter(path string, logger *log.Logger) *FileEmitter {
	if logger == nil {
		logger = log.New(os.Stderr, "[event] ", log.LstdFlags)
	}
	return &FileEmitter{path: path, now: time.Now, logger: logger}
}

// Emit implements Emitter.
func (e *FileEmitter) Emit(event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, err := json.Marshal(record{Timestamp: e.now(), Event: event, Payload: payload})
	if err != nil {
		e.logger.Printf("drop event %s: %v", event, err)
		return
	}

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		e.logger.Printf("drop event %s: %v", event, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		e.logger.Printf("drop event %s: %v", event, err)
	}
}

// Multi fans one event out to several emitters in order.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(event string, payload any) {
	for _, e := range m {
		e.Emit(event, payload)
	}
}
