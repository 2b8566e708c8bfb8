package notify

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileEmitterAppendsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	e := NewFileEmitter(path, nil)

	e.Emit(EventWaypointCreated, map[string]any{"id": "wp-0001"})
	e.Emit(EventDepAdded, map[string]any{"id": "wp-0001", "depends_on": "wp-0002"})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open event file: %v", err)
	}
	defer f.Close()

	var events []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec struct {
			Event   string         `json:"event"`
			Payload map[string]any `json:"payload"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d not valid JSON: %v", len(events)+1, err)
		}
		events = append(events, rec.Event)
	}
	want := []string{EventWaypointCreated, EventDepAdded}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, ev, want[i])
		}
	}
}

func TestFileEmitterBadPathDoesNotPanic(t *testing.T) {
	e := NewFileEmitter(filepath.Join(t.TempDir(), "no", "such", "dir", "events.jsonl"), nil)
	e.Emit(EventWaypointDeleted, map[string]any{"id": "wp-0001"})
}

type countEmitter struct{ n int }

func (c *countEmitter) Emit(string, any) { c.n++ }

func TestMultiFansOut(t *testing.T) {
	a := &countEmitter{}
	b := &countEmitter{}
	m := Multi{a, b, Discard}
	m.Emit(EventStatusChanged, nil)
	m.Emit(EventStatusChanged, nil)
	if a.n != 2 || b.n != 2 {
		t.Errorf("fan-out counts = %d, %d; want 2, 2", a.n, b.n)
	}
}
