package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/steveyegge/waymark/internal/notes"
	"github.com/steveyegge/waymark/internal/session"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/types"
)

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	events []string
}

func (c *captureEmitter) Emit(event string, payload any) {
	c.events = append(c.events, event)
}

func (c *captureEmitter) has(event string) bool {
	for _, e := range c.events {
		if e == event {
			return true
		}
	}
	return false
}

type fixture struct {
	svc     *Service
	notes   *notes.FileStore
	emitted *captureEmitter
	storage *store.FileStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage := store.NewFileStorage(filepath.Join(t.TempDir(), store.DirName))
	if err := storage.Init(); err != nil {
		t.Fatalf("init storage: %v", err)
	}

	seq := 0
	gen := func() string {
		seq++
		return fmt.Sprintf("wp-%04d", seq)
	}
	clock := func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	noteStore := notes.NewFileStore(storage, clock)
	emitted := &captureEmitter{}
	sess := session.New()
	svc := New(storage, noteStore, emitted, sess, WithIDGenerator(gen), WithClock(clock))
	return &fixture{svc: svc, notes: noteStore, emitted: emitted, storage: storage}
}

func (f *fixture) mustCreate(t *testing.T, title string, deps ...string) *types.Waypoint {
	t.Helper()
	wp, err := f.svc.CreateWaypoint(CreateInput{Title: title, DependsOn: deps})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return wp
}

func (f *fixture) mustGet(t *testing.T, id string) *types.Waypoint {
	t.Helper()
	wp, err := f.svc.Get(id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return wp
}

func TestCreateWaypoint(t *testing.T) {
	f := newFixture(t)

	wp := f.mustCreate(t, "Survey the ridge")
	if wp.ID == "" {
		t.Fatal("created waypoint has no id")
	}
	if wp.Status != types.StatusReady {
		t.Errorf("fresh waypoint status = %s, want ready", wp.Status)
	}
	if wp.Branch != types.DefaultBranch {
		t.Errorf("branch = %s, want %s", wp.Branch, types.DefaultBranch)
	}
	if !f.emitted.has("waypoint.created") {
		t.Error("waypoint.created event not emitted")
	}
}

func TestCreateWaypoint_Validation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.CreateWaypoint(CreateInput{}); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("empty title: got %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.CreateWaypoint(CreateInput{Title: "x", DependsOn: []string{"ghost"}}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown dependency: got %v, want ErrNotFound", err)
	}

	a := f.mustCreate(t, "a")
	if _, err := f.svc.CreateWaypoint(CreateInput{Title: "x", DependsOn: []string{a.ID, a.ID}}); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("duplicate dependency: got %v, want ErrInvalidInput", err)
	}
}

func TestCreateWaypoint_WithDependencyIsBlocked(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "a")
	b := f.mustCreate(t, "b", a.ID)
	if b.Status != types.StatusBlocked {
		t.Errorf("b status = %s, want blocked", b.Status)
	}
}

func TestStatusCascade(t *testing.T) {
	// Scenario: A (no deps), B depends on A. Route is [A, B] and B is
	// blocked until A is done.
	f := newFixture(t)
	a := f.mustCreate(t, "A")
	b := f.mustCreate(t, "B", a.ID)

	route, err := f.svc.GetRoute("")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(route) != 2 || route[0].ID != a.ID || route[1].ID != b.ID {
		t.Fatalf("route order wrong: %v", route)
	}
	if route[1].Status != types.StatusBlocked {
		t.Errorf("B status = %s, want blocked", route[1].Status)
	}

	if _, err := f.svc.SetStatus(a.ID, types.StatusActive); err != nil {
		t.Fatalf("A -> active: %v", err)
	}
	if got := f.mustGet(t, b.ID).Status; got != types.StatusBlocked {
		t.Errorf("B after A active = %s, want blocked", got)
	}

	if _, err := f.svc.SetStatus(a.ID, types.StatusDone); err != nil {
		t.Fatalf("A -> done: %v", err)
	}
	if got := f.mustGet(t, b.ID).Status; got != types.StatusReady {
		t.Errorf("B after A done = %s, want ready", got)
	}

	// A leaving done re-blocks B.
	if _, err := f.svc.SetStatus(a.ID, types.StatusActive); err != nil {
		t.Fatalf("A done -> active: %v", err)
	}
	if got := f.mustGet(t, b.ID).Status; got != types.StatusBlocked {
		t.Errorf("B after A reopened = %s, want blocked", got)
	}
}

func TestSetStatus_InvalidTransition(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "a")
	b := f.mustCreate(t, "b", a.ID) // blocked

	_, err := f.svc.SetStatus(b.ID, "not-a-real-status")
	var ite *types.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("got %v, want InvalidTransitionError", err)
	}
	if ite.From != types.StatusBlocked {
		t.Errorf("reported current status %s, want blocked", ite.From)
	}

	if _, err := f.svc.SetStatus(b.ID, types.StatusDone); !errors.Is(err, types.ErrInvalidTransition) {
		t.Errorf("blocked -> done: got %v, want ErrInvalidTransition", err)
	}
	if got := f.mustGet(t, b.ID).Status; got != types.StatusBlocked {
		t.Errorf("status changed after rejected transition: %s", got)
	}
}

func TestSetStatus_UnknownWaypoint(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.SetStatus("ghost", types.StatusActive); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestAddDependency_SelfRejected(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "a")

	_, err := f.svc.AddDependency(a.ID, a.ID)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("self-dependency: got %v, want ErrInvalidInput", err)
	}
	if deps := f.mustGet(t, a.ID).DependsOn; len(deps) != 0 {
		t.Errorf("state changed after rejected self-dependency: %v", deps)
	}
}

func TestAddDependency_Preconditions(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "a")
	b := f.mustCreate(t, "b")
	c := f.mustCreate(t, "c")

	if _, err := f.svc.AddDependency(a.ID, "ghost"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown dependency: got %v, want ErrNotFound", err)
	}
	if _, err := f.svc.AddDependency("ghost", a.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown waypoint: got %v, want ErrNotFound", err)
	}

	if _, err := f.svc.AddDependency(b.ID, a.ID); err != nil {
		t.Fatalf("b -> a: %v", err)
	}
	if _, err := f.svc.AddDependency(b.ID, a.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("duplicate edge: got %v, want ErrConflict", err)
	}

	// Chain a <- b <- c, then closing the loop is a cycle.
	if _, err := f.svc.AddDependency(c.ID, b.ID); err != nil {
		t.Fatalf("c -> b: %v", err)
	}
	_, err := f.svc.AddDependency(a.ID, c.ID)
	if !errors.Is(err, types.ErrWouldCycle) {
		t.Fatalf("cycle: got %v, want ErrWouldCycle", err)
	}
	var ce *types.CycleError
	if !errors.As(err, &ce) || ce.WaypointID != a.ID || ce.DependencyID != c.ID {
		t.Errorf("cycle error endpoints wrong: %v", err)
	}
	if deps := f.mustGet(t, a.ID).DependsOn; len(deps) != 0 {
		t.Errorf("state changed after rejected cycle: %v", deps)
	}
}

func TestRemoveDependency(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "a")
	b := f.mustCreate(t, "b", a.ID)

	if _, err := f.svc.RemoveDependency(b.ID, "ghost"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("absent edge: got %v, want ErrNotFound", err)
	}

	wp, err := f.svc.RemoveDependency(b.ID, a.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(wp.DependsOn) != 0 {
		t.Errorf("edge not removed: %v", wp.DependsOn)
	}
	if wp.Status != types.StatusReady {
		t.Errorf("b should be ready after losing its blocker, got %s", wp.Status)
	}
}

func TestDeleteWaypoint_RepairsDependents(t *testing.T) {
	// Deleting X, a dependency of Y, strips X from Y's depends_on.
	f := newFixture(t)
	x := f.mustCreate(t, "X")
	y := f.mustCreate(t, "Y", x.ID)

	if err := f.svc.DeleteWaypoint(x.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := f.mustGet(t, y.ID)
	if len(got.DependsOn) != 0 {
		t.Errorf("Y still depends on deleted waypoint: %v", got.DependsOn)
	}
	if got.Status != types.StatusReady {
		t.Errorf("Y status = %s, want ready after repair", got.Status)
	}

	if _, err := f.svc.Get(x.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("deleted waypoint still readable: %v", err)
	}
	if err := f.svc.DeleteWaypoint(x.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestDeleteWaypoint_ClearsNoteBackReferences(t *testing.T) {
	f := newFixture(t)
	wp := f.mustCreate(t, "annotated")
	if _, err := f.notes.Add("note-1", "remember the pass"); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if _, err := f.svc.LinkNote("note-1", wp.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	if err := f.svc.DeleteWaypoint(wp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	n, err := f.notes.Get("note-1")
	if err != nil {
		t.Fatalf("note gone: %v", err)
	}
	if n.WaypointID != "" {
		t.Errorf("note back-reference not cleared: %q", n.WaypointID)
	}
}

func TestLinkUnlinkNote(t *testing.T) {
	f := newFixture(t)
	wp := f.mustCreate(t, "annotated")
	if _, err := f.notes.Add("note-1", "text"); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.LinkNote("ghost", wp.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown note: got %v, want ErrNotFound", err)
	}
	if _, err := f.svc.LinkNote("note-1", "ghost"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown waypoint: got %v, want ErrNotFound", err)
	}

	got, err := f.svc.LinkNote("note-1", wp.ID)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !got.HasNote("note-1") {
		t.Error("note id missing from linked_note_ids")
	}
	n, _ := f.notes.Get("note-1")
	if n.WaypointID != wp.ID {
		t.Errorf("back-reference = %q, want %s", n.WaypointID, wp.ID)
	}

	if _, err := f.svc.LinkNote("note-1", wp.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("duplicate link: got %v, want ErrConflict", err)
	}

	got, err = f.svc.UnlinkNote("note-1", wp.ID)
	if err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if got.HasNote("note-1") {
		t.Error("note id still in linked_note_ids after unlink")
	}
	n, _ = f.notes.Get("note-1")
	if n.WaypointID != "" {
		t.Errorf("back-reference not cleared, got %q", n.WaypointID)
	}

	if _, err := f.svc.UnlinkNote("note-1", wp.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unlink when not linked: got %v, want ErrNotFound", err)
	}
}

func TestLinkNote_RejectsSecondWaypoint(t *testing.T) {
	// A note belongs to at most one waypoint; moving it requires an
	// explicit unlink first.
	f := newFixture(t)
	a := f.mustCreate(t, "A")
	b := f.mustCreate(t, "B")
	if _, err := f.notes.Add("note-1", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.LinkNote("note-1", a.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	if _, err := f.svc.LinkNote("note-1", b.ID); !errors.Is(err, types.ErrConflict) {
		t.Errorf("link to second waypoint: got %v, want ErrConflict", err)
	}

	// The rejected link left both sides untouched.
	if got := f.mustGet(t, a.ID); !got.HasNote("note-1") {
		t.Error("first waypoint lost its note link")
	}
	if got := f.mustGet(t, b.ID); len(got.LinkedNoteIDs) != 0 {
		t.Errorf("second waypoint gained a link: %v", got.LinkedNoteIDs)
	}
	if n, _ := f.notes.Get("note-1"); n.WaypointID != a.ID {
		t.Errorf("back-reference = %q, want %s", n.WaypointID, a.ID)
	}

	// Unlinking frees the note to move.
	if _, err := f.svc.UnlinkNote("note-1", a.ID); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if _, err := f.svc.LinkNote("note-1", b.ID); err != nil {
		t.Fatalf("relink after unlink: %v", err)
	}
	if n, _ := f.notes.Get("note-1"); n.WaypointID != b.ID {
		t.Errorf("back-reference = %q, want %s", n.WaypointID, b.ID)
	}
}

func TestDeleteWaypoint_KeepsRelocatedNoteBackReference(t *testing.T) {
	// Deletion clears only back-references that still point at the
	// deleted waypoint. A note moved elsewhere behind the waypoint's back
	// keeps its current link.
	f := newFixture(t)
	wp := f.mustCreate(t, "annotated")
	if _, err := f.notes.Add("note-1", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.LinkNote("note-1", wp.ID); err != nil {
		t.Fatalf("link: %v", err)
	}
	if _, err := f.notes.SetWaypoint("note-1", "wp-elsewhere"); err != nil {
		t.Fatalf("move note: %v", err)
	}

	if err := f.svc.DeleteWaypoint(wp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	n, err := f.notes.Get("note-1")
	if err != nil {
		t.Fatalf("note gone: %v", err)
	}
	if n.WaypointID != "wp-elsewhere" {
		t.Errorf("delete clobbered the note's current link: back-reference = %q, want wp-elsewhere", n.WaypointID)
	}
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	// Externally edited records that fail validation are dropped with a
	// warning on load rather than failing every operation, and the next
	// mutation persists the collection without them.
	f := newFixture(t)
	good := f.mustCreate(t, "good")

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	var raw []*types.Waypoint
	if err := f.storage.Read(store.KeyWaypoints, &raw); err != nil {
		t.Fatalf("read raw: %v", err)
	}
	raw = append(raw,
		&types.Waypoint{ID: "wp-edit1", Title: "edited", Status: types.Status("paused"),
			Branch: types.DefaultBranch, CreatedAt: now, UpdatedAt: now},
		&types.Waypoint{ID: "wp-edit2", Status: types.StatusReady,
			Branch: types.DefaultBranch, CreatedAt: now, UpdatedAt: now},
	)
	if err := f.storage.Write(store.KeyWaypoints, raw); err != nil {
		t.Fatalf("write raw: %v", err)
	}

	all, err := f.svc.List(BranchAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].ID != good.ID {
		t.Fatalf("list = %d records, want only %s", len(all), good.ID)
	}
	if _, err := f.svc.Get("wp-edit1"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("invalid record readable: %v", err)
	}

	f.mustCreate(t, "second")
	raw = nil
	if err := f.storage.Read(store.KeyWaypoints, &raw); err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("persisted %d records after mutation, want 2 valid ones", len(raw))
	}
}

func TestUpdateWaypoint(t *testing.T) {
	f := newFixture(t)
	wp := f.mustCreate(t, "old title")

	title := "new title"
	reasoning := "sharper framing"
	got, err := f.svc.UpdateWaypoint(wp.ID, types.UpdatePatch{Title: &title, Reasoning: &reasoning})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != title || got.Reasoning != reasoning {
		t.Errorf("patch not applied: %+v", got)
	}

	empty := ""
	if _, err := f.svc.UpdateWaypoint(wp.ID, types.UpdatePatch{Title: &empty}); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("empty title: got %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.UpdateWaypoint("ghost", types.UpdatePatch{Title: &title}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown waypoint: got %v, want ErrNotFound", err)
	}
}

func TestGetReady(t *testing.T) {
	f := newFixture(t)
	a := f.mustCreate(t, "a")
	f.mustCreate(t, "b", a.ID)
	c := f.mustCreate(t, "c")
	if _, err := f.svc.SetStatus(c.ID, types.StatusActive); err != nil {
		t.Fatal(err)
	}

	ready, err := f.svc.GetReady("")
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != a.ID {
		t.Errorf("ready = %v, want just %s", ready, a.ID)
	}
}
