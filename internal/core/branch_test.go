package core

import (
	"errors"
	"testing"

	"github.com/steveyegge/waymark/internal/types"
)

func TestCreateBranch(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.CreateBranch("", ""); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("empty name: got %v, want ErrInvalidInput", err)
	}

	b, err := f.svc.CreateBranch("coastal-route", "try the shoreline instead")
	if err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if b.Name != "coastal-route" {
		t.Errorf("name = %s", b.Name)
	}

	if _, err := f.svc.CreateBranch("coastal-route", ""); !errors.Is(err, types.ErrConflict) {
		t.Errorf("duplicate name: got %v, want ErrConflict", err)
	}
	if _, err := f.svc.CreateBranch(types.DefaultBranch, ""); !errors.Is(err, types.ErrConflict) {
		t.Errorf("default branch name: got %v, want ErrConflict", err)
	}
}

func TestListBranches_DiscoveryOrder(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.CreateBranch("registered", ""); err != nil {
		t.Fatal(err)
	}
	// A branch only observed on a waypoint is still known.
	if _, err := f.svc.CreateWaypoint(CreateInput{Title: "stray", Branch: "observed"}); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.ListBranches()
	if err != nil {
		t.Fatalf("list branches: %v", err)
	}
	want := []string{types.DefaultBranch, "registered", "observed"}
	if len(got) != len(want) {
		t.Fatalf("branches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("branches = %v, want %v", got, want)
		}
	}
}

func TestSwitchBranch(t *testing.T) {
	f := newFixture(t)

	if err := f.svc.SwitchBranch("nowhere"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown branch: got %v, want ErrNotFound", err)
	}
	if got := f.svc.ActiveBranch(); got != types.DefaultBranch {
		t.Errorf("active branch changed after rejected switch: %s", got)
	}

	if _, err := f.svc.CreateBranch("alt", ""); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.SwitchBranch("alt"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if got := f.svc.ActiveBranch(); got != "alt" {
		t.Errorf("active branch = %s, want alt", got)
	}

	// Waypoints created after the switch land on the new branch.
	wp, err := f.svc.CreateWaypoint(CreateInput{Title: "on alt"})
	if err != nil {
		t.Fatal(err)
	}
	if wp.Branch != "alt" {
		t.Errorf("waypoint branch = %s, want alt", wp.Branch)
	}
}

func TestMergeBranch(t *testing.T) {
	// Scenario: src has P and Q, Q depends on P. Merging into dest
	// produces two new waypoints; the copy of Q depends on the copy of P.
	f := newFixture(t)
	if _, err := f.svc.CreateBranch("src", ""); err != nil {
		t.Fatal(err)
	}

	p, err := f.svc.CreateWaypoint(CreateInput{Title: "P", Branch: "src"})
	if err != nil {
		t.Fatal(err)
	}
	q, err := f.svc.CreateWaypoint(CreateInput{Title: "Q", Branch: "src", DependsOn: []string{p.ID}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SetStatus(p.ID, types.StatusActive); err != nil {
		t.Fatal(err)
	}

	copies, err := f.svc.MergeBranch("src", "dest")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(copies) != 2 {
		t.Fatalf("copied %d waypoints, want 2", len(copies))
	}

	var pCopy, qCopy *types.Waypoint
	for _, c := range copies {
		switch c.Title {
		case "P":
			pCopy = c
		case "Q":
			qCopy = c
		}
	}
	if pCopy == nil || qCopy == nil {
		t.Fatalf("missing copies: %v", copies)
	}
	if pCopy.ID == p.ID || qCopy.ID == q.ID {
		t.Error("copies reuse original ids")
	}
	if pCopy.Branch != "dest" || qCopy.Branch != "dest" {
		t.Errorf("copies on wrong branch: %s, %s", pCopy.Branch, qCopy.Branch)
	}
	if len(qCopy.DependsOn) != 1 || qCopy.DependsOn[0] != pCopy.ID {
		t.Errorf("Q copy depends on %v, want [%s]", qCopy.DependsOn, pCopy.ID)
	}
	// Source status discarded: P was active, its copy starts over.
	if pCopy.Status != types.StatusReady {
		t.Errorf("P copy status = %s, want ready", pCopy.Status)
	}
	if qCopy.Status != types.StatusBlocked {
		t.Errorf("Q copy status = %s, want blocked behind P copy", qCopy.Status)
	}

	// Originals untouched.
	if got := f.mustGet(t, p.ID); got.Status != types.StatusActive || got.Branch != "src" {
		t.Errorf("P changed by merge: %+v", got)
	}
	if got := f.mustGet(t, q.ID); got.DependsOn[0] != p.ID {
		t.Errorf("Q's dependency rewritten: %v", got.DependsOn)
	}
}

func TestMergeBranch_CrossBranchEdgeKept(t *testing.T) {
	f := newFixture(t)
	base, err := f.svc.CreateWaypoint(CreateInput{Title: "base", Branch: types.DefaultBranch})
	if err != nil {
		t.Fatal(err)
	}
	wp, err := f.svc.CreateWaypoint(CreateInput{Title: "on src", Branch: "src", DependsOn: []string{base.ID}})
	if err != nil {
		t.Fatal(err)
	}
	_ = wp

	copies, err := f.svc.MergeBranch("src", "dest")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(copies) != 1 {
		t.Fatalf("copied %d, want 1", len(copies))
	}
	// base was not part of the merged set, so the edge still points at it.
	if copies[0].DependsOn[0] != base.ID {
		t.Errorf("cross-branch edge remapped: %v", copies[0].DependsOn)
	}
}

func TestMergeBranch_EmptySource(t *testing.T) {
	f := newFixture(t)
	copies, err := f.svc.MergeBranch("deserted", "dest")
	if err != nil {
		t.Fatalf("empty source should not error, got %v", err)
	}
	if len(copies) != 0 {
		t.Errorf("copied %d from empty source", len(copies))
	}

	if _, err := f.svc.MergeBranch("same", "same"); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("merge into itself: got %v, want ErrInvalidInput", err)
	}
}

func TestListScopedToBranch(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, "on main")
	if _, err := f.svc.CreateWaypoint(CreateInput{Title: "elsewhere", Branch: "alt"}); err != nil {
		t.Fatal(err)
	}

	onMain, err := f.svc.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(onMain) != 1 || onMain[0].Title != "on main" {
		t.Errorf("active-branch list = %v", onMain)
	}

	all, err := f.svc.List(BranchAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all-branch list has %d waypoints, want 2", len(all))
	}
}
