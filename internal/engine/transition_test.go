package engine

import (
	"errors"
	"testing"

	"github.com/steveyegge/waymark/internal/types"
)

func TestCanTransition_FullTable(t *testing.T) {
	allowed := map[types.Status][]types.Status{
		types.StatusBlocked:   {types.StatusActive, types.StatusAbandoned},
		types.StatusReady:     {types.StatusActive, types.StatusDone, types.StatusAbandoned},
		types.StatusActive:    {types.StatusDone, types.StatusAbandoned, types.StatusReady},
		types.StatusDone:      {types.StatusActive, types.StatusReady},
		types.StatusAbandoned: {types.StatusReady},
	}

	for _, from := range types.AllStatuses {
		for _, to := range types.AllStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(types.StatusReady, types.StatusActive); err != nil {
		t.Errorf("ready -> active should be legal, got %v", err)
	}

	err := ValidateTransition(types.StatusBlocked, types.StatusDone)
	if err == nil {
		t.Fatal("blocked -> done should be rejected")
	}
	if !errors.Is(err, types.ErrInvalidTransition) {
		t.Errorf("error should match ErrInvalidTransition, got %v", err)
	}
	var ite *types.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("error should be an InvalidTransitionError, got %T", err)
	}
	if ite.From != types.StatusBlocked || ite.To != types.StatusDone {
		t.Errorf("error endpoints = %s -> %s, want blocked -> done", ite.From, ite.To)
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(types.StatusBlocked, types.Status("not-a-real-status"))
	if err == nil {
		t.Fatal("unknown target status should be rejected")
	}
	var ite *types.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("error should be an InvalidTransitionError, got %T", err)
	}
	if ite.From != types.StatusBlocked {
		t.Errorf("error should report current status blocked, got %s", ite.From)
	}
}

func TestAllowedTransitions(t *testing.T) {
	got := AllowedTransitions(types.StatusAbandoned)
	if len(got) != 1 || got[0] != types.StatusReady {
		t.Errorf("AllowedTransitions(abandoned) = %v, want [ready]", got)
	}
}
