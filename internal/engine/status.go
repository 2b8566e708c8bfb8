package engine

import "github.com/steveyegge/waymark/internal/types"

// DeriveStatus computes the derived status for a single waypoint given the
// set of ids whose waypoints are explicitly done. A waypoint is ready when
// it has no dependencies or every dependency resolves to a done waypoint;
// otherwise it is blocked. Dangling ids never resolve, so they count as
// not done.
func DeriveStatus(wp *types.Waypoint, done map[string]bool) types.Status {
	for _, dep := range wp.DependsOn {
		if !done[dep] {
			return types.StatusBlocked
		}
	}
	return types.StatusReady
}

// ComputeStatuses rewrites the derived status of every waypoint in the
// snapshot. Explicit statuses (active, done, abandoned) pass through
// untouched; blocked/ready are recomputed from scratch, so a single status
// change cascades to every dependent in one pass.
//
// The function is idempotent: recomputing an already-computed snapshot
// changes nothing.
func ComputeStatuses(wps []*types.Waypoint) {
	done := make(map[string]bool, len(wps))
	for _, wp := range wps {
		if wp.Status == types.StatusDone {
			done[wp.ID] = true
		}
	}
	for _, wp := range wps {
		if wp.Status.IsExplicit() {
			continue
		}
		wp.Status = DeriveStatus(wp, done)
	}
}
