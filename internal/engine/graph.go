// Package engine implements the pure graph computations behind waymark:
// derived-status propagation, topological ordering, cycle detection, and
// status-transition validation. Nothing in this package touches storage
// or holds state; every function is deterministic over its inputs.
package engine

import "github.com/steveyegge/waymark/internal/types"

// TopoSort returns the waypoints in dependency order using Kahn's
// algorithm: every waypoint appears after all of its dependencies.
//
// Determinism: in-degrees count only edges whose target exists in the
// snapshot, the ready queue is seeded in storage order, and dependents are
// enqueued in storage order, so identical input always yields identical
// output.
//
// If the persisted snapshot is already cyclic (possible only through
// external edits, since mutations reject cycles), the unconsumed waypoints
// are appended in storage order rather than failing. Display degrades; it
// does not break.
func TopoSort(wps []*types.Waypoint) []*types.Waypoint {
	pos := make(map[string]int, len(wps))
	for i, wp := range wps {
		pos[wp.ID] = i
	}

	indegree := make([]int, len(wps))
	dependents := make(map[string][]int, len(wps))
	for i, wp := range wps {
		for _, dep := range wp.DependsOn {
			if _, ok := pos[dep]; !ok {
				continue // dangling edge, ignored for ordering
			}
			indegree[i]++
			dependents[dep] = append(dependents[dep], i)
		}
	}

	queue := make([]int, 0, len(wps))
	for i := range wps {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	result := make([]*types.Waypoint, 0, len(wps))
	consumed := make([]bool, len(wps))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		result = append(result, wps[i])
		consumed[i] = true
		for _, j := range dependents[wps[i].ID] {
			indegree[j]--
			if indegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	// Cyclic leftovers, appended in storage order.
	for i, wp := range wps {
		if !consumed[i] {
			result = append(result, wp)
		}
	}

	return result
}

// WouldCycle reports whether adding the edge "waypointID depends_on
// dependencyID" would close a cycle, i.e. whether waypointID is reachable
// from dependencyID along existing depends_on edges.
//
// Unknown ids are dead ends, not errors. Self-dependency is expected to be
// rejected by a cheaper precondition before this runs, but for completeness
// the start node counts as reached, so WouldCycle(g, a, a) is true.
func WouldCycle(wps []*types.Waypoint, waypointID, dependencyID string) bool {
	byID := make(map[string]*types.Waypoint, len(wps))
	for _, wp := range wps {
		byID[wp.ID] = wp
	}

	visited := make(map[string]bool, len(wps))
	stack := []string{dependencyID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == waypointID {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		wp, ok := byID[id]
		if !ok {
			continue
		}
		stack = append(stack, wp.DependsOn...)
	}
	return false
}
