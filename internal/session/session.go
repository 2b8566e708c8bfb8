// Package session holds per-process state for working against a waymark
// data root. The active branch is a session-scoped pointer, deliberately
// not persisted: two processes over the same root can sit on different
// branches without touching the consistency story of the collections.
package session

import "github.com/steveyegge/waymark/internal/types"

// Session is the explicit context value passed to the core in place of
// any module-level "current branch" global.
type Session struct {
	branch string
}

// New returns a session positioned on the default branch.
func New() *Session {
	return &Session{branch: types.DefaultBranch}
}

// ActiveBranch returns the branch subsequent operations default to.
func (s *Session) ActiveBranch() string {
	return s.branch
}

// SetActiveBranch repoints the session. Validation against known branches
// belongs to the core, which can see the collections.
func (s *Session) SetActiveBranch(name string) {
	s.branch = name
}
