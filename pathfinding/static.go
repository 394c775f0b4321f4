package pathfinding

import (
	"sync"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/path"
)

// Static is a Pathfinder that always answers with an authored path, so a follower can be used to
// follow it. The constraints and goal end state passed to GetPath are ignored in favour of the
// path's own.
type Static struct {
	mu      sync.Mutex
	path    *path.Path
	pending bool
}

// NewStatic returns a Static pathfinder for p.
func NewStatic(p *path.Path) *Static {
	return &Static{path: p}
}

// SetEndpoints makes the path available again.
func (s *Static) SetEndpoints(_, _ r3.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
}

// HasNewPath reports whether the path has not been fetched since the last SetEndpoints.
func (s *Static) HasNewPath() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// GetPath returns the authored path.
func (s *Static) GetPath(_ path.Constraints, _ path.GoalEndState) *path.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	return s.path
}
