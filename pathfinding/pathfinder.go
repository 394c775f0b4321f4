// Package pathfinding defines the contract of the obstacle avoidance search the follower polls
// for paths, plus a direct implementation that routes straight through optional via points.
package pathfinding

import (
	"sync"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/path"
)

// A Pathfinder searches for a route between two points. Calls must return quickly; the search
// itself is expected to run elsewhere.
type Pathfinder interface {
	// SetEndpoints starts a new search.
	SetEndpoints(start, goal r3.Vector)
	// HasNewPath reports whether a result is ready that has not been fetched.
	HasNewPath() bool
	// GetPath returns the latest result built with the given constraints and goal end state, or
	// nil if no usable path was found.
	GetPath(constraints path.Constraints, goal path.GoalEndState) *path.Path
}

// DirectConfig configures a Direct pathfinder.
type DirectConfig struct {
	// Latency is the number of HasNewPath polls before a result is ready.
	Latency int
	// Via are points the route passes through between the start and the goal.
	Via []r3.Vector
}

// Direct is a Pathfinder that routes straight to the goal. It is useful when the space between
// the robot and the goal is known to be clear, and in simulation.
type Direct struct {
	mu sync.Mutex

	cfg     DirectConfig
	start   r3.Vector
	goal    r3.Vector
	polls   int
	pending bool
	set     bool
}

// NewDirect returns a Direct pathfinder.
func NewDirect(cfg DirectConfig) *Direct {
	return &Direct{cfg: cfg}
}

// SetEndpoints starts a new search, discarding any unfetched result.
func (d *Direct) SetEndpoints(start, goal r3.Vector) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.start = start
	d.goal = goal
	d.polls = 0
	d.pending = true
	d.set = true
}

// HasNewPath reports whether the latency has elapsed since the last SetEndpoints and the result
// has not been fetched yet.
func (d *Direct) HasNewPath() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return false
	}
	if d.polls < d.cfg.Latency {
		d.polls++
		return false
	}
	return true
}

// GetPath returns the straight route. It returns nil before any endpoints are set or if the route
// cannot be built.
func (d *Direct) GetPath(constraints path.Constraints, goal path.GoalEndState) *path.Path {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.set {
		return nil
	}
	d.pending = false

	points := make([]r3.Vector, 0, len(d.cfg.Via)+2)
	points = append(points, d.start)
	points = append(points, d.cfg.Via...)
	points = append(points, d.goal)
	p, err := path.FromPoints(points, constraints, goal)
	if err != nil {
		return nil
	}
	return p
}
