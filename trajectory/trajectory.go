// Package trajectory turns a path into a time-parameterised velocity profile and samples it.
package trajectory

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/utils"
)

// minDwell is the time step used between samples when the robot is all but stopped across them.
const minDwell = 1e-3

// Start seeds trajectory generation with the robot's current motion.
type Start struct {
	// LinearVelocity is the current speed along the direction of travel.
	LinearVelocity float64
	// AngularVelocity is the current yaw rate.
	AngularVelocity float64
	// Heading, when set, is the holonomic heading the trajectory starts from. Without it headings
	// before the first rotation target hold that target's heading.
	Heading *float64
}

// StartFrom builds a Start from the robot's heading and robot relative speeds.
func StartFrom(pose spatialmath.Pose, speeds spatialmath.ChassisSpeeds) Start {
	heading := pose.Theta
	return Start{
		LinearVelocity:  speeds.LinearSpeed(),
		AngularVelocity: speeds.Omega,
		Heading:         &heading,
	}
}

// Trajectory is an immutable, time ordered sequence of states.
type Trajectory struct {
	states        []State
	initialScaled bool
}

// Generate builds the trajectory for p. Velocities come from two independent passes over the
// path samples: a forward pass accelerating from the start velocity and a backward pass
// decelerating into the goal end velocity, each bounded by the effective constraints at every
// sample. The profile is their pointwise minimum. If the start velocity is faster than the path
// can shed before its end, the forward pass is scaled down so the start does not violate the
// deceleration limit, and InitialVelocityScaled reports it.
func Generate(p *path.Path, start Start) *Trajectory {
	points := p.Points()
	profile := p.HeadingProfile(start.Heading)

	if len(points) == 1 {
		pt := points[0]
		return &Trajectory{states: []State{{
			Position:      pt.Position,
			Heading:       pt.Heading,
			TargetHeading: profile.At(pt.Fraction),
			Fraction:      pt.Fraction,
			Reversed:      p.Reversed(),
			Constraints:   pt.Constraints,
		}}}
	}

	forward := forwardPass(points, math.Max(start.LinearVelocity, 0))
	backward := backwardPass(points, p.GoalEndState().Velocity)
	var scaled bool
	if forward[0] > backward[0] {
		floats.Scale(backward[0]/forward[0], forward)
		scaled = true
	}
	velocities := make([]float64, len(points))
	for i := range velocities {
		velocities[i] = math.Min(forward[i], backward[i])
	}

	states := make([]State, len(points))
	for i, pt := range points {
		states[i] = State{
			Position:      pt.Position,
			Velocity:      velocities[i],
			Heading:       pt.Heading,
			Curvature:     pt.Curvature,
			TargetHeading: profile.At(pt.Fraction),
			Distance:      pt.Distance,
			Fraction:      pt.Fraction,
			Reversed:      p.Reversed(),
			Constraints:   pt.Constraints,
		}
		if i == 0 {
			continue
		}
		ds := pt.Distance - points[i-1].Distance
		dt := minDwell
		if sum := velocities[i-1] + velocities[i]; sum > 1e-6 {
			dt = 2 * ds / sum
		}
		states[i].Time = states[i-1].Time + dt
	}

	for i := 0; i < len(states)-1; i++ {
		dt := states[i+1].Time - states[i].Time
		states[i].AngularVelocity = utils.AngleDiff(states[i+1].TargetHeading, states[i].TargetHeading) / dt
	}
	limit := states[0].Constraints.MaxAngularVelocity
	states[0].AngularVelocity = utils.Clamp(start.AngularVelocity, -limit, limit)

	return &Trajectory{states: states, initialScaled: scaled}
}

// acceleration is the acceleration limit between two neighbouring samples.
func acceleration(a, b path.Point) float64 {
	return math.Min(a.Constraints.MaxAcceleration, b.Constraints.MaxAcceleration)
}

func forwardPass(points []path.Point, initial float64) []float64 {
	out := make([]float64, len(points))
	out[0] = math.Min(initial, points[0].Constraints.MaxVelocity)
	for i := 1; i < len(points); i++ {
		ds := points[i].Distance - points[i-1].Distance
		reachable := math.Sqrt(out[i-1]*out[i-1] + 2*acceleration(points[i-1], points[i])*ds)
		out[i] = math.Min(reachable, points[i].Constraints.MaxVelocity)
	}
	return out
}

func backwardPass(points []path.Point, goal float64) []float64 {
	last := len(points) - 1
	out := make([]float64, len(points))
	out[last] = math.Min(goal, points[last].Constraints.MaxVelocity)
	for i := last - 1; i >= 0; i-- {
		ds := points[i+1].Distance - points[i].Distance
		reachable := math.Sqrt(out[i+1]*out[i+1] + 2*acceleration(points[i], points[i+1])*ds)
		out[i] = math.Min(reachable, points[i].Constraints.MaxVelocity)
	}
	return out
}

// States returns a copy of the states.
func (t *Trajectory) States() []State {
	return append([]State(nil), t.states...)
}

// State returns the i-th state.
func (t *Trajectory) State(i int) State {
	return t.states[i]
}

// Len is the number of states.
func (t *Trajectory) Len() int {
	return len(t.states)
}

// TotalTime is the duration of the trajectory in seconds.
func (t *Trajectory) TotalTime() float64 {
	return t.states[len(t.states)-1].Time
}

// InitialState is the first state.
func (t *Trajectory) InitialState() State {
	return t.states[0]
}

// EndState is the last state.
func (t *Trajectory) EndState() State {
	return t.states[len(t.states)-1]
}

// InitialVelocityScaled reports whether the start velocity had to be reduced to stay within the
// deceleration limit.
func (t *Trajectory) InitialVelocityScaled() bool {
	return t.initialScaled
}

// MaxVelocity is the fastest speed reached anywhere on the trajectory.
func (t *Trajectory) MaxVelocity() float64 {
	velocities := make([]float64, len(t.states))
	for i, s := range t.states {
		velocities[i] = s.Velocity
	}
	return floats.Max(velocities)
}

// Sample returns the state at time seconds, clamped to the trajectory's duration. Between two
// states the result is linearly interpolated; at a state's own timestamp it is that state.
func (t *Trajectory) Sample(time float64) State {
	if time <= t.states[0].Time {
		return t.states[0]
	}
	if time >= t.TotalTime() {
		return t.EndState()
	}
	idx := sort.Search(len(t.states), func(i int) bool { return t.states[i].Time >= time })
	after := t.states[idx]
	if after.Time == time {
		return after
	}
	before := t.states[idx-1]
	return before.Interpolate(after, (time-before.Time)/(after.Time-before.Time))
}
