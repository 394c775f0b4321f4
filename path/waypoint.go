package path

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/utils"
)

// tangentTolerance is the largest kink, in radians, allowed across an interior waypoint.
const tangentTolerance = 0.02

// Waypoint is an anchor point on the path plus the Bezier control points on either side of it.
// A nil control point is filled in at one third of the way towards the neighbouring anchor.
type Waypoint struct {
	Anchor r3.Vector
	Prev   *r3.Vector
	Next   *r3.Vector
	// Stop marks a waypoint where the tangent may change abruptly.
	Stop bool
}

// NewWaypoint returns a waypoint with no explicit control points.
func NewWaypoint(x, y float64) Waypoint {
	return Waypoint{Anchor: r3.Vector{X: x, Y: y}}
}

// WithControls returns a copy with both control points set.
func (w Waypoint) WithControls(prev, next *r3.Vector) Waypoint {
	w.Prev = copyVector(prev)
	w.Next = copyVector(next)
	return w
}

func (w Waypoint) clone() Waypoint {
	w.Prev = copyVector(w.Prev)
	w.Next = copyVector(w.Next)
	return w
}

func copyVector(v *r3.Vector) *r3.Vector {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (w Waypoint) checkTangent(idx int) error {
	if w.Stop || w.Prev == nil || w.Next == nil {
		return nil
	}
	in := w.Anchor.Sub(*w.Prev)
	out := w.Next.Sub(w.Anchor)
	if in.Norm() < 1e-9 || out.Norm() < 1e-9 {
		return nil
	}
	kink := math.Abs(utils.AngleDiff(spatialmath.HeadingOf(out), spatialmath.HeadingOf(in)))
	if kink > tangentTolerance {
		return errors.Wrapf(ErrTangentDiscontinuity, "waypoint %d bends by %.1f degrees", idx, utils.RadToDeg(kink))
	}
	return nil
}

// RotationTarget requires the holonomic heading to equal Heading at a waypoint-relative fraction
// Position in [0, 1].
type RotationTarget struct {
	Position float64
	Heading  float64
}

// GoalEndState is the velocity and heading to hold when the path completes.
type GoalEndState struct {
	Velocity float64
	Heading  float64
}
