// Package spatialmath defines the planar poses, headings and chassis speeds
// shared by path geometry, trajectories and the follower.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/utils"
)

// Pose is a position on the ground plane plus a heading in radians. Z is unused.
type Pose struct {
	Point r3.Vector
	Theta float64
}

// NewPose returns a pose at (x, y) with heading theta.
func NewPose(x, y, theta float64) Pose {
	return Pose{Point: r3.Vector{X: x, Y: y}, Theta: utils.WrapAngle(theta)}
}

// NewZeroPose returns the pose at the origin facing +X.
func NewZeroPose() Pose {
	return Pose{}
}

// String returns a human readable representation of the pose.
func (p Pose) String() string {
	return fmt.Sprintf("{X:%.3f Y:%.3f Theta:%.1f°}", p.Point.X, p.Point.Y, utils.RadToDeg(p.Theta))
}

// Distance returns the planar distance between the positions of two poses.
func (p Pose) Distance(o Pose) float64 {
	return Distance(p.Point, o.Point)
}

// Compose returns the pose o expressed in the parent frame of p, treating o as relative to p.
func Compose(p, o Pose) Pose {
	sin, cos := math.Sincos(p.Theta)
	return Pose{
		Point: r3.Vector{
			X: p.Point.X + cos*o.Point.X - sin*o.Point.Y,
			Y: p.Point.Y + sin*o.Point.X + cos*o.Point.Y,
		},
		Theta: utils.WrapAngle(p.Theta + o.Theta),
	}
}

// PoseBetween returns the pose of b relative to a.
func PoseBetween(a, b Pose) Pose {
	sin, cos := math.Sincos(a.Theta)
	d := b.Point.Sub(a.Point)
	return Pose{
		Point: r3.Vector{X: cos*d.X + sin*d.Y, Y: -sin*d.X + cos*d.Y},
		Theta: utils.AngleDiff(b.Theta, a.Theta),
	}
}

// Interpolate blends two poses; headings follow the shortest arc.
func Interpolate(a, b Pose, t float64) Pose {
	return Pose{
		Point: LerpPoint(a.Point, b.Point, t),
		Theta: utils.LerpAngle(a.Theta, b.Theta, t),
	}
}

// Distance returns the planar distance between two points.
func Distance(a, b r3.Vector) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// LerpPoint linearly interpolates between two points.
func LerpPoint(a, b r3.Vector, t float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(t))
}

// HeadingOf returns the direction of v on the ground plane.
func HeadingOf(v r3.Vector) float64 {
	return math.Atan2(v.Y, v.X)
}

// HeadingBetween returns the direction from a to b.
func HeadingBetween(a, b r3.Vector) float64 {
	return HeadingOf(b.Sub(a))
}

// PointAlong returns the point dist away from p in direction heading.
func PointAlong(p r3.Vector, dist, heading float64) r3.Vector {
	sin, cos := math.Sincos(heading)
	return r3.Vector{X: p.X + dist*cos, Y: p.Y + dist*sin}
}
