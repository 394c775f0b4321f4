package trajectory

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/utils"
)

// State is one time-indexed sample of a trajectory. Times are in seconds from the start of the
// trajectory and headings in radians.
type State struct {
	Time     float64
	Position r3.Vector
	// Velocity is the linear speed along the path. It is never negative; reversed paths are
	// driven backwards at this speed.
	Velocity float64
	// Heading is the direction of travel along the path.
	Heading float64
	// AngularVelocity is the rate of change of TargetHeading.
	AngularVelocity float64
	Curvature       float64
	// TargetHeading is the heading a holonomic drive should hold.
	TargetHeading float64
	Distance      float64
	Fraction      float64
	Reversed      bool
	Constraints   path.Constraints
}

// HolonomicPose is the position with the holonomic target heading.
func (s State) HolonomicPose() spatialmath.Pose {
	return spatialmath.Pose{Point: s.Position, Theta: s.TargetHeading}
}

// DifferentialPose is the position with the heading a differential drive would have: the direction
// of travel, flipped when the path is driven in reverse.
func (s State) DifferentialPose() spatialmath.Pose {
	heading := s.Heading
	if s.Reversed {
		heading += math.Pi
	}
	return spatialmath.Pose{Point: s.Position, Theta: utils.WrapAngle(heading)}
}

// DifferentialAngularVelocity is the yaw rate of a differential drive following the path
// curvature at this state's velocity.
func (s State) DifferentialAngularVelocity() float64 {
	return s.Velocity * s.Curvature
}

// FieldSpeeds is the field relative velocity for a holonomic drive.
func (s State) FieldSpeeds() spatialmath.ChassisSpeeds {
	sin, cos := math.Sincos(s.Heading)
	return spatialmath.ChassisSpeeds{Vx: s.Velocity * cos, Vy: s.Velocity * sin, Omega: s.AngularVelocity}
}

// Interpolate blends s towards o by t in [0, 1]. Headings follow the shortest arc.
func (s State) Interpolate(o State, t float64) State {
	return State{
		Time:            utils.Lerp(s.Time, o.Time, t),
		Position:        spatialmath.LerpPoint(s.Position, o.Position, t),
		Velocity:        utils.Lerp(s.Velocity, o.Velocity, t),
		Heading:         utils.LerpAngle(s.Heading, o.Heading, t),
		AngularVelocity: utils.Lerp(s.AngularVelocity, o.AngularVelocity, t),
		Curvature:       utils.Lerp(s.Curvature, o.Curvature, t),
		TargetHeading:   utils.LerpAngle(s.TargetHeading, o.TargetHeading, t),
		Distance:        utils.Lerp(s.Distance, o.Distance, t),
		Fraction:        utils.Lerp(s.Fraction, o.Fraction, t),
		Reversed:        s.Reversed,
		Constraints:     s.Constraints,
	}
}
