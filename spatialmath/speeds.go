package spatialmath

import (
	"fmt"
	"math"
)

// ChassisSpeeds is a planar velocity: translation along X and Y plus a yaw rate in radians per second.
// Whether it is robot relative or field relative depends on where it came from; robot relative
// is the default everywhere in this module.
type ChassisSpeeds struct {
	Vx    float64
	Vy    float64
	Omega float64
}

// String returns a human readable representation of the speeds.
func (s ChassisSpeeds) String() string {
	return fmt.Sprintf("{Vx:%.3f Vy:%.3f Omega:%.3f}", s.Vx, s.Vy, s.Omega)
}

// LinearSpeed returns the magnitude of the translational velocity.
func (s ChassisSpeeds) LinearSpeed() float64 {
	return math.Hypot(s.Vx, s.Vy)
}

// Heading returns the direction of travel of the translational velocity.
func (s ChassisSpeeds) Heading() float64 {
	return math.Atan2(s.Vy, s.Vx)
}

// ToFieldRelative rotates robot relative speeds into the field frame given the robot heading.
func (s ChassisSpeeds) ToFieldRelative(robotHeading float64) ChassisSpeeds {
	sin, cos := math.Sincos(robotHeading)
	return ChassisSpeeds{
		Vx:    s.Vx*cos - s.Vy*sin,
		Vy:    s.Vx*sin + s.Vy*cos,
		Omega: s.Omega,
	}
}

// ToRobotRelative rotates field relative speeds into the robot frame given the robot heading.
func (s ChassisSpeeds) ToRobotRelative(robotHeading float64) ChassisSpeeds {
	return s.ToFieldRelative(-robotHeading)
}
