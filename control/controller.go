// Package control turns trajectory samples into chassis speed commands.
package control

import (
	"math"
	"time"

	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/trajectory"
	"go.viam.com/pathplanner/utils"
)

// A PathFollowingController computes the robot relative speeds that drive the robot from its
// current pose towards a trajectory sample.
type PathFollowingController interface {
	// Reset clears controller history before following a new trajectory.
	Reset(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds)
	// Calculate returns robot relative speeds for one control period.
	Calculate(current spatialmath.Pose, target trajectory.State) spatialmath.ChassisSpeeds
	// PositionalError is the distance between the robot and the target of the last Calculate.
	PositionalError() float64
	// IsHolonomic reports whether the controller tracks the holonomic target heading rather than
	// the path tangent.
	IsHolonomic() bool
}

// rateLimiter bounds a commanded rate and how quickly it may change between control periods.
type rateLimiter struct {
	last float64
}

func (r *rateLimiter) reset(value float64) {
	r.last = value
}

func (r *rateLimiter) limit(value, maxRate, maxAccel float64, dt time.Duration) float64 {
	if maxAccel > 0 && dt > 0 {
		step := maxAccel * dt.Seconds()
		value = utils.Clamp(value, r.last-step, r.last+step)
	}
	if maxRate > 0 {
		value = utils.Clamp(value, -maxRate, maxRate)
	}
	if math.IsNaN(value) {
		value = 0
	}
	r.last = value
	return value
}
