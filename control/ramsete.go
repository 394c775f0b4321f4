package control

import (
	"math"
	"time"

	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/trajectory"
	"go.viam.com/pathplanner/utils"
)

// RamseteConfig holds the tuning of a Ramsete controller. B acts like a proportional term and must
// be positive; Zeta is a damping term in (0, 1).
type RamseteConfig struct {
	B    float64 `json:"b"`
	Zeta float64 `json:"zeta"`
}

// Ramsete is a nonlinear feedback controller for differential drives. It follows the path tangent,
// driving backwards along reversed paths.
type Ramsete struct {
	cfg    RamseteConfig
	period time.Duration
	omega  rateLimiter
	err    float64
}

// NewRamsete returns a Ramsete controller evaluated once every period.
func NewRamsete(cfg RamseteConfig, period time.Duration) *Ramsete {
	return &Ramsete{cfg: cfg, period: period}
}

// Reset clears the controller history.
func (r *Ramsete) Reset(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) {
	r.omega.reset(speeds.Omega)
	r.err = 0
}

// Calculate returns the forward speed and yaw rate that steer towards target.
func (r *Ramsete) Calculate(current spatialmath.Pose, target trajectory.State) spatialmath.ChassisSpeeds {
	r.err = spatialmath.Distance(current.Point, target.Position)

	e := spatialmath.PoseBetween(current, target.DifferentialPose())
	vRef := target.Velocity
	if target.Reversed {
		vRef = -vRef
	}
	omegaRef := target.DifferentialAngularVelocity()

	k := 2 * r.cfg.Zeta * math.Sqrt(omegaRef*omegaRef+r.cfg.B*vRef*vRef)
	v := vRef*math.Cos(e.Theta) + k*e.Point.X
	omega := omegaRef + k*e.Theta + r.cfg.B*vRef*utils.Sinc(e.Theta)*e.Point.Y

	omega = r.omega.limit(omega, target.Constraints.MaxAngularVelocity, target.Constraints.MaxAngularAcceleration, r.period)
	return spatialmath.ChassisSpeeds{Vx: v, Omega: omega}
}

// PositionalError is the distance to the last target.
func (r *Ramsete) PositionalError() float64 {
	return r.err
}

// IsHolonomic is always false.
func (r *Ramsete) IsHolonomic() bool {
	return false
}
