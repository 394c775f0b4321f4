package control

import (
	"time"

	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/trajectory"
)

// HolonomicConfig holds the gains of a holonomic controller.
type HolonomicConfig struct {
	Translation PIDConfig `json:"translation"`
	Rotation    PIDConfig `json:"rotation"`
}

// Holonomic follows a trajectory with a drivetrain that can translate in any direction while
// rotating. The trajectory's field relative velocity is used as feedforward and separate PID
// loops correct the x, y and heading errors.
type Holonomic struct {
	x, y, rotation *PID
	period         time.Duration
	omega          rateLimiter
	err            float64
}

// NewHolonomic returns a holonomic controller that is evaluated once every period.
func NewHolonomic(cfg HolonomicConfig, period time.Duration) *Holonomic {
	return &Holonomic{
		x:        NewPID(cfg.Translation),
		y:        NewPID(cfg.Translation),
		rotation: NewAnglePID(cfg.Rotation),
		period:   period,
	}
}

// Reset clears the PID state.
func (h *Holonomic) Reset(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) {
	h.x.Reset()
	h.y.Reset()
	h.rotation.Reset()
	h.omega.reset(speeds.Omega)
	h.err = 0
}

// Calculate returns robot relative speeds towards target.
func (h *Holonomic) Calculate(current spatialmath.Pose, target trajectory.State) spatialmath.ChassisSpeeds {
	h.err = spatialmath.Distance(current.Point, target.Position)

	field := target.FieldSpeeds()
	field.Vx += h.x.Calculate(current.Point.X, target.Position.X, h.period)
	field.Vy += h.y.Calculate(current.Point.Y, target.Position.Y, h.period)
	omega := target.AngularVelocity + h.rotation.Calculate(current.Theta, target.TargetHeading, h.period)
	field.Omega = h.omega.limit(omega,
		target.Constraints.MaxAngularVelocity, target.Constraints.MaxAngularAcceleration, h.period)

	return field.ToRobotRelative(current.Theta)
}

// PositionalError is the distance to the last target.
func (h *Holonomic) PositionalError() float64 {
	return h.err
}

// IsHolonomic is always true.
func (h *Holonomic) IsHolonomic() bool {
	return true
}
