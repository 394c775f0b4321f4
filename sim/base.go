// Package sim runs path following episodes in closed loop against a kinematic robot base.
package sim

import (
	"sync"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/utils"
)

// Base is a robot base that follows speed commands exactly. A differential base drops any
// sideways component of a command.
type Base struct {
	mu        sync.Mutex
	pose      spatialmath.Pose
	speeds    spatialmath.ChassisSpeeds
	holonomic bool
	commands  int
}

// NewBase returns a stationary base at start.
func NewBase(start spatialmath.Pose, holonomic bool) *Base {
	return &Base{pose: start, holonomic: holonomic}
}

// CurrentPose returns the field relative pose of the base.
func (b *Base) CurrentPose() spatialmath.Pose {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose
}

// CurrentSpeeds returns the robot relative speeds the base is moving at.
func (b *Base) CurrentSpeeds() spatialmath.ChassisSpeeds {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.speeds
}

// SetSpeeds commands robot relative speeds.
func (b *Base) SetSpeeds(speeds spatialmath.ChassisSpeeds) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.holonomic {
		speeds.Vy = 0
	}
	b.speeds = speeds
	b.commands++
}

// Commands is the number of speed commands received.
func (b *Base) Commands() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.commands
}

// Step moves the base at its current speeds for dt, integrating along the mid period heading.
func (b *Base) Step(dt time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	seconds := dt.Seconds()
	mid := b.pose.Theta + b.speeds.Omega*seconds/2
	field := b.speeds.ToFieldRelative(mid)
	b.pose = spatialmath.NewPose(
		b.pose.Point.X+field.Vx*seconds,
		b.pose.Point.Y+field.Vy*seconds,
		utils.WrapAngle(b.pose.Theta+b.speeds.Omega*seconds),
	)
}

// Perturb displaces the base by offset without changing its heading or speeds.
func (b *Base) Perturb(offset r3.Vector) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pose.Point = b.pose.Point.Add(r3.Vector{X: offset.X, Y: offset.Y})
}
