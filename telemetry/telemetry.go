// Package telemetry publishes what the path follower is doing. Every sink is best effort: calls
// never block and never fail.
package telemetry

import (
	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
)

// A Sink receives the follower's state once per control period.
type Sink interface {
	SetCurrentPose(pose spatialmath.Pose)
	SetTargetPose(pose spatialmath.Pose)
	SetActivePath(p *path.Path)
	// SetVelocities receives the measured and the commanded speeds, both robot relative.
	SetVelocities(actual, commanded spatialmath.ChassisSpeeds)
	SetPathInaccuracy(distance float64)
}

// Nop discards everything.
type Nop struct{}

// SetCurrentPose does nothing.
func (Nop) SetCurrentPose(spatialmath.Pose) {}

// SetTargetPose does nothing.
func (Nop) SetTargetPose(spatialmath.Pose) {}

// SetActivePath does nothing.
func (Nop) SetActivePath(*path.Path) {}

// SetVelocities does nothing.
func (Nop) SetVelocities(_, _ spatialmath.ChassisSpeeds) {}

// SetPathInaccuracy does nothing.
func (Nop) SetPathInaccuracy(float64) {}

type multi []Sink

// Multi fans every call out to each of the sinks in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) SetCurrentPose(pose spatialmath.Pose) {
	for _, s := range m {
		s.SetCurrentPose(pose)
	}
}

func (m multi) SetTargetPose(pose spatialmath.Pose) {
	for _, s := range m {
		s.SetTargetPose(pose)
	}
}

func (m multi) SetActivePath(p *path.Path) {
	for _, s := range m {
		s.SetActivePath(p)
	}
}

func (m multi) SetVelocities(actual, commanded spatialmath.ChassisSpeeds) {
	for _, s := range m {
		s.SetVelocities(actual, commanded)
	}
}

func (m multi) SetPathInaccuracy(distance float64) {
	for _, s := range m {
		s.SetPathInaccuracy(distance)
	}
}

// Logger writes telemetry to a logger at debug level.
type Logger struct {
	logger logging.Logger
}

// NewLogger returns a Sink writing to logger.
func NewLogger(logger logging.Logger) *Logger {
	return &Logger{logger: logger}
}

// SetCurrentPose logs the pose.
func (l *Logger) SetCurrentPose(pose spatialmath.Pose) {
	l.logger.Debugw("current pose", "pose", pose.String())
}

// SetTargetPose logs the pose.
func (l *Logger) SetTargetPose(pose spatialmath.Pose) {
	l.logger.Debugw("target pose", "pose", pose.String())
}

// SetActivePath logs a summary of the path.
func (l *Logger) SetActivePath(p *path.Path) {
	if p == nil {
		l.logger.Debug("no active path")
		return
	}
	l.logger.Debugw("active path", "waypoints", len(p.Waypoints()), "length", p.Length())
}

// SetVelocities logs both speeds.
func (l *Logger) SetVelocities(actual, commanded spatialmath.ChassisSpeeds) {
	l.logger.Debugw("velocities", "actual", actual.String(), "commanded", commanded.String())
}

// SetPathInaccuracy logs the distance.
func (l *Logger) SetPathInaccuracy(distance float64) {
	l.logger.Debugw("path inaccuracy", "distance", distance)
}
