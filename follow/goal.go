package follow

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
)

// Goal is where an episode drives the robot.
type Goal struct {
	pose        spatialmath.Pose
	endVelocity float64
	// next is the authored path the robot is driving onto, if any.
	next *path.Path
	set  bool
}

// GoalPose drives the robot to pose, arriving at endVelocity.
func GoalPose(pose spatialmath.Pose, endVelocity float64) Goal {
	return Goal{pose: pose, endVelocity: endVelocity, set: true}
}

// GoalPath drives the robot onto the start of an authored path so the path can be followed
// without stopping. The robot arrives at the path's maximum velocity holding the heading the path
// starts with.
func GoalPath(p *path.Path) Goal {
	if p == nil {
		return Goal{}
	}
	start := p.StartingHolonomicPose()
	return Goal{pose: start, endVelocity: p.GlobalConstraints().MaxVelocity, next: p, set: true}
}

// Pose is the target pose.
func (g Goal) Pose() spatialmath.Pose {
	return g.pose
}

// EndState is the goal end state requested from the pathfinder.
func (g Goal) EndState() path.GoalEndState {
	return path.GoalEndState{Velocity: g.endVelocity, Heading: g.pose.Theta}
}

// HandsOff reports whether the goal is the start of another path.
func (g Goal) HandsOff() bool {
	return g.next != nil
}

func (g Goal) validate() error {
	if !g.set {
		return errors.New("goal is required")
	}
	if g.endVelocity < 0 || math.IsNaN(g.endVelocity) {
		return errors.Errorf("goal end velocity must be non-negative, got %v", g.endVelocity)
	}
	return nil
}
