package follow

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/trajectory"
	"go.viam.com/pathplanner/utils"
)

const (
	// cancelDistance is how close to the goal the robot must be for an episode to have nothing to do.
	cancelDistance = 0.25
	// snapDistance is how close to the start of a new path the robot must be to follow it as is.
	snapDistance = 0.25
	// lowSpeed is the speed below which the robot's direction of travel is ignored.
	lowSpeed = 0.5
)

// headingTolerance is the largest difference between the direction of travel and the tangent of
// a new path for the robot to follow it as is.
var headingTolerance = utils.DegToRad(30)

// State is the state of a follower. It is one of Idle, AwaitingPath, Tracking or Done.
type State interface {
	fmt.Stringer
	isState()
}

// Idle is the state before the first control period.
type Idle struct{}

// AwaitingPath is the state while the pathfinder has not produced a path yet.
type AwaitingPath struct {
	StartPose spatialmath.Pose
}

// Tracking is the state while a trajectory is being followed.
type Tracking struct {
	Path       *path.Path
	Trajectory *trajectory.Trajectory
	// TimeOffset, in seconds, is added to the elapsed time when sampling the trajectory.
	TimeOffset float64
	StartPose  spatialmath.Pose
}

// DoneReason is why an episode ended.
type DoneReason int

const (
	// Finished means the robot reached the goal.
	Finished DoneReason = iota
	// AlreadyAtGoal means the robot started within the cancel distance of the goal.
	AlreadyAtGoal
	// Interrupted means the episode was ended before it finished.
	Interrupted
)

func (r DoneReason) String() string {
	switch r {
	case Finished:
		return "finished"
	case AlreadyAtGoal:
		return "already at goal"
	case Interrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("DoneReason(%d)", int(r))
	}
}

// Done is the terminal state.
type Done struct {
	Reason DoneReason
}

func (Idle) isState()         {}
func (AwaitingPath) isState() {}
func (Tracking) isState()     {}
func (Done) isState()         {}

func (Idle) String() string { return "idle" }

func (AwaitingPath) String() string { return "awaiting path" }

func (s Tracking) String() string {
	return fmt.Sprintf("tracking %.2fs trajectory from offset %.3fs", s.Trajectory.TotalTime(), s.TimeOffset)
}

func (s Done) String() string { return "done: " + s.Reason.String() }

// enter is the first transition of an episode.
func enter(goal Goal, current spatialmath.Pose) State {
	if spatialmath.Distance(current.Point, goal.pose.Point) < cancelDistance {
		return Done{Reason: AlreadyAtGoal}
	}
	return AwaitingPath{StartPose: current}
}

// onHeading reports whether the robot is already travelling along the start of p, or too slowly
// for its direction of travel to matter.
func onHeading(p *path.Path, current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) bool {
	field := speeds.ToFieldRelative(current.Theta)
	if field.LinearSpeed() < lowSpeed {
		return true
	}
	return math.Abs(utils.AngleDiff(field.Heading(), p.Point(0).Heading)) < headingTolerance
}

// accept starts tracking a path fresh from the pathfinder. If the robot is already on the start
// of the path and moving along it, or initial replanning is disabled, the path is followed as is
// and sampling starts from the point the robot has reached, making up for the time the search
// took. Otherwise the path is replanned from the robot's pose so the entry is smooth, and sampling
// starts at zero. snapped reports which of the two happened.
func accept(
	candidate *path.Path,
	current spatialmath.Pose,
	speeds spatialmath.ChassisSpeeds,
	startPose spatialmath.Pose,
	cfg ReplanningConfig,
) (tracking Tracking, snapped bool) {
	start := trajectory.StartFrom(current, speeds)
	nearStart := spatialmath.Distance(current.Point, candidate.StartPoint()) <= snapDistance
	if !cfg.EnableInitialReplanning || (nearStart && onHeading(candidate, current, speeds)) {
		traj := trajectory.Generate(candidate, start)
		return Tracking{
			Path:       candidate,
			Trajectory: traj,
			TimeOffset: timeOffset(traj, current.Point),
			StartPose:  startPose,
		}, true
	}
	replanned := candidate.Replan(current, speeds)
	return Tracking{
		Path:       replanned,
		Trajectory: trajectory.Generate(replanned, start),
		StartPose:  startPose,
	}, false
}

// timeOffset finds the time at which the trajectory passes closest to position. It walks forward
// from the start while the next state is closer than the current one, then interpolates between
// the state it stopped at and the one after by distance.
func timeOffset(traj *trajectory.Trajectory, position r3.Vector) float64 {
	i := 0
	for i+1 < traj.Len() &&
		spatialmath.Distance(position, traj.State(i+1).Position) < spatialmath.Distance(position, traj.State(i).Position) {
		i++
	}
	if i+1 >= traj.Len() {
		return traj.State(i).Time
	}
	s1, s2 := traj.State(i), traj.State(i+1)
	var t float64
	if span := spatialmath.Distance(s1.Position, s2.Position); span > 1e-9 {
		t = utils.Clamp(spatialmath.Distance(position, s1.Position)/span, 0, 1)
	}
	return utils.Lerp(s1.Time, s2.Time, t)
}

// Reasons a replan was triggered while tracking.
const (
	replanTotalError = "tracking error over threshold"
	replanErrorSpike = "tracking error spiked"
)

// shouldReplan decides whether tracking error calls for a dynamic replan. previous is the error
// reported by the controller for the last control period and current is the distance to this
// period's target.
func shouldReplan(cfg ReplanningConfig, previous, current float64) (bool, string) {
	if !cfg.EnableDynamicReplanning {
		return false, ""
	}
	if current >= cfg.DynamicReplanningTotalErrorThreshold {
		return true, replanTotalError
	}
	if current-previous >= cfg.DynamicReplanningErrorSpikeThreshold {
		return true, replanErrorSpike
	}
	return false, ""
}

// replanned restarts tracking on a path rebuilt from the robot's pose.
func (s Tracking) replanned(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) Tracking {
	p := s.Path.Replan(current, speeds)
	return Tracking{
		Path:       p,
		Trajectory: trajectory.Generate(p, trajectory.StartFrom(current, speeds)),
		StartPose:  s.StartPose,
	}
}

// finished decides whether tracking is complete. When handing off to another path the episode
// ends as soon as the robot could not stop before the path's start anyway; otherwise it ends once
// the trajectory has been sampled to its end.
func finished(
	s Tracking,
	goal Goal,
	current spatialmath.Pose,
	speeds spatialmath.ChassisSpeeds,
	maxAcceleration float64,
	elapsed float64,
) bool {
	if goal.HandsOff() {
		return withinStoppingDistance(goal, current, speeds, maxAcceleration)
	}
	return elapsed+s.TimeOffset >= s.Trajectory.TotalTime()
}

// withinStoppingDistance reports whether the robot is no farther from the goal than it needs to
// brake to a stop at maxAcceleration.
func withinStoppingDistance(goal Goal, current spatialmath.Pose, speeds spatialmath.ChassisSpeeds, maxAcceleration float64) bool {
	v := speeds.LinearSpeed()
	return spatialmath.Distance(current.Point, goal.pose.Point) <= v*v/(2*maxAcceleration)
}
