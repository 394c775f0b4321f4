// Package follow drives a robot along paths produced by a pathfinder. A Follower is advanced one
// control period at a time by an external scheduler: it polls the pathfinder, builds and samples
// trajectories, replans when the robot strays and emits chassis speeds.
package follow

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pathplanner/control"
	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/pathfinding"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/telemetry"
	"go.viam.com/pathplanner/trajectory"
)

// stopVelocity is the goal end velocity below which ending an episode commands the robot to stop.
const stopVelocity = 0.1

// PoseProvider reports the robot's current state. Both calls must return without blocking.
type PoseProvider interface {
	CurrentPose() spatialmath.Pose
	// CurrentSpeeds returns robot relative speeds.
	CurrentSpeeds() spatialmath.ChassisSpeeds
}

// SpeedsSink accepts robot relative speed commands.
type SpeedsSink interface {
	SetSpeeds(speeds spatialmath.ChassisSpeeds)
}

// Dependencies are the collaborators of a Follower. Telemetry, Clock and Logger are optional.
type Dependencies struct {
	Pathfinder pathfinding.Pathfinder
	Poses      PoseProvider
	Output     SpeedsSink
	Controller control.PathFollowingController
	Telemetry  telemetry.Sink
	Clock      clock.Clock
	Logger     logging.Logger
}

func (d Dependencies) validate() error {
	var errs error
	for _, dep := range []struct {
		name    string
		missing bool
	}{
		{"pathfinder", d.Pathfinder == nil},
		{"poses", d.Poses == nil},
		{"output", d.Output == nil},
		{"controller", d.Controller == nil},
	} {
		if dep.missing {
			errs = multierr.Append(errs, errors.Errorf("%s is required", dep.name))
		}
	}
	return errs
}

// Follower runs one path following episode.
type Follower struct {
	mu sync.Mutex

	id     uuid.UUID
	goal   Goal
	cfg    Config
	deps   Dependencies
	logger logging.Logger

	state State
	start time.Time
	ended bool
}

// New validates the goal, configuration and dependencies and returns an idle Follower.
func New(goal Goal, cfg Config, deps Dependencies) (*Follower, error) {
	if err := multierr.Combine(goal.validate(), cfg.Validate("follower"), deps.validate()); err != nil {
		return nil, errors.Wrap(err, "invalid follower")
	}
	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Global()
	}
	id := uuid.New()
	return &Follower{
		id:     id,
		goal:   goal,
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger.Sublogger("follow"),
		state:  Idle{},
	}, nil
}

// ID identifies the episode in logs.
func (f *Follower) ID() uuid.UUID {
	return f.id
}

// State returns the current state.
func (f *Follower) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// IsFinished reports whether the episode has reached Done.
func (f *Follower) IsFinished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, done := f.state.(Done)
	return done
}

func (f *Follower) setState(s State) {
	f.logger.Debugw("state change", "episode", f.id.String(), "from", f.state.String(), "to", s.String())
	f.state = s
}

func (f *Follower) resetTimer() {
	f.start = f.deps.Clock.Now()
}

func (f *Follower) elapsed() float64 {
	return f.deps.Clock.Since(f.start).Seconds()
}

// Execute runs one control period. The robot's pose and speeds are read once up front and used
// for every decision in the period.
func (f *Follower) Execute() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ended {
		return
	}

	current := f.deps.Poses.CurrentPose()
	speeds := f.deps.Poses.CurrentSpeeds()
	f.deps.Telemetry.SetCurrentPose(current)

	if _, idle := f.state.(Idle); idle {
		f.initialize(current, speeds)
	}

	switch f.state.(type) {
	case AwaitingPath, Tracking:
	default:
		return
	}

	f.pollPathfinder(current, speeds)
	tracking, ok := f.state.(Tracking)
	if !ok {
		if f.goal.HandsOff() && withinStoppingDistance(f.goal, current, speeds, f.cfg.Constraints.MaxAcceleration) {
			f.setState(Done{Reason: Finished})
		}
		return
	}

	elapsed := f.elapsed()
	target := tracking.Trajectory.Sample(elapsed + tracking.TimeOffset)
	previous := f.deps.Controller.PositionalError()
	if replan, reason := shouldReplan(f.cfg.Replanning, previous, spatialmath.Distance(current.Point, target.Position)); replan {
		tracking = tracking.replanned(current, speeds)
		f.setState(tracking)
		f.resetTimer()
		elapsed = 0
		target = tracking.Trajectory.Sample(0)
		f.logger.Infow("replanning", "episode", f.id.String(), "reason", reason, "error", previous)
		f.deps.Telemetry.SetActivePath(tracking.Path)
	}

	if f.cfg.RotationDelayDistance > 0 &&
		spatialmath.Distance(current.Point, tracking.StartPose.Point) < f.cfg.RotationDelayDistance {
		target.TargetHeading = tracking.StartPose.Theta
	}

	commanded := f.deps.Controller.Calculate(current, target)
	f.deps.Output.SetSpeeds(commanded)
	f.publish(target, speeds, commanded)

	if finished(tracking, f.goal, current, speeds, f.cfg.Constraints.MaxAcceleration, elapsed) {
		f.setState(Done{Reason: Finished})
	}
}

func (f *Follower) initialize(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) {
	f.resetTimer()
	next := enter(f.goal, current)
	f.setState(next)
	if _, done := next.(Done); done {
		f.logger.Infow("already at goal", "episode", f.id.String(), "pose", current.String())
		return
	}
	f.deps.Pathfinder.SetEndpoints(current.Point, f.goal.pose.Point)
	f.deps.Controller.Reset(current, speeds)
}

func (f *Follower) pollPathfinder(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) {
	if !f.deps.Pathfinder.HasNewPath() {
		return
	}
	candidate := f.deps.Pathfinder.GetPath(f.cfg.Constraints, f.goal.EndState())
	if candidate == nil {
		f.logger.Debugw("pathfinder returned no path", "episode", f.id.String())
		return
	}

	var startPose spatialmath.Pose
	switch s := f.state.(type) {
	case AwaitingPath:
		startPose = s.StartPose
	case Tracking:
		startPose = s.StartPose
	}
	tracking, snapped := accept(candidate, current, speeds, startPose, f.cfg.Replanning)
	f.setState(tracking)
	f.resetTimer()
	f.logger.Infow("new path",
		"episode", f.id.String(),
		"snapped", snapped,
		"time_offset", tracking.TimeOffset,
		"duration", tracking.Trajectory.TotalTime())
	f.deps.Telemetry.SetActivePath(tracking.Path)
}

func (f *Follower) publish(target trajectory.State, actual, commanded spatialmath.ChassisSpeeds) {
	if f.deps.Controller.IsHolonomic() {
		f.deps.Telemetry.SetTargetPose(target.HolonomicPose())
	} else {
		f.deps.Telemetry.SetTargetPose(target.DifferentialPose())
	}
	f.deps.Telemetry.SetVelocities(actual, commanded)
	f.deps.Telemetry.SetPathInaccuracy(f.deps.Controller.PositionalError())
}

// End finishes the episode. interrupted is true when the scheduler stops the episode before it
// finished. If the goal end velocity is close to zero the robot is commanded to stop, on normal
// completion as well as on interruption; otherwise the last command stands so that whatever runs
// next takes over without a pause. End only acts the first time it is called.
func (f *Follower) End(interrupted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ended {
		return
	}
	f.ended = true

	done, isDone := f.state.(Done)
	if !isDone {
		done = Done{Reason: Finished}
		if interrupted {
			done.Reason = Interrupted
		}
		f.setState(done)
	}

	stopped := f.goal.endVelocity < stopVelocity
	if stopped {
		f.deps.Output.SetSpeeds(spatialmath.ChassisSpeeds{})
	}
	f.logger.Infow("episode ended", "episode", f.id.String(), "reason", done.Reason.String(), "stopped", stopped)
}
