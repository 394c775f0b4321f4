package sim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/pathplanner/control"
	"go.viam.com/pathplanner/follow"
	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/pathfinding"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/telemetry"
)

// Disturbance is called before every control period and may push the base around.
type Disturbance func(cycle int, base *Base)

// Episode is a closed loop simulation of a single follower run. Time is simulated: the follower's
// clock advances exactly one period per cycle.
type Episode struct {
	Goal       follow.Goal
	Config     follow.Config
	Pathfinder pathfinding.Pathfinder
	Controller control.PathFollowingController
	Base       *Base
	Period     time.Duration
	// MaxCycles bounds the run; the episode is interrupted when it is reached.
	MaxCycles   int
	Disturbance Disturbance
	// Telemetry and Logger are optional.
	Telemetry telemetry.Sink
	Logger    logging.Logger
}

// Result is the outcome of an episode.
type Result struct {
	Cycles    int
	Reason    follow.DoneReason
	Elapsed   time.Duration
	FinalPose spatialmath.Pose
	GoalPose  spatialmath.Pose
	// Errors is the controller's tracking error for every period spent tracking.
	Errors []float64
	// Paths are the paths tracked, in order.
	Paths []*path.Path
	// Replans counts the paths tracked after the first.
	Replans int
}

// Run drives the episode until the follower finishes, MaxCycles is reached or ctx is done.
func (e Episode) Run(ctx context.Context) (*Result, error) {
	if e.Base == nil {
		return nil, errors.New("sim: base is required")
	}
	if e.Period <= 0 {
		return nil, errors.Errorf("sim: period must be positive, got %v", e.Period)
	}
	if e.MaxCycles <= 0 {
		return nil, errors.Errorf("sim: max cycles must be positive, got %d", e.MaxCycles)
	}

	clk := clock.NewMock()
	recorder := &telemetry.Recorder{}
	sink := telemetry.Sink(recorder)
	if e.Telemetry != nil {
		sink = telemetry.Multi(recorder, e.Telemetry)
	}
	f, err := follow.New(e.Goal, e.Config, follow.Dependencies{
		Pathfinder: e.Pathfinder,
		Poses:      e.Base,
		Output:     e.Base,
		Controller: e.Controller,
		Telemetry:  sink,
		Clock:      clk,
		Logger:     e.Logger,
	})
	if err != nil {
		return nil, err
	}

	cycles := 0
	for cycles < e.MaxCycles && !f.IsFinished() && ctx.Err() == nil {
		if e.Disturbance != nil {
			e.Disturbance(cycles, e.Base)
		}
		f.Execute()
		cycles++
		e.Base.Step(e.Period)
		clk.Add(e.Period)
	}
	f.End(!f.IsFinished())

	result := &Result{
		Cycles:    cycles,
		Elapsed:   time.Duration(cycles) * e.Period,
		FinalPose: e.Base.CurrentPose(),
		GoalPose:  e.Goal.Pose(),
		Errors:    recorder.PathInaccuracy(),
		Paths:     recorder.Paths(),
	}
	if done, ok := f.State().(follow.Done); ok {
		result.Reason = done.Reason
	}
	if n := len(result.Paths); n > 1 {
		result.Replans = n - 1
	}
	return result, nil
}
