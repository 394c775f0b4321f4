package follow

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/trajectory"
)

func TestEnter(t *testing.T) {
	goal := GoalPose(spatialmath.NewPose(2, 0, 0), 0)
	test.That(t, enter(goal, spatialmath.NewPose(1.8, 0, 0)), test.ShouldResemble, State(Done{Reason: AlreadyAtGoal}))

	start := spatialmath.NewPose(0, 0, 1)
	test.That(t, enter(goal, start), test.ShouldResemble, State(AwaitingPath{StartPose: start}))
}

func TestOnHeading(t *testing.T) {
	p := straightPath(t, r3.Vector{}, r3.Vector{X: 1, Y: 1}, path.GoalEndState{})
	facingX := spatialmath.NewZeroPose()

	test.That(t, onHeading(p, facingX, spatialmath.ChassisSpeeds{Vx: 0.4}), test.ShouldBeTrue)
	test.That(t, onHeading(p, facingX, spatialmath.ChassisSpeeds{Vx: 1}), test.ShouldBeFalse)
	test.That(t, onHeading(p, facingX, spatialmath.ChassisSpeeds{Vx: 1, Vy: 0.7}), test.ShouldBeTrue)
	// Robot relative speeds are turned into the field frame first.
	test.That(t, onHeading(p, spatialmath.NewPose(0, 0, math.Pi/4), spatialmath.ChassisSpeeds{Vx: 1}), test.ShouldBeTrue)
}

func TestTimeOffset(t *testing.T) {
	traj := trajectory.Generate(straightPath(t, r3.Vector{}, r3.Vector{X: 5}, path.GoalEndState{}), trajectory.Start{})

	test.That(t, timeOffset(traj, r3.Vector{}), test.ShouldEqual, 0)
	test.That(t, timeOffset(traj, r3.Vector{X: 2.5, Y: 0.2}), test.ShouldAlmostEqual, traj.TotalTime()/2, 0.05)
	test.That(t, timeOffset(traj, r3.Vector{X: 9}), test.ShouldEqual, traj.TotalTime())
}

func TestShouldReplan(t *testing.T) {
	cfg := DefaultReplanningConfig()
	replan, _ := shouldReplan(cfg, 0, 5)
	test.That(t, replan, test.ShouldBeFalse)

	cfg.EnableDynamicReplanning = true
	for _, tc := range []struct {
		previous, current float64
		replan            bool
		reason            string
	}{
		{0, 0.1, false, ""},
		{0.1, 0.3, false, ""},
		{0.1, 0.4, true, replanErrorSpike},
		{0.9, 1.0, true, replanTotalError},
		{1.2, 1.1, true, replanTotalError},
	} {
		replan, reason := shouldReplan(cfg, tc.previous, tc.current)
		test.That(t, replan, test.ShouldEqual, tc.replan)
		test.That(t, reason, test.ShouldEqual, tc.reason)
	}
}

func TestFinished(t *testing.T) {
	p := straightPath(t, r3.Vector{}, r3.Vector{X: 5}, path.GoalEndState{})
	tracking := Tracking{Path: p, Trajectory: trajectory.Generate(p, trajectory.Start{}), TimeOffset: 0.5}
	total := tracking.Trajectory.TotalTime()

	t.Run("by time", func(t *testing.T) {
		goal := GoalPose(spatialmath.NewPose(5, 0, 0), 0)
		test.That(t, finished(tracking, goal, spatialmath.NewZeroPose(), spatialmath.ChassisSpeeds{}, 1, total-0.6), test.ShouldBeFalse)
		test.That(t, finished(tracking, goal, spatialmath.NewZeroPose(), spatialmath.ChassisSpeeds{}, 1, total-0.4), test.ShouldBeTrue)
	})

	t.Run("by stopping distance onto another path", func(t *testing.T) {
		next := straightPath(t, r3.Vector{X: 3}, r3.Vector{X: 6}, path.GoalEndState{})
		goal := GoalPath(next)
		test.That(t, goal.HandsOff(), test.ShouldBeTrue)
		test.That(t, goal.EndState().Velocity, test.ShouldEqual, testConstraints.MaxVelocity)

		at := spatialmath.NewPose(2, 0, 0)
		test.That(t, finished(tracking, goal, at, spatialmath.ChassisSpeeds{Vx: 1}, 1, 0), test.ShouldBeFalse)
		test.That(t, finished(tracking, goal, at, spatialmath.ChassisSpeeds{Vx: 1.5}, 1, 0), test.ShouldBeTrue)
	})
}
