package follow

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"

	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/telemetry"
	"go.viam.com/pathplanner/trajectory"
)

const period = 20 * time.Millisecond

var testConstraints = path.Constraints{
	MaxVelocity:            2,
	MaxAcceleration:        1,
	MaxAngularVelocity:     math.Pi,
	MaxAngularAcceleration: math.Pi,
}

type fakeBase struct {
	pose     spatialmath.Pose
	speeds   spatialmath.ChassisSpeeds
	commands []spatialmath.ChassisSpeeds
}

func (b *fakeBase) CurrentPose() spatialmath.Pose {
	return b.pose
}

func (b *fakeBase) CurrentSpeeds() spatialmath.ChassisSpeeds {
	return b.speeds
}

func (b *fakeBase) SetSpeeds(speeds spatialmath.ChassisSpeeds) {
	b.commands = append(b.commands, speeds)
}

type fakePathfinder struct {
	result  *path.Path
	ready   bool
	starts  []r3.Vector
	goals   []r3.Vector
	fetched int
}

func (p *fakePathfinder) SetEndpoints(start, goal r3.Vector) {
	p.starts = append(p.starts, start)
	p.goals = append(p.goals, goal)
}

func (p *fakePathfinder) HasNewPath() bool {
	return p.ready
}

func (p *fakePathfinder) GetPath(path.Constraints, path.GoalEndState) *path.Path {
	p.ready = false
	p.fetched++
	return p.result
}

type fakeController struct {
	holonomic bool
	resets    int
	err       float64
	targets   []trajectory.State
}

func (c *fakeController) Reset(spatialmath.Pose, spatialmath.ChassisSpeeds) {
	c.resets++
	c.err = 0
}

func (c *fakeController) Calculate(current spatialmath.Pose, target trajectory.State) spatialmath.ChassisSpeeds {
	c.targets = append(c.targets, target)
	c.err = spatialmath.Distance(current.Point, target.Position)
	return target.FieldSpeeds().ToRobotRelative(current.Theta)
}

func (c *fakeController) PositionalError() float64 {
	return c.err
}

func (c *fakeController) IsHolonomic() bool {
	return c.holonomic
}

type harness struct {
	follower   *Follower
	clock      *clock.Mock
	base       *fakeBase
	pathfinder *fakePathfinder
	controller *fakeController
	recorder   *telemetry.Recorder
	logs       *observer.ObservedLogs
}

func newHarness(t *testing.T, goal Goal, cfg Config, base *fakeBase, result *path.Path) *harness {
	t.Helper()
	logger, logs := logging.NewObservedTestLogger(t)
	h := &harness{
		clock:      clock.NewMock(),
		base:       base,
		pathfinder: &fakePathfinder{result: result, ready: true},
		controller: &fakeController{holonomic: true},
		recorder:   &telemetry.Recorder{},
		logs:       logs,
	}
	f, err := New(goal, cfg, Dependencies{
		Pathfinder: h.pathfinder,
		Poses:      base,
		Output:     base,
		Controller: h.controller,
		Telemetry:  h.recorder,
		Clock:      h.clock,
		Logger:     logger,
	})
	test.That(t, err, test.ShouldBeNil)
	h.follower = f
	return h
}

// step advances the clock by one period and runs a cycle.
func (h *harness) step() {
	h.clock.Add(period)
	h.follower.Execute()
}

func straightPath(t *testing.T, from, to r3.Vector, goal path.GoalEndState) *path.Path {
	t.Helper()
	p, err := path.FromPoints([]r3.Vector{from, to}, testConstraints, goal)
	test.That(t, err, test.ShouldBeNil)
	return p
}

func defaultConfig() Config {
	return Config{Constraints: testConstraints, Replanning: DefaultReplanningConfig()}
}
