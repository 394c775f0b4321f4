package trajectory

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
)

var testConstraints = path.Constraints{
	MaxVelocity:            2,
	MaxAcceleration:        1,
	MaxAngularVelocity:     math.Pi,
	MaxAngularAcceleration: math.Pi,
}

func newPath(t *testing.T, cfg path.Config) *path.Path {
	t.Helper()
	if cfg.Constraints == (path.Constraints{}) {
		cfg.Constraints = testConstraints
	}
	p, err := path.New(cfg)
	test.That(t, err, test.ShouldBeNil)
	return p
}

func straight(length float64) path.Config {
	return path.Config{Waypoints: []path.Waypoint{path.NewWaypoint(0, 0), path.NewWaypoint(length, 0)}}
}

func checkInvariants(t *testing.T, traj *Trajectory) {
	t.Helper()
	states := traj.States()
	test.That(t, states[0].Time, test.ShouldEqual, 0)
	for i, s := range states {
		test.That(t, s.Velocity, test.ShouldBeLessThanOrEqualTo, s.Constraints.MaxVelocity+1e-9)
		test.That(t, s.Velocity, test.ShouldBeGreaterThanOrEqualTo, 0)
		if i == 0 {
			continue
		}
		prev := states[i-1]
		test.That(t, s.Time, test.ShouldBeGreaterThan, prev.Time)
		ds := s.Distance - prev.Distance
		accel := math.Min(s.Constraints.MaxAcceleration, prev.Constraints.MaxAcceleration)
		test.That(t, math.Abs(s.Velocity*s.Velocity-prev.Velocity*prev.Velocity), test.ShouldBeLessThanOrEqualTo, 2*accel*ds+1e-9)
	}
}

func TestTrapezoid(t *testing.T) {
	traj := Generate(newPath(t, straight(5)), Start{})
	checkInvariants(t, traj)

	// Two seconds up to 2, half a second cruising and two seconds back down.
	test.That(t, traj.TotalTime(), test.ShouldAlmostEqual, 4.5, 0.02)
	test.That(t, traj.MaxVelocity(), test.ShouldAlmostEqual, 2, 1e-9)
	test.That(t, traj.InitialState().Velocity, test.ShouldEqual, 0)
	test.That(t, traj.EndState().Velocity, test.ShouldEqual, 0)
	test.That(t, traj.InitialVelocityScaled(), test.ShouldBeFalse)

	mid := traj.Sample(traj.TotalTime() / 2)
	test.That(t, mid.Position.X, test.ShouldAlmostEqual, 2.5, 0.05)
	test.That(t, mid.Velocity, test.ShouldAlmostEqual, 2, 1e-9)
}

func TestTriangle(t *testing.T) {
	// Too short to reach the velocity limit: peaks at sqrt(a*d).
	traj := Generate(newPath(t, straight(2)), Start{})
	checkInvariants(t, traj)
	test.That(t, traj.MaxVelocity(), test.ShouldAlmostEqual, math.Sqrt2, 0.05)
	test.That(t, traj.TotalTime(), test.ShouldAlmostEqual, 2*math.Sqrt2, 0.02)
}

func TestCurvatureBound(t *testing.T) {
	// A quarter bend from heading east to heading north, driven into at speed.
	fast := testConstraints
	fast.MaxVelocity = 5
	p := newPath(t, path.Config{
		Waypoints: []path.Waypoint{
			path.NewWaypoint(0, 0).WithControls(nil, &r3.Vector{X: 1.1}),
			path.NewWaypoint(2, 2).WithControls(&r3.Vector{X: 2, Y: 0.9}, nil),
		},
		Constraints: fast,
	})
	traj := Generate(p, Start{LinearVelocity: 4})
	checkInvariants(t, traj)

	bound := false
	for _, s := range traj.States() {
		limit := p.EffectiveConstraints(s.Fraction, s.Curvature).MaxVelocity
		test.That(t, s.Velocity, test.ShouldBeLessThanOrEqualTo, limit+1e-9)
		if limit < fast.MaxVelocity-1e-6 {
			bound = true
		}
	}
	test.That(t, bound, test.ShouldBeTrue)
	test.That(t, traj.InitialState().Velocity, test.ShouldBeLessThan, 4)
	test.That(t, traj.MaxVelocity(), test.ShouldBeLessThan, fast.MaxVelocity)
}

func TestConstraintZone(t *testing.T) {
	base := Generate(newPath(t, straight(5)), Start{})

	zoned := straight(5)
	zoned.Zones = []path.ConstraintsZone{{
		Start: 0.2,
		End:   0.4,
		Constraints: path.Constraints{
			MaxVelocity:            1,
			MaxAcceleration:        1,
			MaxAngularVelocity:     math.Pi,
			MaxAngularAcceleration: math.Pi,
		},
	}}
	traj := Generate(newPath(t, zoned), Start{})
	checkInvariants(t, traj)

	for _, s := range traj.States() {
		if s.Fraction >= 0.2 && s.Fraction <= 0.4 {
			test.That(t, s.Velocity, test.ShouldBeLessThanOrEqualTo, 1+1e-9)
		}
	}
	test.That(t, traj.TotalTime(), test.ShouldBeGreaterThan, base.TotalTime())
}

func TestEndpointVelocities(t *testing.T) {
	cfg := straight(5)
	cfg.Goal = path.GoalEndState{Velocity: 0.5}
	traj := Generate(newPath(t, cfg), Start{LinearVelocity: 1})
	checkInvariants(t, traj)
	test.That(t, traj.InitialState().Velocity, test.ShouldEqual, 1)
	test.That(t, traj.EndState().Velocity, test.ShouldEqual, 0.5)
	test.That(t, traj.InitialVelocityScaled(), test.ShouldBeFalse)
}

func TestInfeasibleInitialVelocity(t *testing.T) {
	cfg := straight(1)
	cfg.Constraints = path.Constraints{
		MaxVelocity:            5,
		MaxAcceleration:        1,
		MaxAngularVelocity:     math.Pi,
		MaxAngularAcceleration: math.Pi,
	}
	traj := Generate(newPath(t, cfg), Start{LinearVelocity: 3})
	checkInvariants(t, traj)

	test.That(t, traj.InitialVelocityScaled(), test.ShouldBeTrue)
	test.That(t, traj.InitialState().Velocity, test.ShouldAlmostEqual, math.Sqrt2, 1e-9)
	test.That(t, traj.EndState().Velocity, test.ShouldEqual, 0)
}

func TestZeroLength(t *testing.T) {
	p := newPath(t, path.Config{Waypoints: []path.Waypoint{path.NewWaypoint(1, 1), path.NewWaypoint(1, 1)}})
	traj := Generate(p, Start{LinearVelocity: 1})
	test.That(t, traj.Len(), test.ShouldEqual, 1)
	test.That(t, traj.TotalTime(), test.ShouldEqual, 0)
	test.That(t, traj.InitialState().Velocity, test.ShouldEqual, 0)
	test.That(t, traj.Sample(3).Position, test.ShouldResemble, traj.InitialState().Position)
}

func TestSample(t *testing.T) {
	traj := Generate(newPath(t, straight(5)), Start{})

	t.Run("own timestamps are exact", func(t *testing.T) {
		for _, s := range traj.States() {
			test.That(t, traj.Sample(s.Time), test.ShouldResemble, s)
		}
	})

	t.Run("clamped", func(t *testing.T) {
		test.That(t, traj.Sample(-1), test.ShouldResemble, traj.InitialState())
		test.That(t, traj.Sample(traj.TotalTime()+1), test.ShouldResemble, traj.EndState())
	})

	t.Run("interpolated", func(t *testing.T) {
		a, b := traj.State(10), traj.State(11)
		s := traj.Sample((a.Time + b.Time) / 2)
		test.That(t, s.Position.X, test.ShouldAlmostEqual, (a.Position.X+b.Position.X)/2, 1e-9)
		test.That(t, s.Velocity, test.ShouldAlmostEqual, (a.Velocity+b.Velocity)/2, 1e-9)
	})
}

func TestHeadings(t *testing.T) {
	cfg := straight(4)
	cfg.RotationTargets = []path.RotationTarget{{Position: 0.5, Heading: math.Pi / 2}}
	cfg.Goal = path.GoalEndState{Heading: math.Pi / 2}
	p := newPath(t, cfg)

	traj := Generate(p, StartFrom(spatialmath.NewPose(0, 0, 0), spatialmath.ChassisSpeeds{}))
	test.That(t, traj.InitialState().TargetHeading, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, traj.EndState().TargetHeading, test.ShouldAlmostEqual, math.Pi/2, 1e-9)
	test.That(t, traj.InitialState().DifferentialPose().Theta, test.ShouldAlmostEqual, 0, 1e-9)

	var turning bool
	for _, s := range traj.States()[1:] {
		if s.AngularVelocity > 0 {
			turning = true
		}
		test.That(t, s.AngularVelocity, test.ShouldBeGreaterThanOrEqualTo, -1e-9)
	}
	test.That(t, turning, test.ShouldBeTrue)

	cfg.Reversed = true
	reversed := Generate(newPath(t, cfg), Start{})
	test.That(t, reversed.InitialState().DifferentialPose().Theta, test.ShouldAlmostEqual, math.Pi, 1e-9)
	test.That(t, reversed.InitialState().Reversed, test.ShouldBeTrue)
}

func TestStartAngularVelocityClamped(t *testing.T) {
	traj := Generate(newPath(t, straight(2)), Start{AngularVelocity: 10})
	test.That(t, traj.InitialState().AngularVelocity, test.ShouldAlmostEqual, math.Pi)
}
