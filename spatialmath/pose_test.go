package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPoseBetweenCompose(t *testing.T) {
	a := NewPose(1, 2, math.Pi/2)
	b := NewPose(1, 5, math.Pi)

	rel := PoseBetween(a, b)
	test.That(t, rel.Point.X, test.ShouldAlmostEqual, 3, 1e-9)
	test.That(t, rel.Point.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, rel.Theta, test.ShouldAlmostEqual, math.Pi/2, 1e-9)

	back := Compose(a, rel)
	test.That(t, back.Point.X, test.ShouldAlmostEqual, b.Point.X, 1e-9)
	test.That(t, back.Point.Y, test.ShouldAlmostEqual, b.Point.Y, 1e-9)
	test.That(t, back.Theta, test.ShouldAlmostEqual, b.Theta, 1e-9)
}

func TestPointHelpers(t *testing.T) {
	p := PointAlong(r3.Vector{X: 1, Y: 1}, 2, math.Pi/2)
	test.That(t, p.X, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, p.Y, test.ShouldAlmostEqual, 3, 1e-9)
	test.That(t, HeadingBetween(r3.Vector{}, r3.Vector{X: -1}), test.ShouldAlmostEqual, math.Pi)
	test.That(t, Distance(r3.Vector{}, r3.Vector{X: 3, Y: 4}), test.ShouldAlmostEqual, 5)

	mid := Interpolate(NewPose(0, 0, math.Pi-0.1), NewPose(2, 0, -math.Pi+0.1), 0.5)
	test.That(t, mid.Point.X, test.ShouldAlmostEqual, 1)
	test.That(t, math.Abs(mid.Theta), test.ShouldAlmostEqual, math.Pi, 1e-9)
}

func TestChassisSpeedsFrames(t *testing.T) {
	robot := ChassisSpeeds{Vx: 1, Vy: 0, Omega: 0.5}
	field := robot.ToFieldRelative(math.Pi / 2)
	test.That(t, field.Vx, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, field.Vy, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, field.Omega, test.ShouldEqual, 0.5)
	test.That(t, field.Heading(), test.ShouldAlmostEqual, math.Pi/2, 1e-9)

	again := field.ToRobotRelative(math.Pi / 2)
	test.That(t, again.Vx, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, again.Vy, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, ChassisSpeeds{Vx: 3, Vy: 4}.LinearSpeed(), test.ShouldAlmostEqual, 5)
}
