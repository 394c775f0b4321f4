package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestWrapAngle(t *testing.T) {
	for _, tc := range []struct {
		in, out float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{0.25, 0.25},
	} {
		test.That(t, WrapAngle(tc.in), test.ShouldAlmostEqual, tc.out, 1e-9)
	}
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(DegToRad(10), DegToRad(350)), test.ShouldAlmostEqual, DegToRad(20), 1e-9)
	test.That(t, AngleDiff(DegToRad(350), DegToRad(10)), test.ShouldAlmostEqual, DegToRad(-20), 1e-9)
	test.That(t, AngleDiffDeg(350, 10), test.ShouldAlmostEqual, 20)
}

func TestLerpAngle(t *testing.T) {
	// the shortest arc from 170 to -170 degrees passes through 180
	mid := LerpAngle(DegToRad(170), DegToRad(-170), 0.5)
	test.That(t, math.Abs(mid), test.ShouldAlmostEqual, math.Pi, 1e-9)
	test.That(t, LerpAngle(0, math.Pi/2, 0.5), test.ShouldAlmostEqual, math.Pi/4, 1e-9)
}

func TestScalars(t *testing.T) {
	test.That(t, Lerp(1, 3, 0.25), test.ShouldAlmostEqual, 1.5)
	test.That(t, Clamp(5, 0, 2), test.ShouldEqual, 2.)
	test.That(t, Clamp(-5, 0, 2), test.ShouldEqual, 0.)
	test.That(t, Square(3), test.ShouldEqual, 9.)
	test.That(t, Float64AlmostEqual(1, 1.0001, 1e-3), test.ShouldBeTrue)
	test.That(t, Sinc(0), test.ShouldAlmostEqual, 1.)
	test.That(t, Sinc(math.Pi/2), test.ShouldAlmostEqual, 2/math.Pi, 1e-9)
	test.That(t, RadToDeg(DegToRad(42)), test.ShouldAlmostEqual, 42., 1e-9)
}
