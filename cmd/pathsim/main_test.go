package main

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.viam.com/test"

	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/telemetry"
)

func TestParsePose(t *testing.T) {
	pose, err := parsePose("1, -2.5,90")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point.X, test.ShouldEqual, 1)
	test.That(t, pose.Point.Y, test.ShouldEqual, -2.5)
	test.That(t, pose.Theta, test.ShouldAlmostEqual, math.Pi/2)

	pose, err = parsePose("0,0,270")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Theta, test.ShouldAlmostEqual, -math.Pi/2)

	_, err = parsePose("1,2")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = parsePose("1,x,3")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `invalid pose "1,x,3"`)
}

func TestMetricsTable(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewPrometheus(reg)
	test.That(t, err, test.ShouldBeNil)
	metrics.SetCurrentPose(spatialmath.NewPose(1.25, 0, 0))
	metrics.SetPathInaccuracy(0.5)

	families, err := reg.Gather()
	test.That(t, err, test.ShouldBeNil)
	out := metricsTable(families)
	test.That(t, out, test.ShouldContainSubstring, "pathplanner_current_pose")
	test.That(t, out, test.ShouldContainSubstring, "axis=x")
	test.That(t, out, test.ShouldContainSubstring, "1.250")
	test.That(t, out, test.ShouldContainSubstring, "pathplanner_path_inaccuracy")
}

func TestNewLogger(t *testing.T) {
	test.That(t, newLogger(logging.WARN, false).GetLevel(), test.ShouldEqual, logging.WARN)
	test.That(t, newLogger(logging.ERROR, true).GetLevel(), test.ShouldEqual, logging.DEBUG)
}
