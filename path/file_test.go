package path

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

const examplePathFile = `{
  "version": 1.0,
  "waypoints": [
    {"anchor": {"x": 1.0, "y": 1.0}, "prevControl": null, "nextControl": {"x": 2.0, "y": 1.0}, "isLocked": false},
    {"anchor": {"x": 3.0, "y": 1.0}, "prevControl": {"x": 2.5, "y": 1.0}, "nextControl": {"x": 3.5, "y": 1.0}},
    {"anchor": {"x": 5.0, "y": 1.0}, "prevControl": {"x": 4.0, "y": 1.0}, "nextControl": null}
  ],
  "rotationTargets": [{"waypointRelativePos": 1.0, "rotationDegrees": 90.0, "rotateFast": false}],
  "constraintZones": [
    {
      "name": "slow",
      "minWaypointRelativePos": 0.5,
      "maxWaypointRelativePos": 1.5,
      "constraints": {"maxVelocity": 1.0, "maxAcceleration": 1.0, "maxAngularVelocity": 180.0, "maxAngularAcceleration": 360.0}
    }
  ],
  "eventMarkers": [],
  "globalConstraints": {"maxVelocity": 3.0, "maxAcceleration": 2.0, "maxAngularVelocity": 540.0, "maxAngularAcceleration": 720.0},
  "goalEndState": {"velocity": 0.0, "rotation": 180.0, "rotateFast": false},
  "reversed": false
}`

func TestFromReader(t *testing.T) {
	p, err := FromReader(strings.NewReader(examplePathFile))
	test.That(t, err, test.ShouldBeNil)

	waypoints := p.Waypoints()
	test.That(t, waypoints, test.ShouldHaveLength, 3)
	test.That(t, waypoints[1].Anchor, test.ShouldResemble, r3.Vector{X: 3, Y: 1})
	test.That(t, *waypoints[1].Prev, test.ShouldResemble, r3.Vector{X: 2.5, Y: 1})
	test.That(t, p.Length(), test.ShouldAlmostEqual, 4, 1e-9)

	global := p.GlobalConstraints()
	test.That(t, global.MaxVelocity, test.ShouldEqual, 3)
	test.That(t, global.MaxAngularVelocity, test.ShouldAlmostEqual, 3*math.Pi)

	zones := p.Zones()
	test.That(t, zones, test.ShouldHaveLength, 1)
	test.That(t, zones[0].Start, test.ShouldAlmostEqual, 0.25)
	test.That(t, zones[0].End, test.ShouldAlmostEqual, 0.75)
	test.That(t, zones[0].Constraints.MaxAngularVelocity, test.ShouldAlmostEqual, math.Pi)

	targets := p.RotationTargets()
	test.That(t, targets[0].Position, test.ShouldAlmostEqual, 0.5)
	test.That(t, targets[0].Heading, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, p.GoalEndState().Heading, test.ShouldAlmostEqual, math.Pi)
	test.That(t, p.Reversed(), test.ShouldBeFalse)
}

func TestFromReaderErrors(t *testing.T) {
	_, err := FromReader(strings.NewReader(`{"waypoints": [`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot decode path")

	_, err = FromReader(strings.NewReader(`{"waypoints": [], "globalConstraints": {"maxVelocity": 1}}`))
	test.That(t, errors.Is(err, ErrTooFewWaypoints), test.ShouldBeTrue)
	test.That(t, errors.Is(err, ErrInvalidConstraints), test.ShouldBeTrue)
}

func TestReadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "example.path")
	test.That(t, os.WriteFile(filename, []byte(examplePathFile), 0o600), test.ShouldBeNil)

	p, err := ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.EndPoint(), test.ShouldResemble, r3.Vector{X: 5, Y: 1})

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.path"))
	test.That(t, err, test.ShouldNotBeNil)
}
