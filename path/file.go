package path

import (
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/pathplanner/utils"
)

// The on-disk format written by the path authoring tool. Angles are in degrees and zone and
// rotation target positions are waypoint-relative, from 0 to the number of segments.
type (
	fileVector struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	fileWaypoint struct {
		Anchor      fileVector  `json:"anchor"`
		PrevControl *fileVector `json:"prevControl"`
		NextControl *fileVector `json:"nextControl"`
		IsStopPoint bool        `json:"isStopPoint,omitempty"`
	}

	fileConstraints struct {
		MaxVelocity            float64 `json:"maxVelocity"`
		MaxAcceleration        float64 `json:"maxAcceleration"`
		MaxAngularVelocity     float64 `json:"maxAngularVelocity"`
		MaxAngularAcceleration float64 `json:"maxAngularAcceleration"`
	}

	fileZone struct {
		Name        string          `json:"name"`
		MinPos      float64         `json:"minWaypointRelativePos"`
		MaxPos      float64         `json:"maxWaypointRelativePos"`
		Constraints fileConstraints `json:"constraints"`
	}

	fileRotationTarget struct {
		Position float64 `json:"waypointRelativePos"`
		Degrees  float64 `json:"rotationDegrees"`
	}

	fileGoalEndState struct {
		Velocity float64 `json:"velocity"`
		Rotation float64 `json:"rotation"`
	}

	file struct {
		Waypoints         []fileWaypoint       `json:"waypoints"`
		RotationTargets   []fileRotationTarget `json:"rotationTargets"`
		ConstraintZones   []fileZone           `json:"constraintZones"`
		GlobalConstraints fileConstraints      `json:"globalConstraints"`
		GoalEndState      fileGoalEndState     `json:"goalEndState"`
		Reversed          bool                 `json:"reversed"`
	}
)

func (v *fileVector) vector() *r3.Vector {
	if v == nil {
		return nil
	}
	return &r3.Vector{X: v.X, Y: v.Y}
}

func (c fileConstraints) constraints() Constraints {
	return Constraints{
		MaxVelocity:            c.MaxVelocity,
		MaxAcceleration:        c.MaxAcceleration,
		MaxAngularVelocity:     utils.DegToRad(c.MaxAngularVelocity),
		MaxAngularAcceleration: utils.DegToRad(c.MaxAngularAcceleration),
	}
}

// ReadFile reads a path file from disk.
func ReadFile(filename string) (*Path, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open path file %q", filename)
	}
	defer f.Close()
	p, err := FromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "path file %q", filename)
	}
	return p, nil
}

// FromReader decodes a path file and validates the path it describes.
func FromReader(r io.Reader) (*Path, error) {
	var raw file
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "cannot decode path")
	}
	return New(raw.config())
}

func (f file) config() Config {
	cfg := Config{
		Constraints: f.GlobalConstraints.constraints(),
		Goal: GoalEndState{
			Velocity: f.GoalEndState.Velocity,
			Heading:  utils.WrapAngle(utils.DegToRad(f.GoalEndState.Rotation)),
		},
		Reversed: f.Reversed,
	}
	for _, w := range f.Waypoints {
		cfg.Waypoints = append(cfg.Waypoints, Waypoint{
			Anchor: r3.Vector{X: w.Anchor.X, Y: w.Anchor.Y},
			Prev:   w.PrevControl.vector(),
			Next:   w.NextControl.vector(),
			Stop:   w.IsStopPoint,
		})
	}

	segments := float64(len(f.Waypoints) - 1)
	fraction := func(pos float64) float64 {
		if segments <= 0 {
			return 0
		}
		return pos / segments
	}
	for _, z := range f.ConstraintZones {
		cfg.Zones = append(cfg.Zones, ConstraintsZone{
			Start:       fraction(z.MinPos),
			End:         fraction(z.MaxPos),
			Constraints: z.Constraints.constraints(),
		})
	}
	for _, t := range f.RotationTargets {
		cfg.RotationTargets = append(cfg.RotationTargets, RotationTarget{
			Position: fraction(t.Position),
			Heading:  utils.WrapAngle(utils.DegToRad(t.Degrees)),
		})
	}
	return cfg
}
