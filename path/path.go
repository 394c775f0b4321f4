// Package path describes authored robot paths: a chain of cubic Bezier segments through
// waypoints, annotated with global constraints, constraint zones, rotation targets and a goal
// end state. A Path is immutable; replanning produces a new one.
package path

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/utils"
)

const (
	// sampleSpacing is the target distance between discretised samples.
	sampleSpacing        = 0.05
	minSamplesPerSegment = 4
	maxSamplesPerSegment = 400
	// duplicateDistance is the spacing below which consecutive samples are merged.
	duplicateDistance = 1e-9
)

// Config holds everything needed to construct a Path.
type Config struct {
	Waypoints       []Waypoint
	Constraints     Constraints
	Zones           []ConstraintsZone
	RotationTargets []RotationTarget
	Goal            GoalEndState
	// Reversed means a differential drive traverses the path driving backwards.
	Reversed bool
}

// Point is one discretised sample along a path.
type Point struct {
	Position r3.Vector
	// Heading is the direction of the path tangent in the direction of travel along the curve.
	Heading   float64
	Curvature float64
	// Distance is the arc length from the start of the path.
	Distance float64
	// Fraction is the waypoint-relative position of the sample in [0, 1].
	Fraction float64
	// Constraints are the effective constraints at this sample, including the curvature limit.
	Constraints Constraints
}

// Path is an immutable, validated path geometry.
type Path struct {
	waypoints   []Waypoint
	constraints Constraints
	zones       []ConstraintsZone
	targets     []RotationTarget
	goal        GoalEndState
	reversed    bool

	points []Point
}

// New validates cfg and discretises the resulting path. Every validation failure is reported.
func New(cfg Config) (*Path, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Path{
		waypoints:   fillControls(cfg.Waypoints),
		constraints: cfg.Constraints,
		zones:       append([]ConstraintsZone(nil), cfg.Zones...),
		targets:     append([]RotationTarget(nil), cfg.RotationTargets...),
		goal:        cfg.Goal,
		reversed:    cfg.Reversed,
	}
	sort.SliceStable(p.targets, func(i, j int) bool { return p.targets[i].Position < p.targets[j].Position })
	for i := 1; i < len(p.waypoints)-1; i++ {
		if err := p.waypoints[i].checkTangent(i); err != nil {
			return nil, err
		}
	}
	p.points = p.discretise()
	return p, nil
}

func (cfg Config) validate() error {
	var errs error
	if len(cfg.Waypoints) < 2 {
		errs = multierr.Append(errs, errors.Wrapf(ErrTooFewWaypoints, "got %d", len(cfg.Waypoints)))
	}
	errs = multierr.Append(errs, cfg.Constraints.Validate())
	for i, zone := range cfg.Zones {
		if err := zone.validate(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "zone %d", i))
		}
	}
	for i, target := range cfg.RotationTargets {
		if target.Position < 0 || target.Position > 1 || math.IsNaN(target.Position) {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidRotationTarget, "target %d position %v outside [0, 1]", i, target.Position))
		}
	}
	if cfg.Goal.Velocity < 0 || math.IsNaN(cfg.Goal.Velocity) {
		errs = multierr.Append(errs, errors.Wrapf(ErrInvalidGoalEndState, "end velocity %v must be non-negative", cfg.Goal.Velocity))
	}
	return errs
}

// fillControls copies the waypoints and materialises every missing control point, so later
// truncation never changes the shape of the segments that remain. Missing controls on interior
// waypoints follow the chord between the neighbouring anchors, or mirror the authored control on
// the other side, which keeps the tangent continuous. Stop waypoints and the two ends point
// straight at their neighbours.
func fillControls(in []Waypoint) []Waypoint {
	out := make([]Waypoint, len(in))
	for i, w := range in {
		out[i] = w.clone()
	}
	last := len(out) - 1
	for i := range out {
		anchor := out[i].Anchor
		if i == 0 {
			out[i].Prev = nil
		}
		if i == last {
			out[i].Next = nil
		}
		straight := out[i].Stop || i == 0 || i == last
		var through float64
		if !straight {
			through = spatialmath.HeadingBetween(out[i-1].Anchor, out[i+1].Anchor)
		}

		if i > 0 && out[i].Prev == nil {
			var prev r3.Vector
			switch {
			case straight:
				prev = spatialmath.LerpPoint(anchor, out[i-1].Anchor, 1./3)
			case out[i].Next != nil:
				prev = spatialmath.PointAlong(anchor, spatialmath.Distance(anchor, out[i-1].Anchor)/3,
					spatialmath.HeadingBetween(*out[i].Next, anchor))
			default:
				prev = spatialmath.PointAlong(anchor, spatialmath.Distance(anchor, out[i-1].Anchor)/3, through+math.Pi)
			}
			out[i].Prev = &prev
		}
		if i < last && out[i].Next == nil {
			var next r3.Vector
			if straight {
				next = spatialmath.LerpPoint(anchor, out[i+1].Anchor, 1./3)
			} else {
				next = spatialmath.PointAlong(anchor, spatialmath.Distance(anchor, out[i+1].Anchor)/3,
					spatialmath.HeadingBetween(*out[i].Prev, anchor))
			}
			out[i].Next = &next
		}
	}
	return out
}

func (p *Path) segment(i int) cubic {
	return cubic{p.waypoints[i].Anchor, *p.waypoints[i].Next, *p.waypoints[i+1].Prev, p.waypoints[i+1].Anchor}
}

// discretise samples every segment densely. Consecutive duplicates are dropped so that every
// kept sample advances along the path.
func (p *Path) discretise() []Point {
	segments := p.SegmentCount()
	points := make([]Point, 0, segments*minSamplesPerSegment+1)
	var last r3.Vector
	var distance float64

	add := func(seg cubic, segIdx int, t float64) {
		pos := seg.eval(t)
		if len(points) > 0 {
			step := spatialmath.Distance(pos, last)
			if step < duplicateDistance {
				return
			}
			distance += step
		}
		heading := tangentHeading(seg, t)
		if math.IsNaN(heading) {
			if len(points) > 0 {
				heading = spatialmath.HeadingBetween(last, pos)
			} else {
				heading = spatialmath.HeadingBetween(seg.p0, seg.p3)
			}
		}
		curvature := seg.curvature(t)
		fraction := (float64(segIdx) + t) / float64(segments)
		points = append(points, Point{
			Position:    pos,
			Heading:     heading,
			Curvature:   curvature,
			Distance:    distance,
			Fraction:    fraction,
			Constraints: p.EffectiveConstraints(fraction, curvature),
		})
		last = pos
	}

	for i := 0; i < segments; i++ {
		seg := p.segment(i)
		samples := int(math.Ceil(seg.polygonLength() / sampleSpacing))
		samples = int(utils.Clamp(float64(samples), minSamplesPerSegment, maxSamplesPerSegment))
		for s := 0; s < samples; s++ {
			add(seg, i, float64(s)/float64(samples))
		}
	}
	add(p.segment(segments-1), segments-1, 1)

	// The end anchor always backs the final sample, even when it was merged as a duplicate.
	if end := p.waypoints[len(p.waypoints)-1].Anchor; len(points) > 1 {
		points[len(points)-1].Position = end
		points[len(points)-1].Fraction = 1
	}
	return points
}

// tangentHeading returns the tangent direction at t, NaN when the derivative vanishes.
func tangentHeading(seg cubic, t float64) float64 {
	d := seg.derivative(t)
	if math.Hypot(d.X, d.Y) < 1e-9 {
		// Control points stacked on an anchor; nudge inward to find the direction.
		nudge := 1e-3
		if t > 0.5 {
			nudge = -nudge
		}
		d = seg.derivative(t + nudge)
		if math.Hypot(d.X, d.Y) < 1e-9 {
			return math.NaN()
		}
	}
	return math.Atan2(d.Y, d.X)
}

// Waypoints returns a copy of the waypoints with every control point materialised.
func (p *Path) Waypoints() []Waypoint {
	out := make([]Waypoint, len(p.waypoints))
	for i, w := range p.waypoints {
		out[i] = w.clone()
	}
	return out
}

// SegmentCount is the number of Bezier segments, one less than the number of waypoints.
func (p *Path) SegmentCount() int {
	return len(p.waypoints) - 1
}

// GlobalConstraints returns the constraints applied everywhere on the path.
func (p *Path) GlobalConstraints() Constraints {
	return p.constraints
}

// Zones returns a copy of the constraint zones.
func (p *Path) Zones() []ConstraintsZone {
	return append([]ConstraintsZone(nil), p.zones...)
}

// RotationTargets returns a copy of the rotation targets sorted by position.
func (p *Path) RotationTargets() []RotationTarget {
	return append([]RotationTarget(nil), p.targets...)
}

// GoalEndState returns the state to hold at the end of the path.
func (p *Path) GoalEndState() GoalEndState {
	return p.goal
}

// Reversed reports whether a differential drive traverses the path backwards.
func (p *Path) Reversed() bool {
	return p.reversed
}

// Points returns a copy of the discretised samples.
func (p *Path) Points() []Point {
	return append([]Point(nil), p.points...)
}

// NumPoints is the number of discretised samples.
func (p *Path) NumPoints() int {
	return len(p.points)
}

// Point returns the i-th discretised sample.
func (p *Path) Point(i int) Point {
	return p.points[i]
}

// Length is the arc length of the path.
func (p *Path) Length() float64 {
	return p.points[len(p.points)-1].Distance
}

// StartPoint returns the first anchor.
func (p *Path) StartPoint() r3.Vector {
	return p.waypoints[0].Anchor
}

// EndPoint returns the last anchor.
func (p *Path) EndPoint() r3.Vector {
	return p.waypoints[len(p.waypoints)-1].Anchor
}

// StartingDifferentialPose is the first point with the heading a differential drive would have
// there: the starting tangent, flipped if the path is reversed.
func (p *Path) StartingDifferentialPose() spatialmath.Pose {
	heading := p.points[0].Heading
	if p.reversed {
		heading += math.Pi
	}
	return spatialmath.Pose{Point: p.points[0].Position, Theta: utils.WrapAngle(heading)}
}

// StartingHolonomicPose is the first point with the holonomic heading the path asks for there.
func (p *Path) StartingHolonomicPose() spatialmath.Pose {
	return spatialmath.Pose{Point: p.points[0].Position, Theta: p.HeadingAt(0, nil)}
}
