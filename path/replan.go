package path

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/spatialmath"
)

const (
	// movingSpeed is the speed above which the robot's velocity shapes the leading segment.
	movingSpeed = 0.1
	// startTolerance is how close the robot must be to the first anchor to count as already on it.
	startTolerance   = 1e-3
	minControlLength = 0.05
)

// Replan returns a new path that starts at the robot's current pose and rejoins p at the first
// waypoint at or ahead of the point on p closest to the robot. Speeds are robot relative. When the
// robot is moving, the leading segment leaves along its direction of travel so the commanded
// velocity stays continuous. Zones and rotation targets downstream of the join keep their place
// on the geometry they were authored against; anything behind the robot is dropped. Replan never
// fails: if no waypoint remains ahead of the robot other than the last, or the rebuilt path is
// rejected, the result is a direct two-point path to the end of p.
func (p *Path) Replan(current spatialmath.Pose, speeds spatialmath.ChassisSpeeds) *Path {
	field := speeds.ToFieldRelative(current.Theta)
	robot := r3.Vector{X: current.Point.X, Y: current.Point.Y}

	var robotNext *r3.Vector
	if speed := field.LinearSpeed(); speed > movingSpeed {
		stopping := speed * speed / (2 * p.constraints.MaxAcceleration)
		next := spatialmath.PointAlong(robot, math.Max(stopping/2, minControlLength), field.Heading())
		robotNext = &next
	}

	if spatialmath.Distance(robot, p.StartPoint()) <= startTolerance {
		return p.orDirect(p.rebaseStart(robot, robotNext), robot, robotNext)
	}

	compare := robot
	if robotNext != nil {
		compare = *robotNext
	}
	segments := float64(p.SegmentCount())
	closest := p.points[p.closestPoint(compare)].Fraction * segments
	join := int(math.Ceil(closest - 1e-9))

	switch {
	case join <= 0:
		return p.orDirect(p.prependStart(robot, robotNext), robot, robotNext)
	case join >= p.SegmentCount():
		return p.directToGoal(robot, robotNext)
	default:
		return p.orDirect(p.joinAt(robot, robotNext, closest, join), robot, robotNext)
	}
}

func (p *Path) closestPoint(to r3.Vector) int {
	best, bestDist := 0, math.Inf(1)
	for i, pt := range p.points {
		if d := spatialmath.Distance(pt.Position, to); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (p *Path) orDirect(replanned *Path, robot r3.Vector, robotNext *r3.Vector) *Path {
	if replanned != nil {
		return replanned
	}
	return p.directToGoal(robot, robotNext)
}

// rebuild constructs a sibling path with the same constraints, goal and direction. It returns nil
// if the new geometry is rejected.
func (p *Path) rebuild(waypoints []Waypoint, zones []ConstraintsZone, targets []RotationTarget) *Path {
	replanned, err := New(Config{
		Waypoints:       waypoints,
		Constraints:     p.constraints,
		Zones:           zones,
		RotationTargets: targets,
		Goal:            p.goal,
		Reversed:        p.reversed,
	})
	if err != nil {
		return nil
	}
	return replanned
}

// rebaseStart moves the first anchor onto the robot. Everything after the first waypoint is kept
// as is, so are zones and targets.
func (p *Path) rebaseStart(robot r3.Vector, robotNext *r3.Vector) *Path {
	waypoints := p.Waypoints()
	if robotNext != nil {
		length := math.Max(waypoints[0].Next.Sub(waypoints[0].Anchor).Norm(), minControlLength)
		next := spatialmath.PointAlong(robot, length, spatialmath.HeadingBetween(robot, *robotNext))
		waypoints[0].Next = &next
	}
	waypoints[0].Anchor = robot
	return p.rebuild(waypoints, p.zones, p.targets)
}

// prependStart adds a leading segment from the robot onto the first anchor of p.
func (p *Path) prependStart(robot r3.Vector, robotNext *r3.Vector) *Path {
	waypoints := p.Waypoints()
	start := waypoints[0].Anchor
	dist := spatialmath.Distance(robot, start)

	next := spatialmath.PointAlong(robot, dist/3, spatialmath.HeadingBetween(robot, start))
	if robotNext != nil {
		next = *robotNext
	}
	joinPrev := spatialmath.PointAlong(start, dist/3, p.points[0].Heading+math.Pi)
	waypoints[0].Prev = &joinPrev

	segments := float64(p.SegmentCount())
	shift := func(fraction float64) float64 {
		return (fraction*segments + 1) / (segments + 1)
	}
	zones := make([]ConstraintsZone, 0, len(p.zones))
	for _, zone := range p.zones {
		zones = append(zones, ConstraintsZone{Start: shift(zone.Start), End: shift(zone.End), Constraints: zone.Constraints})
	}
	targets := make([]RotationTarget, 0, len(p.targets))
	for _, target := range p.targets {
		targets = append(targets, RotationTarget{Position: shift(target.Position), Heading: target.Heading})
	}

	leading := Waypoint{Anchor: robot, Next: &next}
	return p.rebuild(append([]Waypoint{leading}, waypoints...), zones, targets)
}

// joinAt replaces everything before waypoint join with a leading segment from the robot. closest
// is the waypoint-relative position of the point on p nearest the robot, in segment units.
func (p *Path) joinAt(robot r3.Vector, robotNext *r3.Vector, closest float64, join int) *Path {
	waypoints := p.Waypoints()[join:]
	joinWaypoint := waypoints[0]

	next := spatialmath.PointAlong(robot,
		spatialmath.Distance(robot, joinWaypoint.Anchor)/3,
		spatialmath.HeadingBetween(robot, *joinWaypoint.Prev))
	if robotNext != nil {
		next = *robotNext
	}

	segments := float64(p.SegmentCount())
	newSegments := float64(p.SegmentCount() - join + 1)
	joinPos := float64(join)
	// remap converts an old position in segment units to a new fraction.
	remap := func(pos float64) (float64, bool) {
		switch {
		case pos >= joinPos:
			return (pos - joinPos + 1) / newSegments, true
		case pos >= closest:
			return (pos - closest) / (joinPos - closest) / newSegments, true
		default:
			return 0, false
		}
	}

	zones := make([]ConstraintsZone, 0, len(p.zones))
	for _, zone := range p.zones {
		end, ok := remap(zone.End * segments)
		if !ok {
			continue
		}
		start, _ := remap(math.Max(zone.Start*segments, closest))
		zones = append(zones, ConstraintsZone{Start: math.Min(start, end), End: end, Constraints: zone.Constraints})
	}
	targets := make([]RotationTarget, 0, len(p.targets))
	for _, target := range p.targets {
		if pos, ok := remap(target.Position * segments); ok {
			targets = append(targets, RotationTarget{Position: pos, Heading: target.Heading})
		}
	}

	leading := Waypoint{Anchor: robot, Next: &next}
	return p.rebuild(append([]Waypoint{leading}, waypoints...), zones, targets)
}

// directToGoal is a two-point path from the robot to the last anchor of p. Zones and rotation
// targets are dropped since everything they were attached to is being skipped.
func (p *Path) directToGoal(robot r3.Vector, robotNext *r3.Vector) *Path {
	goal := p.EndPoint()
	dist := spatialmath.Distance(robot, goal)

	next := spatialmath.PointAlong(robot, dist/3, spatialmath.HeadingBetween(robot, goal))
	if robotNext != nil {
		next = *robotNext
	}
	prev := spatialmath.PointAlong(goal, dist/3, spatialmath.HeadingBetween(goal, next))

	direct := p.rebuild([]Waypoint{
		{Anchor: robot, Next: &next},
		{Anchor: goal, Prev: &prev},
	}, nil, nil)
	if direct == nil {
		// Both anchors and the constraints come from an already validated path.
		return p
	}
	return direct
}
