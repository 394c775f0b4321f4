package path

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/pathplanner/spatialmath"
)

// FromPoints builds a smooth path through the given points. Control points are placed a third of
// the way to each neighbouring anchor with the tangent at interior points following the chord
// between their neighbours.
func FromPoints(points []r3.Vector, constraints Constraints, goal GoalEndState) (*Path, error) {
	waypoints := make([]Waypoint, 0, len(points))
	for _, pt := range points {
		waypoints = append(waypoints, Waypoint{Anchor: r3.Vector{X: pt.X, Y: pt.Y}})
	}
	return New(Config{Waypoints: waypoints, Constraints: constraints, Goal: goal})
}

// FromPoses builds a path through the given poses where each pose's heading is the direction of
// travel through its position.
func FromPoses(poses []spatialmath.Pose, constraints Constraints, goal GoalEndState) (*Path, error) {
	waypoints := make([]Waypoint, len(poses))
	for i, pose := range poses {
		anchor := r3.Vector{X: pose.Point.X, Y: pose.Point.Y}
		waypoints[i].Anchor = anchor
		if i > 0 {
			d := spatialmath.Distance(anchor, poses[i-1].Point) / 3
			prev := spatialmath.PointAlong(anchor, d, pose.Theta+math.Pi)
			waypoints[i].Prev = &prev
		}
		if i < len(poses)-1 {
			d := spatialmath.Distance(anchor, poses[i+1].Point) / 3
			next := spatialmath.PointAlong(anchor, d, pose.Theta)
			waypoints[i].Next = &next
		}
	}
	return New(Config{Waypoints: waypoints, Constraints: constraints, Goal: goal})
}
