package path

import "github.com/pkg/errors"

var (
	// ErrTooFewWaypoints is returned when a path is given fewer than two waypoints.
	ErrTooFewWaypoints = errors.New("a path needs at least two waypoints")
	// ErrInvalidConstraints is returned when a velocity or acceleration bound is not strictly positive.
	ErrInvalidConstraints = errors.New("invalid path constraints")
	// ErrInvalidZone is returned when a constraints zone range falls outside [0, 1] or is inverted.
	ErrInvalidZone = errors.New("invalid constraints zone")
	// ErrInvalidRotationTarget is returned when a rotation target lies outside [0, 1].
	ErrInvalidRotationTarget = errors.New("invalid rotation target")
	// ErrTangentDiscontinuity is returned when an interior waypoint that is not a stop point has a kink.
	ErrTangentDiscontinuity = errors.New("waypoint control points are not tangent continuous")
	// ErrInvalidGoalEndState is returned when the goal end velocity is negative.
	ErrInvalidGoalEndState = errors.New("invalid goal end state")
)
