package follow

import (
	"math"

	"go.uber.org/multierr"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/utils"
)

// ReplanningConfig controls when the follower rebuilds the path it is following.
type ReplanningConfig struct {
	// EnableInitialReplanning smooths the entry into a new path when the robot is not already
	// on its start and moving along it.
	EnableInitialReplanning bool `json:"enable_initial_replanning"`
	// EnableDynamicReplanning replans while tracking when the tracking error gets too large.
	EnableDynamicReplanning bool `json:"enable_dynamic_replanning"`
	// DynamicReplanningTotalErrorThreshold is the tracking error that triggers a replan.
	DynamicReplanningTotalErrorThreshold float64 `json:"dynamic_replanning_total_error_threshold"`
	// DynamicReplanningErrorSpikeThreshold is the growth in tracking error over a single control
	// period that triggers a replan.
	DynamicReplanningErrorSpikeThreshold float64 `json:"dynamic_replanning_error_spike_threshold"`
}

// DefaultReplanningConfig enables initial replanning only.
func DefaultReplanningConfig() ReplanningConfig {
	return ReplanningConfig{
		EnableInitialReplanning:              true,
		EnableDynamicReplanning:              false,
		DynamicReplanningTotalErrorThreshold: 1.0,
		DynamicReplanningErrorSpikeThreshold: 0.25,
	}
}

// Validate ensures both thresholds are positive.
func (c ReplanningConfig) Validate(path string) error {
	var errs error
	if !(c.DynamicReplanningTotalErrorThreshold > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationPositiveError(
			path, "dynamic_replanning_total_error_threshold", c.DynamicReplanningTotalErrorThreshold))
	}
	if !(c.DynamicReplanningErrorSpikeThreshold > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationPositiveError(
			path, "dynamic_replanning_error_spike_threshold", c.DynamicReplanningErrorSpikeThreshold))
	}
	return errs
}

// Config is everything about a follower that is fixed for its lifetime.
type Config struct {
	// Constraints are handed to the pathfinder for every path it builds.
	Constraints path.Constraints
	Replanning  ReplanningConfig
	// RotationDelayDistance is how far the robot travels from its starting pose before it starts
	// turning towards the path's rotation targets.
	RotationDelayDistance float64
}

// Validate reports every invalid field.
func (c Config) Validate(path string) error {
	errs := multierr.Combine(c.Constraints.Validate(), c.Replanning.Validate(path))
	if c.RotationDelayDistance < 0 || math.IsNaN(c.RotationDelayDistance) {
		errs = multierr.Append(errs, utils.NewOutOfRangeError("rotation_delay_distance", c.RotationDelayDistance, 0, math.Inf(1)))
	}
	return errs
}
