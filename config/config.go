// Package config reads the configuration of a path following episode from a file.
package config

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pathplanner/control"
	"go.viam.com/pathplanner/follow"
	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/utils"
)

// Controller types.
const (
	ControllerHolonomic    = "holonomic"
	ControllerDifferential = "differential"
)

// Constraints are path constraints as written in a config file, with angular values in degrees.
type Constraints struct {
	MaxVelocity                   float64 `json:"max_velocity"`
	MaxAcceleration               float64 `json:"max_acceleration"`
	MaxAngularVelocityDegrees     float64 `json:"max_angular_velocity_degs"`
	MaxAngularAccelerationDegrees float64 `json:"max_angular_acceleration_degs"`
}

// Path converts c to path constraints.
func (c Constraints) Path() path.Constraints {
	return path.Constraints{
		MaxVelocity:            c.MaxVelocity,
		MaxAcceleration:        c.MaxAcceleration,
		MaxAngularVelocity:     utils.DegToRad(c.MaxAngularVelocityDegrees),
		MaxAngularAcceleration: utils.DegToRad(c.MaxAngularAccelerationDegrees),
	}
}

// Controller selects and tunes the feedback controller.
type Controller struct {
	Type      string                  `json:"type"`
	Holonomic control.HolonomicConfig `json:"holonomic"`
	Ramsete   control.RamseteConfig   `json:"ramsete"`
}

// Config is a complete episode configuration.
type Config struct {
	Constraints           Constraints             `json:"constraints"`
	Replanning            follow.ReplanningConfig `json:"replanning"`
	RotationDelayDistance float64                 `json:"rotation_delay_distance"`
	Controller            Controller              `json:"controller"`
	PeriodMs              int                     `json:"period_ms"`
	GoalEndVelocity       float64                 `json:"goal_end_velocity"`
	LogLevel              logging.Level           `json:"log_level"`
}

// Default returns the configuration used for every field a file leaves out.
func Default() *Config {
	return &Config{
		Constraints: Constraints{
			MaxVelocity:                   3,
			MaxAcceleration:               3,
			MaxAngularVelocityDegrees:     540,
			MaxAngularAccelerationDegrees: 720,
		},
		Replanning: follow.DefaultReplanningConfig(),
		Controller: Controller{
			Type: ControllerHolonomic,
			Holonomic: control.HolonomicConfig{
				Translation: control.PIDConfig{Kp: 5},
				Rotation:    control.PIDConfig{Kp: 5},
			},
			Ramsete: control.RamseteConfig{B: 2, Zeta: 0.7},
		},
		PeriodMs: 20,
		LogLevel: logging.INFO,
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	const path = "config"
	errs := c.Follow().Validate(path)
	if c.PeriodMs <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationPositiveError(path, "period_ms", float64(c.PeriodMs)))
	}
	if c.GoalEndVelocity < 0 || math.IsNaN(c.GoalEndVelocity) {
		errs = multierr.Append(errs, utils.NewOutOfRangeError("goal_end_velocity", c.GoalEndVelocity, 0, math.Inf(1)))
	}
	return multierr.Append(errs, c.Controller.validate(path+".controller"))
}

func (c Controller) validate(path string) error {
	switch c.Type {
	case ControllerHolonomic:
		return multierr.Combine(
			validatePID(path+".holonomic.translation", c.Holonomic.Translation),
			validatePID(path+".holonomic.rotation", c.Holonomic.Rotation),
		)
	case ControllerDifferential:
		var errs error
		if !(c.Ramsete.B > 0) {
			errs = multierr.Append(errs, utils.NewConfigValidationPositiveError(path+".ramsete", "b", c.Ramsete.B))
		}
		if !(c.Ramsete.Zeta > 0 && c.Ramsete.Zeta < 1) {
			errs = multierr.Append(errs, utils.NewOutOfRangeError("zeta", c.Ramsete.Zeta, 0, 1))
		}
		return errs
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return errors.Errorf("%s: unknown controller type %q", path, c.Type)
	}
}

func validatePID(path string, cfg control.PIDConfig) error {
	var errs error
	for _, gain := range []struct {
		name  string
		value float64
	}{{"kp", cfg.Kp}, {"ki", cfg.Ki}, {"kd", cfg.Kd}, {"integral_limit", cfg.IntegralLimit}} {
		if gain.value < 0 || math.IsNaN(gain.value) {
			errs = multierr.Append(errs, errors.Errorf("%s: %q must not be negative, got %v", path, gain.name, gain.value))
		}
	}
	return errs
}

// Follow is the follower configuration.
func (c *Config) Follow() follow.Config {
	return follow.Config{
		Constraints:           c.Constraints.Path(),
		Replanning:            c.Replanning,
		RotationDelayDistance: c.RotationDelayDistance,
	}
}

// Period is the control period.
func (c *Config) Period() time.Duration {
	return time.Duration(c.PeriodMs) * time.Millisecond
}

// NewController builds the configured controller. The config must be valid.
func (c *Config) NewController() control.PathFollowingController {
	if c.Controller.Type == ControllerDifferential {
		return control.NewRamsete(c.Controller.Ramsete, c.Period())
	}
	return control.NewHolonomic(c.Controller.Holonomic, c.Period())
}
