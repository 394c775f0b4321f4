package path

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Constraints bound the motion of the robot along a path. Linear units are whatever the path is
// authored in; angular values are radians.
type Constraints struct {
	MaxVelocity            float64
	MaxAcceleration        float64
	MaxAngularVelocity     float64
	MaxAngularAcceleration float64
}

// Validate ensures every bound is strictly positive.
func (c Constraints) Validate() error {
	var errs error
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"max velocity", c.MaxVelocity},
		{"max acceleration", c.MaxAcceleration},
		{"max angular velocity", c.MaxAngularVelocity},
		{"max angular acceleration", c.MaxAngularAcceleration},
	} {
		if !(field.value > 0) || math.IsInf(field.value, 1) {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidConstraints, "%s must be positive and finite, got %v", field.name, field.value))
		}
	}
	return errs
}

// Tighten returns the component-wise minimum of c and o.
func (c Constraints) Tighten(o Constraints) Constraints {
	return Constraints{
		MaxVelocity:            math.Min(c.MaxVelocity, o.MaxVelocity),
		MaxAcceleration:        math.Min(c.MaxAcceleration, o.MaxAcceleration),
		MaxAngularVelocity:     math.Min(c.MaxAngularVelocity, o.MaxAngularVelocity),
		MaxAngularAcceleration: math.Min(c.MaxAngularAcceleration, o.MaxAngularAcceleration),
	}
}

// ConstraintsZone tightens the constraints over the section of a path between Start and End.
// Both are waypoint-relative fractions in [0, 1].
type ConstraintsZone struct {
	Start       float64
	End         float64
	Constraints Constraints
}

// Contains reports whether the fraction lies within the zone, inclusive of both ends.
func (z ConstraintsZone) Contains(fraction float64) bool {
	return fraction >= z.Start && fraction <= z.End
}

func (z ConstraintsZone) validate() error {
	var errs error
	if z.Start < 0 || z.End > 1 || z.Start > z.End || math.IsNaN(z.Start) || math.IsNaN(z.End) {
		errs = multierr.Append(errs, errors.Wrapf(ErrInvalidZone, "range [%v, %v] must satisfy 0 <= start <= end <= 1", z.Start, z.End))
	}
	if err := z.Constraints.Validate(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(ErrInvalidZone, err.Error()))
	}
	return errs
}

// EffectiveConstraints resolves the constraints in force at a waypoint-relative fraction along the
// path with the given signed curvature. The global constraints are intersected with every zone
// containing the fraction, then the velocity is further bounded by the centripetal limit
// sqrt(maxAcceleration / |curvature|). Zero curvature adds no bound.
func (p *Path) EffectiveConstraints(fraction, curvature float64) Constraints {
	c := p.constraints
	for _, zone := range p.zones {
		if zone.Contains(fraction) {
			c = c.Tighten(zone.Constraints)
		}
	}
	if k := math.Abs(curvature); k > 0 {
		c.MaxVelocity = math.Min(c.MaxVelocity, math.Sqrt(c.MaxAcceleration/k))
	}
	return c
}
