package path

import (
	"sort"

	"go.viam.com/pathplanner/utils"
)

// HeadingProfile interpolates holonomic headings between the rotation targets of a path.
type HeadingProfile struct {
	targets []RotationTarget
}

// HeadingProfile returns the heading profile of the path. The goal end heading acts as a target
// at fraction 1. If start is non-nil it acts as a target at fraction 0, otherwise headings before
// the first target hold that target's heading.
func (p *Path) HeadingProfile(start *float64) HeadingProfile {
	targets := make([]RotationTarget, 0, len(p.targets)+2)
	if start != nil {
		targets = append(targets, RotationTarget{Position: 0, Heading: utils.WrapAngle(*start)})
	}
	targets = append(targets, p.targets...)
	targets = append(targets, RotationTarget{Position: 1, Heading: p.goal.Heading})
	return HeadingProfile{targets: targets}
}

// At returns the heading at a waypoint-relative fraction, blending along the shortest arc
// between the two targets that bracket it.
func (hp HeadingProfile) At(fraction float64) float64 {
	targets := hp.targets
	idx := sort.Search(len(targets), func(i int) bool { return targets[i].Position > fraction })
	if idx == 0 {
		return targets[0].Heading
	}
	if idx == len(targets) {
		return targets[len(targets)-1].Heading
	}
	before, after := targets[idx-1], targets[idx]
	return utils.LerpAngle(before.Heading, after.Heading, (fraction-before.Position)/(after.Position-before.Position))
}

// HeadingAt is a convenience for HeadingProfile(start).At(fraction).
func (p *Path) HeadingAt(fraction float64, start *float64) float64 {
	return p.HeadingProfile(start).At(fraction)
}
