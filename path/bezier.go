package path

import (
	"github.com/golang/geo/r3"
)

// cubic is one Bezier segment of a path.
type cubic struct {
	p0, p1, p2, p3 r3.Vector
}

func (c cubic) eval(t float64) r3.Vector {
	u := 1 - t
	return c.p0.Mul(u * u * u).
		Add(c.p1.Mul(3 * u * u * t)).
		Add(c.p2.Mul(3 * u * t * t)).
		Add(c.p3.Mul(t * t * t))
}

func (c cubic) derivative(t float64) r3.Vector {
	u := 1 - t
	return c.p1.Sub(c.p0).Mul(3 * u * u).
		Add(c.p2.Sub(c.p1).Mul(6 * u * t)).
		Add(c.p3.Sub(c.p2).Mul(3 * t * t))
}

func (c cubic) secondDerivative(t float64) r3.Vector {
	u := 1 - t
	return c.p2.Sub(c.p1.Mul(2)).Add(c.p0).Mul(6 * u).
		Add(c.p3.Sub(c.p2.Mul(2)).Add(c.p1).Mul(6 * t))
}

// curvature returns the signed curvature at t; positive turns left.
func (c cubic) curvature(t float64) float64 {
	d1 := c.derivative(t)
	d2 := c.secondDerivative(t)
	speedSq := d1.X*d1.X + d1.Y*d1.Y
	if speedSq < 1e-18 {
		return 0
	}
	speed := r3.Vector{X: d1.X, Y: d1.Y}.Norm()
	return (d1.X*d2.Y - d1.Y*d2.X) / (speedSq * speed)
}

// polygonLength is the length of the control polygon, an upper bound on the arc length.
func (c cubic) polygonLength() float64 {
	return c.p1.Sub(c.p0).Norm() + c.p2.Sub(c.p1).Norm() + c.p3.Sub(c.p2).Norm()
}
