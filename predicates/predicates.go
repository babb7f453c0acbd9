// Package predicates holds the two geometric tests the triangulation engine is
// built on. They take bare coordinate pairs so that they can be swapped for
// more robust arithmetic without touching the mesh code.
//
// Only the sign of a result is meaningful. The magnitude is whatever falls out
// of the arithmetic used.
package predicates

import (
	"github.com/pkg/errors"
)

// Predicates is the pair of tests used by the engine. Implementations must be
// safe for concurrent use.
type Predicates interface {
	// Orient2d is positive when a, b, c wind counterclockwise, negative when
	// they wind clockwise and zero when they are collinear.
	Orient2d(a, b, c [2]float64) float64

	// Incircle is positive when d lies strictly inside the circle through the
	// counterclockwise triangle a, b, c, zero on it and negative outside.
	Incircle(a, b, c, d [2]float64) float64
}

// Fast evaluates the predicates in plain float64. This is not robust: near
// degenerate input can produce the wrong sign.
type Fast struct{}

func (Fast) Orient2d(a, b, c [2]float64) float64 { return Orient2d(a, b, c) }

func (Fast) Incircle(a, b, c, d [2]float64) float64 { return Incircle(a, b, c, d) }

// ByName resolves a predicate implementation from its configuration name.
func ByName(name string) (Predicates, error) {
	switch name {
	case "", "fast":
		return Fast{}, nil
	case "adaptive":
		return Adaptive{}, nil
	case "exact":
		return Exact{}, nil
	}
	return nil, errors.Errorf("unknown predicates %q", name)
}

// Orient2d returns twice the signed area of the triangle a, b, c.
func Orient2d(a, b, c [2]float64) float64 {
	detleft := (a[0] - c[0]) * (b[1] - c[1])
	detright := (a[1] - c[1]) * (b[0] - c[0])
	return detleft - detright
}

// Incircle returns the lifted determinant telling on which side of the
// circumcircle of a, b, c the point d lies.
func Incircle(a, b, c, d [2]float64) float64 {
	adx := a[0] - d[0]
	bdx := b[0] - d[0]
	cdx := c[0] - d[0]
	ady := a[1] - d[1]
	bdy := b[1] - d[1]
	cdy := c[1] - d[1]

	bdxcdy := bdx * cdy
	cdxbdy := cdx * bdy
	alift := adx*adx + ady*ady

	cdxady := cdx * ady
	adxcdy := adx * cdy
	blift := bdx*bdx + bdy*bdy

	adxbdy := adx * bdy
	bdxady := bdx * ady
	clift := cdx*cdx + cdy*cdy

	return alift*(bdxcdy-cdxbdy) +
		blift*(cdxady-adxcdy) +
		clift*(adxbdy-bdxady)
}
