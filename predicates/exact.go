package predicates

import (
	"math"
	"math/big"
)

// Every float64 is a dyadic rational, so evaluating the determinants over
// big.Rat gives the exact sign. This is slow and only meant as a fallback.

const epsilon = 1.0 / (1 << 53)

var (
	ccwErrBoundA = (3 + 16*epsilon) * epsilon
	iccErrBoundA = (10 + 96*epsilon) * epsilon
)

// Exact evaluates both predicates in rational arithmetic. Results are -1, 0
// or +1.
type Exact struct{}

func (Exact) Orient2d(a, b, c [2]float64) float64 { return Orient2dExact(a, b, c) }

func (Exact) Incircle(a, b, c, d [2]float64) float64 { return IncircleExact(a, b, c, d) }

// Adaptive evaluates in float64 first and only falls back to rational
// arithmetic when the float result is within its error bound of zero.
type Adaptive struct{}

func (Adaptive) Orient2d(a, b, c [2]float64) float64 {
	detleft := (a[0] - c[0]) * (b[1] - c[1])
	detright := (a[1] - c[1]) * (b[0] - c[0])
	det := detleft - detright
	errBound := ccwErrBoundA * (math.Abs(detleft) + math.Abs(detright))
	if det > errBound || -det > errBound {
		return det
	}
	return Orient2dExact(a, b, c)
}

func (Adaptive) Incircle(a, b, c, d [2]float64) float64 {
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

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift +
		(math.Abs(cdxady)+math.Abs(adxcdy))*blift +
		(math.Abs(adxbdy)+math.Abs(bdxady))*clift
	errBound := iccErrBoundA * permanent
	if det > errBound || -det > errBound {
		return det
	}
	return IncircleExact(a, b, c, d)
}

func rat(f float64) *big.Rat {
	return new(big.Rat).SetFloat64(f)
}

func sub(x, y float64) *big.Rat {
	return new(big.Rat).Sub(rat(x), rat(y))
}

func mul(x, y *big.Rat) *big.Rat {
	return new(big.Rat).Mul(x, y)
}

// Orient2dExact returns the exact sign of Orient2d. Coordinates must be
// finite.
func Orient2dExact(a, b, c [2]float64) float64 {
	left := mul(sub(a[0], c[0]), sub(b[1], c[1]))
	right := mul(sub(a[1], c[1]), sub(b[0], c[0]))
	return float64(left.Sub(left, right).Sign())
}

// IncircleExact returns the exact sign of Incircle. Coordinates must be
// finite.
func IncircleExact(a, b, c, d [2]float64) float64 {
	adx, ady := sub(a[0], d[0]), sub(a[1], d[1])
	bdx, bdy := sub(b[0], d[0]), sub(b[1], d[1])
	cdx, cdy := sub(c[0], d[0]), sub(c[1], d[1])

	lift := func(x, y *big.Rat) *big.Rat {
		return new(big.Rat).Add(mul(x, x), mul(y, y))
	}
	cross := func(x1, y1, x2, y2 *big.Rat) *big.Rat {
		r := mul(x1, y2)
		return r.Sub(r, mul(x2, y1))
	}

	det := mul(lift(adx, ady), cross(bdx, bdy, cdx, cdy))
	det.Add(det, mul(lift(bdx, bdy), cross(cdx, cdy, adx, ady)))
	det.Add(det, mul(lift(cdx, cdy), cross(adx, ady, bdx, bdy)))
	return float64(det.Sign())
}
