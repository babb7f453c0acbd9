package advanced

import (
	"math"
	"math/rand"
	"sort"

	"github.com/paulmach/orb"
)

// Hierarchical column-prime ordering of the input, from Zhou and Jones, "HCPO:
// an efficient insertion order for incremental Delaunay triangulation". Fully
// random insertion order makes point location expensive, fully sorted order
// makes Lawson flipping expensive. HCPO sits in between: each level is a
// random sample of what remains, laid out along a boustrophedon curve.

type HCPOParams struct {
	// Fraction of the remaining points kept for the next, coarser level.
	SampleRatio float64
	// Once a level would have fewer than MinSize/SampleRatio points, it is
	// ordered as is and the recursion stops.
	MinSize int
	// Scales the number of columns of each level.
	ColumnFactor float64
}

func DefaultHCPOParams() HCPOParams {
	return HCPOParams{
		SampleRatio:  0.75,
		MinSize:      10,
		ColumnFactor: 0.5,
	}
}

func (p HCPOParams) withDefaults() HCPOParams {
	defaults := DefaultHCPOParams()
	if p.SampleRatio <= 0 || p.SampleRatio >= 1 {
		p.SampleRatio = defaults.SampleRatio
	}
	if p.MinSize <= 0 {
		p.MinSize = defaults.MinSize
	}
	if p.ColumnFactor <= 0 {
		p.ColumnFactor = defaults.ColumnFactor
	}
	return p
}

// IndexedPoint is a point tagged with its position in the caller's input, so
// that segments and payloads can be translated after reordering.
type IndexedPoint struct {
	X, Y  float64
	Index int
}

func (p IndexedPoint) coord(axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

func boundOf(points []IndexedPoint) orb.Bound {
	multi := make(orb.MultiPoint, len(points))
	for i, p := range points {
		multi[i] = orb.Point{p.X, p.Y}
	}
	return multi.Bound()
}

// HCPO returns a reordering of points. The coarsest level comes first, so the
// small random sample is inserted before the dense tails, as in BRIO. This is
// the reverse of emitting each tail before recursing into the sample, which
// would put the finest level first.
func HCPO(points []IndexedPoint, params HCPOParams, rng *rand.Rand) []IndexedPoint {
	params = params.withDefaults()
	remaining := make([]IndexedPoint, len(points))
	copy(remaining, points)

	threshold := int(math.Ceil(float64(params.MinSize) / params.SampleRatio))
	var levels [][]IndexedPoint
	for len(remaining) > 0 {
		rng.Shuffle(len(remaining), func(i, j int) {
			remaining[i], remaining[j] = remaining[j], remaining[i]
		})
		up := int(math.Ceil(float64(len(remaining)) * params.SampleRatio))
		head, tail := remaining[:up], remaining[up:]
		if len(tail) > 0 {
			levels = append(levels, ColumnPrimeOrder(tail, params.ColumnFactor))
		}
		if len(head) >= threshold && len(head) < len(remaining) {
			remaining = head
			continue
		}
		levels = append(levels, ColumnPrimeOrder(head, params.ColumnFactor))
		break
	}

	result := make([]IndexedPoint, 0, len(points))
	for i := len(levels) - 1; i >= 0; i-- {
		result = append(result, levels[i]...)
	}
	return result
}

// ColumnPrimeOrder sorts points into columns along the longer side of their
// bounding box, and walks the columns alternately up and down. c scales the
// number of columns.
func ColumnPrimeOrder(points []IndexedPoint, c float64) []IndexedPoint {
	n := len(points)
	result := make([]IndexedPoint, n)
	copy(result, points)
	if n == 0 {
		return result
	}

	bound := boundOf(result)
	width, height := bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1]
	axis := 0
	long, short := width, height
	if width < height {
		axis = 1
		long, short = height, width
	}
	if short == 0 {
		short = 1
	}
	other := 1 - axis

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].coord(axis) < result[j].coord(axis)
	})

	columns := n
	if estimate := math.Ceil(c * math.Ceil(math.Sqrt(float64(n)*long/short))); estimate >= 1 && estimate < float64(n) {
		columns = int(estimate)
	}
	perColumn := (n + columns - 1) / columns
	for i := 0; i < columns; i++ {
		from, to := i*perColumn, (i+1)*perColumn
		if from >= n {
			break
		}
		if to > n {
			to = n
		}
		column := result[from:to]
		reverse := (i+1)%2 == 0
		sort.SliceStable(column, func(a, b int) bool {
			if reverse {
				return column[a].coord(other) > column[b].coord(other)
			}
			return column[a].coord(other) < column[b].coord(other)
		})
	}
	return result
}
