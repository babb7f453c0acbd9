package advanced

import (
	"math"

	"go.uber.org/zap"
)

// Find a triangle containing p: pick a nearby seed, then walk towards p.
func (pi *PointInserter) locate(p [2]float64) int {
	return pi.visibilityWalk(pi.seed(p), p)
}

// Choose the walk start among a random sample of triangles and the one found
// by the previous location, by distance from their first corner to p.
func (pi *PointInserter) seed(p [2]float64) int {
	tr := pi.tr
	best := tr.External
	bestDistance := math.Inf(1)
	consider := func(t int) {
		v := tr.Triangles[t].Vertices[0]
		if v == NoVertex {
			return
		}
		dx, dy := tr.Vertices[v].X-p[0], tr.Vertices[v].Y-p[1]
		if d := dx*dx + dy*dy; d < bestDistance {
			best, bestDistance = t, d
		}
	}

	if pi.last != NoTriangle && pi.last < len(tr.Triangles) {
		consider(pi.last)
	}
	samples := int(math.Sqrt(float64(len(tr.Triangles))) / float64(pi.sampleDivisor))
	for i := 0; i < samples; i++ {
		consider(pi.rng.Intn(len(tr.Triangles)))
	}
	return best
}

// Stochastic visibility walk. At each triangle the sides are tested in
// counterclockwise order from a random start, so the walk cannot cycle
// forever through a mesh that is not yet Delaunay. After as many steps as
// there are triangles, the current triangle is returned as is.
func (pi *PointInserter) visibilityWalk(t int, p [2]float64) int {
	tr := pi.tr
	if t == tr.External {
		t = tr.Triangles[t].Neighbours[2]
	}
	previous := NoTriangle
	maxSteps := len(tr.Triangles)
	for step := 0; step < maxSteps; step++ {
		triangle := &tr.Triangles[t]
		start := pi.rng.Intn(3)
		next := NoTriangle
		for k := 0; k < 3; k++ {
			side := (start + k) % 3
			neighbour := triangle.Neighbours[side]
			if neighbour == previous || neighbour == NoTriangle || neighbour == tr.External {
				continue
			}
			if pi.predicates.Orient2d(
				tr.Point(triangle.Vertices[orig(side)]),
				tr.Point(triangle.Vertices[dest(side)]),
				p,
			) < 0 {
				next = neighbour
				break
			}
		}
		if next == NoTriangle {
			tr.Stats.WalkSteps += step
			return t
		}
		previous, t = t, next
	}
	tr.Stats.WalkSteps += maxSteps
	tr.Stats.WalkFallbacks++
	pi.log.Debug("visibility walk gave up",
		zap.Int("steps", maxSteps),
		zap.Float64("x", p[0]),
		zap.Float64("y", p[1]),
	)
	return t
}
