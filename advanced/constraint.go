package advanced

import (
	"math/rand"

	"github.com/osuushi/cdt/predicates"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ConstraintInserter forces segments between existing vertices into a
// triangulation. The triangles crossed by a segment form a cavity; both halves
// of the cavity are re-triangulated and stitched together along the segment,
// which becomes a constrained edge.
type ConstraintInserter struct {
	tr         *Triangulation
	predicates predicates.Predicates
	rng        *rand.Rand
	log        *zap.Logger
}

func NewConstraintInserter(tr *Triangulation, opts Options) *ConstraintInserter {
	opts = opts.withDefaults()
	return &ConstraintInserter{
		tr:         tr,
		predicates: opts.Predicates,
		rng:        opts.Rand,
		log:        opts.Logger,
	}
}

// Cavity describes the triangles replaced by one constraint.
type Cavity struct {
	// Triangles crossed by the segment, in order from P to Q. They are emptied
	// once the cavity has been re-triangulated.
	Triangles []int
	// Edges bounding the cavity on either side of the segment, clockwise
	// around their half. Each is seen from the triangle outside the cavity.
	Above, Below []Edge
}

// Insert adds each segment, given as vertex slots, in order. A segment that
// cannot be inserted is logged, recorded in the stats and skipped. Emptied
// triangles are compacted away at the end.
func (ci *ConstraintInserter) Insert(segments [][2]int) {
	tr := ci.tr
	for i, segment := range segments {
		_, err := ci.InsertConstraint(segment[0], segment[1])
		if err != nil {
			ci.log.Warn("skipping constraint",
				zap.Int("from", segment[0]),
				zap.Int("to", segment[1]),
				zap.Error(err),
			)
			tr.Stats.SkippedSegments = append(tr.Stats.SkippedSegments, SegmentError{Index: i, Segment: segment, Err: err})
			continue
		}
		tr.Stats.ConstraintsInserted++
	}
	dropped := tr.Compact()
	ci.log.Debug("removed empty triangles", zap.Int("count", dropped), zap.Int("remaining", len(tr.Triangles)))
}

// InsertConstraint forces the edge between vertices p and q into the mesh.
// Errors wrap ErrTopologyViolation and leave the mesh untouched.
func (ci *ConstraintInserter) InsertConstraint(p, q int) (*Cavity, error) {
	tr := ci.tr
	if p == q {
		return nil, errors.Wrap(ErrTopologyViolation, "segment endpoints are the same vertex")
	}
	chain, err := ci.straightWalk(p, q)
	if err != nil {
		return nil, err
	}
	above, below, err := ci.markCavity(p, q, chain)
	if err != nil {
		return nil, err
	}
	cavity := &Cavity{Triangles: chain, Above: above, Below: below}

	inChain := make(map[int]bool, len(chain))
	for _, t := range chain {
		inChain[t] = true
	}
	// Vertices on the rim may point into the cavity, which is about to go. A
	// dangling edge is seen from another chain triangle, so it is no help here;
	// its vertices get new triangles from the re-triangulation.
	for _, edges := range [][]Edge{above, below} {
		for _, e := range edges {
			if inChain[e.Triangle] {
				continue
			}
			a, b := tr.Segment(e)
			tr.Vertices[a].Triangle = e.Triangle
			tr.Vertices[b].Triangle = e.Triangle
		}
	}

	edgeA := newCavityCDT(ci, above).edge
	edgeB := newCavityCDT(ci, below).edge

	tr.link(edgeA.Triangle, edgeA.Side, edgeB.Triangle, edgeB.Side)
	tr.Triangles[edgeA.Triangle].Constrained[edgeA.Side] = true
	tr.Triangles[edgeB.Triangle].Constrained[edgeB.Side] = true

	for _, t := range chain {
		tr.Triangles[t] = Triangle{
			Vertices:   [3]int{NoVertex, NoVertex, NoVertex},
			Neighbours: [3]int{NoTriangle, NoTriangle, NoTriangle},
		}
	}
	tr.Stats.CavityTriangles += len(chain)
	return cavity, nil
}

func (ci *ConstraintInserter) orient(a, b, c int) float64 {
	tr := ci.tr
	return ci.predicates.Orient2d(tr.Point(a), tr.Point(b), tr.Point(c))
}

// triangleOverlapsRay finds the triangle around p that the ray from p towards
// q starts into. When the ray runs along a leg, the triangle with that leg on
// its right is chosen. The result is the edge of that triangle opposite p.
func (ci *ConstraintInserter) triangleOverlapsRay(p, q int) (Edge, error) {
	type candidate struct {
		edge  Edge
		start float64
	}
	var candidates []candidate
	star := NewStarEdgeIterator(ci.tr, p)
	for e, ok := star.Next(); ok; e, ok = star.Next() {
		start, end := ci.tr.Segment(e)
		oStart := ci.orient(start, q, p)
		oEnd := ci.orient(end, q, p)
		if oStart >= 0 && oEnd <= 0 {
			candidates = append(candidates, candidate{e, oStart})
		}
	}

	switch len(candidates) {
	case 0:
		return Edge{}, errors.Wrap(ErrTopologyViolation, "no triangle around the start vertex overlaps the segment")
	case 1:
		return candidates[0].edge, nil
	}
	found := -1
	for i, c := range candidates {
		if c.start == 0 {
			if found >= 0 {
				return Edge{}, errors.Wrap(ErrTopologyViolation, "segment overlaps several triangle legs")
			}
			found = i
		}
	}
	if found < 0 {
		return Edge{}, errors.Wrapf(ErrTopologyViolation, "%d triangles overlap the segment", len(candidates))
	}
	return candidates[found].edge, nil
}

// straightWalk returns the triangles crossed by the segment from p to q, in
// order. Crossing a constrained edge or touching a vertex in the open segment
// is an error.
func (ci *ConstraintInserter) straightWalk(p, q int) ([]int, error) {
	tr := ci.tr
	e, err := ci.triangleOverlapsRay(p, q)
	if err != nil {
		return nil, err
	}
	t, side := e.Triangle, e.Side
	right, left := tr.Segment(e)
	chain := []int{t}
	if tr.Triangles[t].IndexOfVertex(q) >= 0 {
		return chain, nil
	}

	collision := func() error {
		if (left != q && ci.orient(left, p, q) == 0) || (right != q && ci.orient(right, p, q) == 0) {
			return errors.Wrapf(ErrTopologyViolation, "segment runs through vertex %d", ci.collidingVertex(left, right, p, q))
		}
		return nil
	}

	for steps := 0; ci.orient(q, right, left) < 0; steps++ {
		if steps > len(tr.Triangles) {
			fatalf("straight walk from %d to %d did not terminate", p, q)
		}
		if err := collision(); err != nil {
			return nil, err
		}
		if tr.Triangles[t].Constrained[side] {
			a, b := tr.Segment(Edge{t, side})
			return nil, errors.Wrapf(ErrTopologyViolation, "segment crosses constrained edge %d-%d", a, b)
		}
		next := tr.Triangles[t].Neighbours[side]
		if next == NoTriangle || next == tr.External {
			return nil, errors.Wrap(ErrTopologyViolation, "segment leaves the triangulation")
		}
		t = next
		chain = append(chain, t)

		side = tr.Triangles[t].IndexOfVertex(right)
		if side < 0 {
			fatalf("triangle %d does not hold vertex %d it was entered through", t, right)
		}
		s := tr.Triangles[t].Vertices[ccw(side)]
		if ci.orient(s, q, p) < 0 {
			left = s
			side = ccw(side + 1)
		} else {
			right = s
		}
		if err := collision(); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

func (ci *ConstraintInserter) collidingVertex(left, right, p, q int) int {
	if left != q && ci.orient(left, p, q) == 0 {
		return left
	}
	return right
}

// markCavity splits the rim of the cavity into the edges left of the segment
// (above) and right of it (below). Both polylines run clockwise around their
// half of the cavity, and are given from the outside triangles.
func (ci *ConstraintInserter) markCavity(p, q int, chain []int) (above, below []Edge, err error) {
	tr := ci.tr
	if len(chain) == 0 {
		fatalf("empty cavity for segment %d-%d", p, q)
	}
	outside := func(t, side int) Edge {
		n := tr.Triangles[t].Neighbours[side]
		if n == NoTriangle {
			fatalf("cavity triangle %d has no neighbour on side %d", t, side)
		}
		return Edge{n, tr.sideOf(n, t)}
	}

	if len(chain) == 1 {
		// The segment is already an edge of this triangle.
		t := chain[0]
		pIndex := tr.Triangles[t].IndexOfVertex(p)
		lIndex, rIndex := ccw(pIndex), cw(pIndex)
		if tr.Triangles[t].Vertices[lIndex] != q {
			return nil, nil, errors.Wrap(ErrTopologyViolation, "segment end is not where the walk ended")
		}
		below = []Edge{outside(t, rIndex)}
		above = []Edge{outside(t, lIndex), outside(t, pIndex)}
		return above, below, nil
	}

	for _, t := range chain {
		for side := 0; side < 3; side++ {
			r, l := tr.Segment(Edge{t, side})
			left := ci.orient(l, q, p)
			right := ci.orient(r, q, p)
			if left == 0 && right == 0 {
				return nil, nil, errors.Wrap(ErrTopologyViolation, "triangle leg overlaps the segment")
			}
			if left >= 0 && right >= 0 {
				below = append(below, outside(t, side))
			} else if left <= 0 && right <= 0 {
				above = append(above, outside(t, side))
			}
		}
	}
	for i, j := 0, len(below)-1; i < j; i, j = i+1, j-1 {
		below[i], below[j] = below[j], below[i]
	}
	return above, below, nil
}
