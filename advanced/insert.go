package advanced

import (
	"math/rand"

	"github.com/osuushi/cdt/predicates"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PointInserter builds a Delaunay triangulation incrementally: each point is
// located, splits its triangle into three, and Lawson flips restore the empty
// circle property around it.
type PointInserter struct {
	tr         *Triangulation
	predicates predicates.Predicates
	rng        *rand.Rand
	log        *zap.Logger

	sampleDivisor  int
	skipDuplicates bool

	// Triangle found by the previous location
	last  int
	queue []Edge
}

func NewPointInserter(tr *Triangulation, opts Options) *PointInserter {
	opts = opts.withDefaults()
	return &PointInserter{
		tr:             tr,
		predicates:     opts.Predicates,
		rng:            opts.Rand,
		log:            opts.Logger,
		sampleDivisor:  opts.SampleDivisor,
		skipDuplicates: opts.SkipDuplicates,
		last:           NoTriangle,
	}
}

// Insert initializes the triangulation around points and appends them in
// order.
func (pi *PointInserter) Insert(points []IndexedPoint, infos []interface{}) error {
	pi.Initialize(points)
	for _, p := range points {
		var info interface{}
		if infos != nil {
			info = infos[p.Index]
		}
		if _, err := pi.Append(p, info); err != nil {
			return err
		}
	}
	return nil
}

// Initialize sets up the three infinite vertices, the enclosing triangle and
// the external sentinel. The enclosing triangle is large enough that the
// infinite vertices never become part of a finite triangle's circumcircle
// test in practice.
func (pi *PointInserter) Initialize(points []IndexedPoint) {
	tr := pi.tr
	var bound orb.Bound
	if len(points) > 0 {
		bound = boundOf(points)
	}
	xmin, ymin := bound.Min[0], bound.Min[1]
	xmax, ymax := bound.Max[0], bound.Max[1]
	size := xmax - xmin
	if height := ymax - ymin; height > size {
		size = height
	}
	if size == 0 {
		size = 1
	}

	tr.Vertices = tr.Vertices[:0]
	tr.Triangles = tr.Triangles[:0]
	corners := [3][2]float64{
		{xmin - 50*size, ymin - 40*size},
		{xmax + 50*size, ymin - 40*size},
		{0.5 * (xmin + xmax), ymax + 60*size},
	}
	for _, c := range corners {
		tr.addVertex(Vertex{X: c[0], Y: c[1], Index: -1, Infinite: true})
	}

	tr.External = tr.addTriangle(newTriangle(1, 0, NoVertex))
	large := tr.addTriangle(newTriangle(0, 1, 2))
	tr.link(large, 2, tr.External, 2)
	for v := 0; v < 3; v++ {
		tr.Vertices[v].Triangle = large
	}
	tr.inputVertex = make([]int, len(points))
	for i := range tr.inputVertex {
		tr.inputVertex[i] = NoVertex
	}
	pi.last = NoTriangle
}

// Append inserts one point. The point must lie inside the box the
// triangulation was initialized with. Returns the vertex slot of the point.
//
// A point on an existing vertex returns ErrDuplicatePoint, or the existing
// vertex when duplicates are skipped.
func (pi *PointInserter) Append(p IndexedPoint, info interface{}) (int, error) {
	tr := pi.tr
	pt := [2]float64{p.X, p.Y}
	t0 := pi.locate(pt)
	pi.last = t0

	for _, corner := range tr.Triangles[t0].Vertices {
		if tr.Vertices[corner].X != p.X || tr.Vertices[corner].Y != p.Y {
			continue
		}
		if !pi.skipDuplicates {
			return NoVertex, errors.Wrapf(ErrDuplicatePoint, "point %d at (%g, %g)", p.Index, p.X, p.Y)
		}
		pi.log.Warn("skipping duplicate point",
			zap.Int("index", p.Index),
			zap.Int("existing", tr.Vertices[corner].Index),
			zap.Float64("x", p.X),
			zap.Float64("y", p.Y),
		)
		tr.Stats.DuplicatesSkipped++
		pi.mapInput(p.Index, corner)
		return corner, nil
	}

	v := tr.addVertex(Vertex{X: p.X, Y: p.Y, Info: info, Index: p.Index})
	pi.mapInput(p.Index, v)
	pi.split(t0, v)
	pi.legalize()
	return v, nil
}

func (pi *PointInserter) mapInput(index, v int) {
	tr := pi.tr
	if index < 0 {
		return
	}
	for index >= len(tr.inputVertex) {
		tr.inputVertex = append(tr.inputVertex, NoVertex)
	}
	tr.inputVertex[index] = v
}

// Split t0 into three around v, reusing t0 for the part against its side 2.
func (pi *PointInserter) split(t0, v int) {
	tr := pi.tr
	old := tr.Triangles[t0]
	a, b, c := old.Vertices[0], old.Vertices[1], old.Vertices[2]

	t1 := tr.addTriangle(newTriangle(b, c, v))
	t2 := tr.addTriangle(newTriangle(c, a, v))

	triangle := &tr.Triangles[t0]
	triangle.Vertices[2] = v
	triangle.Neighbours[0], triangle.Neighbours[1] = NoTriangle, NoTriangle
	triangle.Constrained[0], triangle.Constrained[1] = false, false

	tr.Triangles[t1].Neighbours[2] = old.Neighbours[0]
	tr.Triangles[t1].Constrained[2] = old.Constrained[0]
	tr.relink(old.Neighbours[0], t0, t1)

	tr.Triangles[t2].Neighbours[2] = old.Neighbours[1]
	tr.Triangles[t2].Constrained[2] = old.Constrained[1]
	tr.relink(old.Neighbours[1], t0, t2)

	tr.link(t0, 0, t1, 1)
	tr.link(t1, 0, t2, 1)
	tr.link(t2, 0, t0, 1)

	tr.Vertices[a].Triangle = t0
	tr.Vertices[b].Triangle = t0
	tr.Vertices[v].Triangle = t0
	tr.Vertices[c].Triangle = t1

	pi.queue = append(pi.queue, Edge{t2, 2}, Edge{t1, 2}, Edge{t0, 2})
}

// Flip edges until every edge that was queued is locally Delaunay.
func (pi *PointInserter) legalize() {
	tr := pi.tr
	limit := 16*len(tr.Triangles) + 64
	for pops := 0; len(pi.queue) > 0; pops++ {
		if pops > limit {
			pi.queue = pi.queue[:0]
			fatalf("flip queue did not drain after %d pops", limit)
		}
		e := pi.queue[len(pi.queue)-1]
		pi.queue = pi.queue[:len(pi.queue)-1]

		t0, side0 := e.Triangle, e.Side
		if tr.Triangles[t0].Constrained[side0] {
			continue
		}
		t1 := tr.Triangles[t0].Neighbours[side0]
		if t1 == NoTriangle || t1 == tr.External {
			continue
		}
		side1 := tr.sideOf(t1, t0)

		corners := tr.Triangles[t0].Vertices
		opposite := tr.Triangles[t1].Vertices[side1]
		if pi.predicates.Incircle(
			tr.Point(corners[0]),
			tr.Point(corners[1]),
			tr.Point(corners[2]),
			tr.Point(opposite),
		) > 0 {
			pi.flip(t0, side0, t1, side1)
			pi.queue = append(pi.queue, Edge{t0, 0}, Edge{t0, 2}, Edge{t1, 0}, Edge{t1, 2})
		}
	}
}

// Swap the diagonal of the quadrilateral formed by t0 and t1. Before the flip,
// t0 is (A, B, D) seen from side0 and t1 holds C across BD. After, t0 is
// (A, B, C) and t1 is (C, D, A), sharing AC.
func (pi *PointInserter) flip(t0, side0, t1, side1 int) {
	tr := pi.tr
	pi.tr.Stats.Flips++
	before0, before1 := tr.Triangles[t0], tr.Triangles[t1]

	A := before0.Vertices[apex(side0)]
	B := before0.Vertices[orig(side0)]
	C := before1.Vertices[apex(side1)]
	D := before0.Vertices[dest(side0)]

	AB, constrainedAB := before0.Neighbours[dest(side0)], before0.Constrained[dest(side0)]
	DA, constrainedDA := before0.Neighbours[orig(side0)], before0.Constrained[orig(side0)]
	BC, constrainedBC := before1.Neighbours[orig(side1)], before1.Constrained[orig(side1)]
	CD, constrainedCD := before1.Neighbours[dest(side1)], before1.Constrained[dest(side1)]

	tr.relink(BC, t1, t0)
	tr.relink(DA, t0, t1)

	tr.Triangles[t0] = Triangle{
		Vertices:    [3]int{A, B, C},
		Neighbours:  [3]int{BC, t1, AB},
		Constrained: [3]bool{constrainedBC, false, constrainedAB},
	}
	tr.Triangles[t1] = Triangle{
		Vertices:    [3]int{C, D, A},
		Neighbours:  [3]int{DA, t0, CD},
		Constrained: [3]bool{constrainedDA, false, constrainedCD},
	}

	tr.Vertices[A].Triangle = t0
	tr.Vertices[B].Triangle = t0
	tr.Vertices[C].Triangle = t1
	tr.Vertices[D].Triangle = t1
}
