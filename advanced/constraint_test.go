package advanced

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/osuushi/cdt/predicates"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Delaunay triangulation of points, with no constraints
func delaunay(t *testing.T, points []Point, seed int64) (*Triangulation, *ConstraintInserter) {
	t.Helper()
	opts := testOptions(seed)
	tr := &Triangulation{}
	require.NoError(t, NewPointInserter(tr, opts).Insert(indexed(points), nil))
	return tr, NewConstraintInserter(tr, opts)
}

func hasEdge(tr *Triangulation, a, b int) bool {
	_, ok := finiteEdgeSet(tr, false)[newVertexPair(a, b)]
	return ok
}

func TestInsertExistingEdge(t *testing.T) {
	square := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tr, ci := delaunay(t, square, 1)
	p, q := tr.VertexForInput(0), tr.VertexForInput(1)
	require.True(t, hasEdge(tr, p, q))

	cavity, err := ci.InsertConstraint(p, q)
	require.NoError(t, err)
	assert.Len(t, cavity.Triangles, 1)
	assert.True(t, len(cavity.Below) == 1 || len(cavity.Above) == 1)

	tr.Compact()
	require.NoError(t, tr.CheckConsistency(predicates.Exact{}))
	assert.Equal(t, 2, tr.NumFiniteTriangles())
	edges := tr.ConstrainedEdges()
	require.Len(t, edges, 1)
	a, b := tr.Segment(edges[0])
	assert.Equal(t, newVertexPair(p, q), newVertexPair(a, b))
}

func TestInsertThroughCavity(t *testing.T) {
	// No circle through the first two points avoids the points near the
	// segment between them, so that segment is not a Delaunay edge.
	points := []Point{
		{X: 0, Y: 0}, {X: 10, Y: 0},
		{X: 2, Y: 1}, {X: 4, Y: -1}, {X: 6, Y: 1}, {X: 8, Y: -1},
		{X: 5, Y: 3}, {X: 5, Y: -3},
	}
	tr, ci := delaunay(t, points, 2)
	p, q := tr.VertexForInput(0), tr.VertexForInput(1)
	require.False(t, hasEdge(tr, p, q))
	before := tr.NumFiniteTriangles()

	cavity, err := ci.InsertConstraint(p, q)
	require.NoError(t, err)
	assert.Greater(t, len(cavity.Triangles), 1)
	assert.NotEmpty(t, cavity.Above)
	assert.NotEmpty(t, cavity.Below)
	for _, triangle := range cavity.Triangles {
		assert.True(t, tr.IsEmpty(triangle))
	}

	dropped := tr.Compact()
	assert.Equal(t, len(cavity.Triangles), dropped)
	require.NoError(t, tr.CheckConsistency(predicates.Exact{}))
	assert.True(t, hasEdge(tr, p, q))
	// Retriangulating a cavity does not change the triangle count
	assert.Equal(t, before, tr.NumFiniteTriangles())
	assert.Len(t, tr.ConstrainedEdges(), 1)
}

func TestInsertCrossingConstraint(t *testing.T) {
	square := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tr, ci := delaunay(t, square, 3)
	v := func(i int) int { return tr.VertexForInput(i) }

	ci.Insert([][2]int{{v(0), v(2)}, {v(1), v(3)}})
	require.Len(t, tr.Stats.SkippedSegments, 1)
	skipped := tr.Stats.SkippedSegments[0]
	assert.Equal(t, 1, skipped.Index)
	assert.True(t, errors.Is(&skipped, ErrTopologyViolation), "%v", skipped.Err)
	assert.Contains(t, skipped.Error(), "crosses constrained edge")
	assert.Equal(t, 1, tr.Stats.ConstraintsInserted)

	require.NoError(t, tr.CheckConsistency(predicates.Exact{}))
	assert.True(t, hasEdge(tr, v(0), v(2)))
	assert.False(t, hasEdge(tr, v(1), v(3)))
}

func TestInsertThroughVertex(t *testing.T) {
	points := []Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 5}, {X: 5, Y: -5}}
	tr, ci := delaunay(t, points, 4)

	_, err := ci.InsertConstraint(tr.VertexForInput(0), tr.VertexForInput(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopologyViolation))
	assert.Contains(t, err.Error(), "runs through vertex")
	require.NoError(t, tr.CheckConsistency(predicates.Exact{}))

	// Halves of the same segment are fine
	ci.Insert([][2]int{
		{tr.VertexForInput(0), tr.VertexForInput(1)},
		{tr.VertexForInput(1), tr.VertexForInput(2)},
	})
	assert.Empty(t, tr.Stats.SkippedSegments)
	assert.Len(t, tr.ConstrainedEdges(), 2)
}

func TestInsertSameVertex(t *testing.T) {
	tr, ci := delaunay(t, []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 5)
	_, err := ci.InsertConstraint(tr.VertexForInput(0), tr.VertexForInput(0))
	assert.True(t, errors.Is(err, ErrTopologyViolation))
}

func TestInsertTwice(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0}, {X: 10, Y: 0},
		{X: 2, Y: 1}, {X: 4, Y: -1}, {X: 6, Y: 1}, {X: 8, Y: -1},
	}
	tr, ci := delaunay(t, points, 6)
	p, q := tr.VertexForInput(0), tr.VertexForInput(1)
	ci.Insert([][2]int{{p, q}, {q, p}})
	assert.Empty(t, tr.Stats.SkippedSegments)
	assert.Len(t, tr.ConstrainedEdges(), 1)
	require.NoError(t, tr.CheckConsistency(predicates.Exact{}))
}

func TestRandomConstraints(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	points := randomPoints(rng, 300)
	// Random segments between random points, most of them crossing each
	// other. Whatever survives must be in the mesh.
	var segments []Segment
	for i := 0; i < 40; i++ {
		segments = append(segments, Segment{rng.Intn(len(points)), rng.Intn(len(points))})
	}

	tr, err := Triangulate(points, segments, testOptions(9))
	require.NoError(t, err)
	AssertValidTriangulation(t, tr, points, segments)
	assert.NotEmpty(t, tr.Stats.SkippedSegments)
	assert.Equal(t, len(segments), tr.Stats.ConstraintsInserted+len(tr.Stats.SkippedSegments))
	for _, triangle := range tr.Triangles {
		assert.False(t, triangle.isEmpty())
	}
}

func TestNonCrossingConstraints(t *testing.T) {
	// Spokes from the center of a disc of random points never cross
	rng := rand.New(rand.NewSource(10))
	points := []Point{{X: 50, Y: 50}}
	points = append(points, randomPoints(rng, 200)...)
	var segments []Segment
	for i := 1; i < len(points); i += 7 {
		segments = append(segments, Segment{0, i})
	}

	tr, err := Triangulate(points, segments, testOptions(10))
	require.NoError(t, err)
	AssertValidTriangulation(t, tr, points, segments)
	assert.Empty(t, tr.Stats.SkippedSegments)
	assert.Equal(t, len(segments), tr.Stats.ConstraintsInserted)
}

// Ring of n corners around (50, 50), star shaped about the center, followed by
// m points strictly inside it. Segments close the ring.
func starWithInterior(rng *rand.Rand, n, m int) (orb.Ring, []Point, []Segment) {
	var ring orb.Ring
	var points []Point
	var segments []Segment
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := 30 + 15*rng.Float64()
		p := orb.Point{50 + r*math.Cos(angle), 50 + r*math.Sin(angle)}
		ring = append(ring, p)
		points = append(points, Point{X: p[0], Y: p[1]})
		segments = append(segments, Segment{i, (i + 1) % n})
	}
	// Every ring edge stays further than 30*cos(pi/n) from the center
	for i := 0; i < m; i++ {
		angle := 2 * math.Pi * rng.Float64()
		r := 25 * math.Sqrt(rng.Float64())
		points = append(points, Point{X: 50 + r*math.Cos(angle), Y: 50 + r*math.Sin(angle)})
	}
	return ring, points, segments
}

func constrainedSet(tr *Triangulation, segments []Segment) map[vertexPair]struct{} {
	set := make(map[vertexPair]struct{})
	for _, s := range segments {
		set[newVertexPair(tr.VertexForInput(s[0]), tr.VertexForInput(s[1]))] = struct{}{}
	}
	return set
}

// Cavities around a dense interior often hold vertices whose edges are all
// inside the cavity. Those edges must come back unconstrained.
func TestHangingVertexCavity(t *testing.T) {
	for _, polygonSeed := range []int64{106, 146} {
		ring, points, segments := starWithInterior(rand.New(rand.NewSource(polygonSeed)), 61, 100)
		for seed := int64(0); seed < 50; seed++ {
			t.Run(fmt.Sprintf("%d/%d", polygonSeed, seed), func(t *testing.T) {
				tr, err := Triangulate(points, segments, testOptions(seed))
				require.NoError(t, err)
				require.Empty(t, tr.Stats.SkippedSegments)
				AssertValidTriangulation(t, tr, points, segments)
				assert.Equal(t, constrainedSet(tr, segments), finiteEdgeSet(tr, true))

				var area float64
				it := NewInteriorTriangleIterator(tr)
				for triangle, ok := it.Next(); ok; triangle, ok = it.Next() {
					area += math.Abs(planar.Area(tr.TrianglePolygon(triangle)))
				}
				assert.InDelta(t, math.Abs(planar.Area(ring)), area, 1e-6)
			})
		}
	}
}

func TestInsertConstraintKeepsTopology(t *testing.T) {
	_, points, segments := starWithInterior(rand.New(rand.NewSource(106)), 61, 100)
	for seed := int64(0); seed < 20; seed++ {
		tr, ci := delaunay(t, points, seed)
		for i, s := range segments {
			_, err := ci.InsertConstraint(tr.VertexForInput(s[0]), tr.VertexForInput(s[1]))
			require.NoError(t, err, "seed %d segment %d", seed, i)
			// Emptied triangles are still in place, and nothing may point at them
			require.NoError(t, tr.CheckTopology(), "seed %d segment %d", seed, i)
		}
		// Spokes from the hanging vertices back to the ring start from a fresh
		// star around them
		for v := len(segments); v < len(points); v += 9 {
			_, err := ci.InsertConstraint(tr.VertexForInput(v), tr.VertexForInput(0))
			if err != nil {
				require.True(t, errors.Is(err, ErrTopologyViolation), "seed %d: %v", seed, err)
			}
			require.NoError(t, tr.CheckTopology(), "seed %d vertex %d", seed, v)
		}
		tr.Compact()
		require.NoError(t, tr.CheckConsistency(predicates.Exact{}), "seed %d", seed)
	}
}
