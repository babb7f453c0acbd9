package advanced

// This contains no actual tests. It holds helpers for building and checking
// triangulations.

import (
	"math/rand"
	"os"
	"testing"

	"github.com/osuushi/cdt/predicates"
	"github.com/stretchr/testify/require"
)

func testOptions(seed int64) Options {
	opts := DefaultOptions()
	opts.Seed = seed
	opts.Predicates = predicates.Adaptive{}
	return opts
}

func randomPoints(rng *rand.Rand, n int) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	return points
}

// A vertex pair, lower slot first
type vertexPair [2]int

func newVertexPair(a, b int) vertexPair {
	if a > b {
		a, b = b, a
	}
	return vertexPair{a, b}
}

func finiteEdgeSet(tr *Triangulation, constraintsOnly bool) map[vertexPair]struct{} {
	set := make(map[vertexPair]struct{})
	it := NewFiniteEdgeIterator(tr, constraintsOnly)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		a, b := tr.Segment(e)
		set[newVertexPair(a, b)] = struct{}{}
	}
	return set
}

// Helper to check that a triangulation is valid. The rules are:
// 1. Links, orientation and the empty circle property hold, checked with
// exact arithmetic.
// 2. Every point of the input has a vertex, and the vertex holds the point.
// 3. Every segment that was not skipped is a constrained edge.
//
// Set CDT_DEBUG_DRAW to print the mesh in the terminal when the check fails.
func AssertValidTriangulation(t *testing.T, tr *Triangulation, points []Point, segments []Segment) {
	t.Helper()
	err := tr.CheckConsistency(predicates.Exact{})
	if err != nil && os.Getenv("CDT_DEBUG_DRAW") != "" {
		tr.dbgDraw(4)
	}
	require.NoError(t, err)

	for i, p := range points {
		v := tr.VertexForInput(i)
		require.NotEqual(t, NoVertex, v, "point %d has no vertex", i)
		require.Equal(t, [2]float64{p.X, p.Y}, tr.Point(v), "vertex for point %d", i)
	}

	skipped := make(map[int]bool)
	for _, s := range tr.Stats.SkippedSegments {
		skipped[s.Index] = true
	}
	constrained := finiteEdgeSet(tr, true)
	for i, s := range segments {
		if skipped[i] {
			continue
		}
		pair := newVertexPair(tr.VertexForInput(s[0]), tr.VertexForInput(s[1]))
		_, ok := constrained[pair]
		require.True(t, ok, "segment %d (%d-%d) is not a constrained edge", i, s[0], s[1])
	}
}
