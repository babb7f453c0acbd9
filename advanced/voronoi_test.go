package advanced

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircumcenter(t *testing.T) {
	assert.Equal(t, [2]float64{5, 5}, Circumcenter([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{0, 10}))
	assert.Equal(t, [2]float64{0, 0}, Circumcenter([2]float64{1, 0}, [2]float64{0, 1}, [2]float64{-1, 0}))

	collinear := Circumcenter([2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 2})
	assert.True(t, math.IsNaN(collinear[0]) || math.IsInf(collinear[0], 0))
}

func TestVoronoiOfSquare(t *testing.T) {
	square := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tr, err := Triangulate(square, nil, testOptions(31))
	require.NoError(t, err)

	v := NewVoronoi(tr)
	require.Len(t, v.Centers, 2)
	for _, center := range v.Centers {
		assert.InDelta(t, 5, center[0], 1e-9)
		assert.InDelta(t, 5, center[1], 1e-9)
	}
	require.Len(t, v.Segments, 1)
	a, b := v.SegmentPoints(0)
	assert.InDelta(t, 0, math.Hypot(a[0]-b[0], a[1]-b[1]), 1e-9)
}

func TestVoronoiCentersAreEquidistant(t *testing.T) {
	tr, err := Triangulate(randomPoints(rand.New(rand.NewSource(32)), 40), nil, testOptions(32))
	require.NoError(t, err)

	v := NewVoronoi(tr)
	assert.Len(t, v.Centers, tr.NumFiniteTriangles())
	for triangle, center := range v.Centers {
		corners := tr.Triangles[triangle].Vertices
		r0 := math.Hypot(tr.Vertices[corners[0]].X-center[0], tr.Vertices[corners[0]].Y-center[1])
		for _, c := range corners[1:] {
			r := math.Hypot(tr.Vertices[c].X-center[0], tr.Vertices[c].Y-center[1])
			assert.InDelta(t, r0, r, 1e-6*r0)
		}
	}
	for _, s := range v.Segments {
		assert.Less(t, s[0], s[1])
		assert.GreaterOrEqual(t, tr.Triangles[s[0]].IndexOfNeighbour(s[1]), 0)
	}
}
