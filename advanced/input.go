package advanced

import (
	"github.com/paulmach/orb"
)

// PointsAndSegments collects triangulation input from rings and loose points,
// giving coincident points a single index.
type PointsAndSegments struct {
	Points   []Point
	Segments []Segment

	index map[orb.Point]int
}

func NewPointsAndSegments() *PointsAndSegments {
	return &PointsAndSegments{index: make(map[orb.Point]int)}
}

// AddPoint returns the index of p, adding it if it is new. The info of a point
// that is already present is left alone.
func (ps *PointsAndSegments) AddPoint(p orb.Point, info interface{}) int {
	if i, ok := ps.index[p]; ok {
		return i
	}
	i := len(ps.Points)
	ps.index[p] = i
	ps.Points = append(ps.Points, Point{X: p[0], Y: p[1], Info: info})
	return i
}

// AddSegment adds a constraint between two points, adding the points if
// needed.
func (ps *PointsAndSegments) AddSegment(start, end orb.Point) {
	ps.Segments = append(ps.Segments, Segment{ps.AddPoint(start, nil), ps.AddPoint(end, nil)})
}

// AddRing adds the points of a ring, and a segment between each pair of
// consecutive points. The ring is closed whether or not its last point repeats
// the first.
func (ps *PointsAndSegments) AddRing(ring orb.Ring) {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 2 {
		for _, p := range ring {
			ps.AddPoint(p, nil)
		}
		return
	}
	if len(ring) == 2 {
		ps.AddSegment(ring[0], ring[1])
		return
	}
	for i := range ring {
		ps.AddSegment(ring[i], ring[(i+1)%len(ring)])
	}
}

// AddPolygon adds the outer ring and the holes of a polygon.
func (ps *PointsAndSegments) AddPolygon(polygon orb.Polygon) {
	for _, ring := range polygon {
		ps.AddRing(ring)
	}
}
