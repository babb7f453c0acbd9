package advanced

// Voronoi is the dual of a triangulation: one center per finite triangle and a
// segment between the centers of every two adjacent finite triangles.
type Voronoi struct {
	// Circumcenter by triangle index. Only finite triangles have an entry.
	Centers map[int][2]float64
	// Pairs of triangle indices, lower index first
	Segments [][2]int
}

func NewVoronoi(tr *Triangulation) *Voronoi {
	v := &Voronoi{Centers: make(map[int][2]float64)}
	for t := range tr.Triangles {
		if !tr.IsFinite(t) {
			continue
		}
		corners := tr.Triangles[t].Vertices
		v.Centers[t] = Circumcenter(tr.Point(corners[0]), tr.Point(corners[1]), tr.Point(corners[2]))
	}
	for t := range tr.Triangles {
		if _, ok := v.Centers[t]; !ok {
			continue
		}
		for _, n := range tr.Triangles[t].Neighbours {
			if _, ok := v.Centers[n]; ok && t < n {
				v.Segments = append(v.Segments, [2]int{t, n})
			}
		}
	}
	return v
}

// SegmentPoints returns the end points of dual segment i.
func (v *Voronoi) SegmentPoints(i int) ([2]float64, [2]float64) {
	s := v.Segments[i]
	return v.Centers[s[0]], v.Centers[s[1]]
}

// Circumcenter of the triangle a, b, c. Collinear corners give infinite or NaN
// coordinates.
func Circumcenter(a, b, c [2]float64) [2]float64 {
	a2 := a[0]*a[0] + a[1]*a[1]
	b2 := b[0]*b[0] + b[1]*b[1]
	c2 := c[0]*c[0] + c[1]*c[1]
	ux := a2*(b[1]-c[1]) + b2*(c[1]-a[1]) + c2*(a[1]-b[1])
	uy := a2*(c[0]-b[0]) + b2*(a[0]-c[0]) + c2*(b[0]-a[0])
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	return [2]float64{ux / d, uy / d}
}
