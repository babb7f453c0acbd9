package advanced

// Traversals over the triangle graph. Each iterator owns its visited set and
// can be restarted with Reset. None of them may be used while the mesh is
// being mutated.

// TriangleIterator walks depth first from the external triangle.
type TriangleIterator struct {
	tr         *Triangulation
	finiteOnly bool
	visited    []bool
	stack      []int
}

func NewTriangleIterator(tr *Triangulation, finiteOnly bool) *TriangleIterator {
	it := &TriangleIterator{tr: tr, finiteOnly: finiteOnly}
	it.Reset()
	return it
}

// ConvexHullTriangles iterates the finite triangles, which cover the convex
// hull of the input.
func ConvexHullTriangles(tr *Triangulation) *TriangleIterator {
	return NewTriangleIterator(tr, true)
}

func (it *TriangleIterator) Reset() {
	it.visited = make([]bool, len(it.tr.Triangles))
	it.stack = append(it.stack[:0], it.tr.External)
}

func (it *TriangleIterator) Next() (int, bool) {
	for len(it.stack) > 0 {
		t := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if it.visited[t] {
			continue
		}
		it.visited[t] = true
		for _, n := range it.tr.Triangles[t].Neighbours {
			if n != NoTriangle && !it.visited[n] {
				it.stack = append(it.stack, n)
			}
		}
		if it.finiteOnly && !it.tr.IsFinite(t) {
			continue
		}
		return t, true
	}
	return NoTriangle, false
}

// Chan drains the iterator into a channel, for use with range. The channel
// holds every triangle, so the producing goroutine finishes even when the
// consumer stops early. The iterator must not be used until then.
func (it *TriangleIterator) Chan() chan int {
	c := make(chan int, len(it.tr.Triangles))
	go func() {
		for t, ok := it.Next(); ok; t, ok = it.Next() {
			c <- t
		}
		close(c)
	}()
	return c
}

// FiniteEdgeIterator yields each edge between two finite vertices once, from
// the triangle with the lower index.
type FiniteEdgeIterator struct {
	tr              *Triangulation
	constraintsOnly bool
	triangle, side  int
}

func NewFiniteEdgeIterator(tr *Triangulation, constraintsOnly bool) *FiniteEdgeIterator {
	it := &FiniteEdgeIterator{tr: tr, constraintsOnly: constraintsOnly}
	it.Reset()
	return it
}

func (it *FiniteEdgeIterator) Reset() {
	it.triangle, it.side = 0, -1
}

func (it *FiniteEdgeIterator) Next() (Edge, bool) {
	tr := it.tr
	for it.triangle < len(tr.Triangles) {
		it.side++
		if it.side == 3 {
			it.triangle, it.side = it.triangle+1, -1
			continue
		}
		e := Edge{it.triangle, it.side}
		triangle := &tr.Triangles[it.triangle]
		if triangle.isEmpty() || !tr.edgeIsFinite(e) {
			continue
		}
		if n := triangle.Neighbours[it.side]; n != NoTriangle && n < it.triangle {
			continue
		}
		if it.constraintsOnly && !triangle.Constrained[it.side] {
			continue
		}
		return e, true
	}
	return Edge{NoTriangle, -1}, false
}

// InteriorTriangleIterator floods the region enclosed by the constraints,
// without crossing them. The constraints must enclose exactly one connected
// region.
type InteriorTriangleIterator struct {
	tr      *Triangulation
	visited []bool
	stack   []int
}

func NewInteriorTriangleIterator(tr *Triangulation) *InteriorTriangleIterator {
	it := &InteriorTriangleIterator{tr: tr}
	it.Reset()
	return it
}

func (it *InteriorTriangleIterator) Reset() {
	tr := it.tr
	it.visited = make([]bool, len(tr.Triangles))
	it.visited[tr.External] = true
	it.stack = it.stack[:0]

	// Walk the outside until the first constrained edge, then start over on
	// its inner side.
	pending := []int{tr.Triangles[tr.External].Neighbours[2]}
	for len(pending) > 0 {
		t := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if it.visited[t] {
			continue
		}
		it.visited[t] = true
		triangle := &tr.Triangles[t]
		for i, n := range triangle.Neighbours {
			if n == NoTriangle {
				continue
			}
			if triangle.Constrained[i] {
				it.visited = make([]bool, len(tr.Triangles))
				it.visited[tr.External] = true
				it.stack = append(it.stack, n)
				return
			}
			if !it.visited[n] {
				pending = append(pending, n)
			}
		}
	}
}

func (it *InteriorTriangleIterator) Next() (int, bool) {
	for len(it.stack) > 0 {
		t := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if it.visited[t] {
			continue
		}
		it.visited[t] = true
		triangle := &it.tr.Triangles[t]
		for i, n := range triangle.Neighbours {
			if triangle.Constrained[i] || n == NoTriangle || it.visited[n] {
				continue
			}
			it.stack = append(it.stack, n)
		}
		return t, true
	}
	return NoTriangle, false
}

// RegionTriangle is a triangle labelled with the region it lies in. Regions
// are separated by constraints. Depth counts the constraint boundaries crossed
// to reach the region from the outside.
type RegionTriangle struct {
	Region   int
	Depth    int
	Triangle int
}

// RegionatedTriangleIterator visits the region around the input first, at
// depth 0, then each region fenced off by constraints in turn. Region numbers
// increase but are not contiguous.
type RegionatedTriangleIterator struct {
	tr      *Triangulation
	visited []bool
	stack   []RegionTriangle
	later   []RegionTriangle
	region  int
}

func NewRegionatedTriangleIterator(tr *Triangulation) *RegionatedTriangleIterator {
	it := &RegionatedTriangleIterator{tr: tr}
	it.Reset()
	return it
}

func (it *RegionatedTriangleIterator) Reset() {
	tr := it.tr
	it.visited = make([]bool, len(tr.Triangles))
	it.visited[tr.External] = true
	it.region = 0
	it.later = it.later[:0]
	it.stack = append(it.stack[:0], RegionTriangle{0, 0, tr.Triangles[tr.External].Neighbours[2]})
}

func (it *RegionatedTriangleIterator) Next() (RegionTriangle, bool) {
	for len(it.stack) > 0 || len(it.later) > 0 {
		for len(it.stack) > 0 {
			current := it.stack[len(it.stack)-1]
			it.stack = it.stack[:len(it.stack)-1]
			t := current.Triangle
			if it.visited[t] {
				continue
			}
			it.visited[t] = true
			triangle := &it.tr.Triangles[t]
			for i, n := range triangle.Neighbours {
				if n == NoTriangle || it.visited[n] {
					continue
				}
				if triangle.Constrained[i] {
					it.later = append(it.later, RegionTriangle{Depth: current.Depth + 1, Triangle: n})
				} else {
					it.stack = append(it.stack, RegionTriangle{Depth: current.Depth, Triangle: n})
				}
			}
			current.Region = it.region
			return current, true
		}
		if len(it.later) > 0 {
			it.region++
			for len(it.later) > 0 {
				next := it.later[len(it.later)-1]
				it.later = it.later[:len(it.later)-1]
				if !it.visited[next.Triangle] {
					it.stack = append(it.stack, next)
					break
				}
			}
		}
	}
	return RegionTriangle{Triangle: NoTriangle}, false
}

// StarEdgeIterator walks counterclockwise around a vertex. Each edge it yields
// belongs to a triangle incident to the vertex, on the side opposite it. The
// walk ends on the triangle it started from. Only finite vertices have a closed
// star.
type StarEdgeIterator struct {
	tr       *Triangulation
	vertex   int
	start    int
	triangle int
	side     int
	steps    int
	done     bool
}

func NewStarEdgeIterator(tr *Triangulation, v int) *StarEdgeIterator {
	it := &StarEdgeIterator{tr: tr, vertex: v}
	it.Reset()
	return it
}

func (it *StarEdgeIterator) Reset() {
	it.start = it.tr.Vertices[it.vertex].Triangle
	it.triangle = it.start
	it.steps = 0
	it.done = false
	index := it.tr.Triangles[it.start].IndexOfVertex(it.vertex)
	if index < 0 {
		fatalf("vertex %d is not a corner of its triangle %d", it.vertex, it.start)
	}
	it.side = ccw(index)
}

func (it *StarEdgeIterator) Next() (Edge, bool) {
	if it.done {
		return Edge{NoTriangle, -1}, false
	}
	it.steps++
	if it.steps > len(it.tr.Triangles) {
		fatalf("star of vertex %d does not close", it.vertex)
	}
	it.triangle = it.tr.Triangles[it.triangle].Neighbours[it.side]
	if it.triangle == NoTriangle {
		fatalf("star of vertex %d is open", it.vertex)
	}
	side := it.tr.Triangles[it.triangle].IndexOfVertex(it.vertex)
	if side < 0 {
		fatalf("triangle %d in the star of vertex %d does not hold it", it.triangle, it.vertex)
	}
	it.side = ccw(side)
	if it.triangle == it.start {
		it.done = true
	}
	return Edge{it.triangle, side}, true
}

// FiniteTriangles collects the finite triangles.
func (tr *Triangulation) FiniteTriangles() []int {
	var result []int
	it := NewTriangleIterator(tr, true)
	for t, ok := it.Next(); ok; t, ok = it.Next() {
		result = append(result, t)
	}
	return result
}

// ConstrainedEdges collects each constrained finite edge once.
func (tr *Triangulation) ConstrainedEdges() []Edge {
	var result []Edge
	it := NewFiniteEdgeIterator(tr, true)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		result = append(result, e)
	}
	return result
}
