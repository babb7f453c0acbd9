package advanced

import (
	"fmt"
)

const (
	NoVertex   = -1
	NoTriangle = -1
)

// Point is an input location. Info is an opaque payload carried over to the
// vertex created for the point.
type Point struct {
	X, Y float64
	Info interface{}
}

// Segment is a pair of indices into the input point list.
type Segment [2]int

type Vertex struct {
	X, Y float64
	Info interface{}
	// Index of the input point this vertex was created for, or -1 for the
	// three infinite vertices.
	Index    int
	Infinite bool
	// Some triangle incident to this vertex. Seeds star walks.
	Triangle int
}

func (v *Vertex) Point() [2]float64 {
	return [2]float64{v.X, v.Y}
}

func (v *Vertex) String() string {
	if v.Infinite {
		return fmt.Sprintf("∞(%g, %g)", v.X, v.Y)
	}
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Triangle corners are stored counterclockwise. Neighbours[i] and
// Constrained[i] describe the side opposite Vertices[i], that is the edge from
// Vertices[i+1] to Vertices[i+2].
type Triangle struct {
	Vertices    [3]int
	Neighbours  [3]int
	Constrained [3]bool
}

func newTriangle(a, b, c int) Triangle {
	return Triangle{
		Vertices:   [3]int{a, b, c},
		Neighbours: [3]int{NoTriangle, NoTriangle, NoTriangle},
	}
}

// IndexOfVertex returns the corner holding v, or -1.
func (t *Triangle) IndexOfVertex(v int) int {
	for i, w := range t.Vertices {
		if w == v {
			return i
		}
	}
	return -1
}

// IndexOfNeighbour returns the side shared with triangle n, or -1.
func (t *Triangle) IndexOfNeighbour(n int) int {
	for i, w := range t.Neighbours {
		if w == n {
			return i
		}
	}
	return -1
}

func (t *Triangle) isEmpty() bool {
	return t.Vertices[0] == NoVertex && t.Vertices[1] == NoVertex && t.Vertices[2] == NoVertex
}

// Edge is a handle on one side of a triangle. It is not stored in the mesh.
type Edge struct {
	Triangle int
	Side     int
}

func ccw(i int) int { return (i + 1) % 3 }
func cw(i int) int  { return (i + 2) % 3 }

func apex(side int) int { return side }
func orig(side int) int { return ccw(side) }
func dest(side int) int { return cw(side) }

// Triangulation owns the vertex and triangle arenas. All references between
// mesh elements are indices into them.
//
// The first three vertices are the infinite vertices enclosing the input.
// External is the sentinel triangle with two infinite corners and a missing
// third one. It is never flipped or split and every other triangle can be
// reached from it.
type Triangulation struct {
	Vertices  []Vertex
	Triangles []Triangle
	External  int
	Stats     Stats

	// Input point index to vertex slot
	inputVertex []int
}

func (tr *Triangulation) addVertex(v Vertex) int {
	tr.Vertices = append(tr.Vertices, v)
	return len(tr.Vertices) - 1
}

func (tr *Triangulation) addTriangle(t Triangle) int {
	tr.Triangles = append(tr.Triangles, t)
	return len(tr.Triangles) - 1
}

func (tr *Triangulation) Point(v int) [2]float64 {
	return tr.Vertices[v].Point()
}

// IsFinite reports whether triangle t has three corners, none of them
// infinite, and has not been emptied by constraint insertion.
func (tr *Triangulation) IsFinite(t int) bool {
	for _, v := range tr.Triangles[t].Vertices {
		if v == NoVertex || tr.Vertices[v].Infinite {
			return false
		}
	}
	return true
}

// IsEmpty reports whether t was cleared by constraint insertion and is waiting
// for Compact.
func (tr *Triangulation) IsEmpty(t int) bool {
	return tr.Triangles[t].isEmpty()
}

// Segment returns the origin and destination vertices of an edge, in the
// counterclockwise order of its triangle.
func (tr *Triangulation) Segment(e Edge) (int, int) {
	t := &tr.Triangles[e.Triangle]
	return t.Vertices[orig(e.Side)], t.Vertices[dest(e.Side)]
}

func (tr *Triangulation) EdgeConstrained(e Edge) bool {
	return tr.Triangles[e.Triangle].Constrained[e.Side]
}

func (tr *Triangulation) edgeIsFinite(e Edge) bool {
	a, b := tr.Segment(e)
	return a != NoVertex && b != NoVertex && !tr.Vertices[a].Infinite && !tr.Vertices[b].Infinite
}

// Neighbour returns the handle on the same edge from the triangle on the
// other side. The result has Triangle set to NoTriangle on the outer sides of
// the enclosing triangle.
func (tr *Triangulation) Neighbour(e Edge) Edge {
	n := tr.Triangles[e.Triangle].Neighbours[e.Side]
	if n == NoTriangle {
		return Edge{NoTriangle, -1}
	}
	return Edge{n, tr.sideOf(n, e.Triangle)}
}

// sideOf returns the side of t that faces n. A missing back link means the
// mesh is corrupt.
func (tr *Triangulation) sideOf(t, n int) int {
	side := tr.Triangles[t].IndexOfNeighbour(n)
	if side < 0 {
		fatalf("triangle %d is not linked back to neighbour %d", t, n)
	}
	return side
}

func (tr *Triangulation) link(t0, side0, t1, side1 int) {
	tr.Triangles[t0].Neighbours[side0] = t1
	tr.Triangles[t1].Neighbours[side1] = t0
}

// relink makes the neighbour n point at to where it used to point at from.
func (tr *Triangulation) relink(n, from, to int) {
	if n == NoTriangle {
		return
	}
	tr.Triangles[n].Neighbours[tr.sideOf(n, from)] = to
}

// FiniteVertices returns the vertex slots of all real input vertices.
func (tr *Triangulation) FiniteVertices() []int {
	var result []int
	for i := range tr.Vertices {
		if !tr.Vertices[i].Infinite {
			result = append(result, i)
		}
	}
	return result
}

func (tr *Triangulation) NumFiniteVertices() int {
	count := 0
	for i := range tr.Vertices {
		if !tr.Vertices[i].Infinite {
			count++
		}
	}
	return count
}

func (tr *Triangulation) NumFiniteTriangles() int {
	count := 0
	for t := range tr.Triangles {
		if tr.IsFinite(t) {
			count++
		}
	}
	return count
}

// VertexForInput returns the vertex created for input point i. Skipped
// duplicates map to the vertex that was already present. Returns NoVertex for
// indices out of range.
func (tr *Triangulation) VertexForInput(i int) int {
	if i < 0 || i >= len(tr.inputVertex) {
		return NoVertex
	}
	return tr.inputVertex[i]
}

// Compact drops the triangles emptied by constraint insertion and renumbers
// the remaining ones. Any index into Triangles held from before the call is
// invalid afterwards.
func (tr *Triangulation) Compact() int {
	remap := make([]int, len(tr.Triangles))
	kept := 0
	for t := range tr.Triangles {
		if tr.Triangles[t].isEmpty() {
			remap[t] = NoTriangle
			continue
		}
		remap[t] = kept
		kept++
	}
	dropped := len(tr.Triangles) - kept
	if dropped == 0 {
		return 0
	}

	triangles := make([]Triangle, 0, kept)
	for t := range tr.Triangles {
		if remap[t] == NoTriangle {
			continue
		}
		triangle := tr.Triangles[t]
		for i, n := range triangle.Neighbours {
			if n == NoTriangle {
				continue
			}
			if remap[n] == NoTriangle {
				fatalf("triangle %d still links to emptied triangle %d", t, n)
			}
			triangle.Neighbours[i] = remap[n]
		}
		triangles = append(triangles, triangle)
	}
	tr.Triangles = triangles
	if remap[tr.External] == NoTriangle {
		fatalf("external triangle was emptied")
	}
	tr.External = remap[tr.External]

	var stale []int
	for v := range tr.Vertices {
		t := tr.Vertices[v].Triangle
		if t == NoTriangle || remap[t] == NoTriangle {
			stale = append(stale, v)
			tr.Vertices[v].Triangle = NoTriangle
			continue
		}
		tr.Vertices[v].Triangle = remap[t]
	}
	if len(stale) > 0 {
		tr.repointVertices(stale)
	}
	return dropped
}

func (tr *Triangulation) repointVertices(vertices []int) {
	pending := make(map[int]struct{}, len(vertices))
	for _, v := range vertices {
		pending[v] = struct{}{}
	}
	for t := range tr.Triangles {
		for _, v := range tr.Triangles[t].Vertices {
			if _, ok := pending[v]; ok {
				tr.Vertices[v].Triangle = t
				delete(pending, v)
			}
		}
		if len(pending) == 0 {
			return
		}
	}
}
