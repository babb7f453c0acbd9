package advanced

import (
	"sort"
)

// cavityCDT re-triangulates one half of a constraint cavity: the polygon made
// of a polyline of rim edges closed by the new segment. This is the randomized
// algorithm of Shewchuk and Brown, "Fast segment insertion and incremental
// construction of constrained Delaunay triangulations".
//
// Polygon corners are numbered locally, counterclockwise, with the two segment
// endpoints at 0 and m-1.
type cavityCDT struct {
	ci *ConstraintInserter

	// Found on the segment side of the new triangles. The other half links to
	// it.
	edge    Edge
	hasEdge bool

	vertices []int
	// Constrained flag of each rim edge before the cavity was opened, in both
	// directions, by vertex slot. Dangling edges inside the cavity keep theirs.
	rimConstrained map[[2]int]bool
	// Rim edges as seen from outside the cavity, by vertex slot
	surroundings map[[2]int]Edge

	next, prev []int
	distance   []float64
	order      []int

	// Third corner of the triangle left of a directed local edge
	adjacency map[[2]int]int
	triangles map[[3]int]struct{}
}

func newCavityCDT(ci *ConstraintInserter, rim []Edge) *cavityCDT {
	cavity := &cavityCDT{ci: ci}
	if len(rim) == 0 {
		fatalf("cavity has no rim")
	}
	if len(rim) == 1 {
		// The rim edge lies on the segment already. It is linked to the other
		// half directly.
		cavity.edge, cavity.hasEdge = rim[0], true
		return cavity
	}
	cavity.preprocess(rim)
	cavity.retriangulate()
	cavity.pushBack()
	return cavity
}

func sortedTriple(a, b, c int) [3]int {
	t := [3]int{a, b, c}
	sort.Ints(t[:])
	return t
}

func (cc *cavityCDT) orient(a, b, c int) float64 {
	return cc.ci.orient(cc.vertices[a], cc.vertices[b], cc.vertices[c])
}

func (cc *cavityCDT) incircle(a, b, c, d int) float64 {
	tr := cc.ci.tr
	return cc.ci.predicates.Incircle(
		tr.Point(cc.vertices[a]),
		tr.Point(cc.vertices[b]),
		tr.Point(cc.vertices[c]),
		tr.Point(cc.vertices[d]),
	)
}

func (cc *cavityCDT) preprocess(rim []Edge) {
	tr := cc.ci.tr
	cc.rimConstrained = make(map[[2]int]bool, 2*len(rim))
	cc.surroundings = make(map[[2]int]Edge, len(rim))
	for i, e := range rim {
		a, b := tr.Segment(e)
		constrained := tr.Triangles[e.Triangle].Constrained[e.Side]
		cc.rimConstrained[[2]int{a, b}] = constrained
		cc.rimConstrained[[2]int{b, a}] = constrained
		cc.surroundings[[2]int{a, b}] = e
		if i == 0 {
			cc.vertices = append(cc.vertices, a)
		}
		cc.vertices = append(cc.vertices, b)
	}
	// The rim runs clockwise, the algorithm wants the polygon counterclockwise
	for i, j := 0, len(cc.vertices)-1; i < j; i, j = i+1, j-1 {
		cc.vertices[i], cc.vertices[j] = cc.vertices[j], cc.vertices[i]
	}

	m := len(cc.vertices)
	cc.next = make([]int, m)
	cc.prev = make([]int, m)
	cc.distance = make([]float64, m)
	for i := 0; i < m; i++ {
		cc.next[i] = (i + 1) % m
		cc.prev[i] = (i + m - 1) % m
		cc.distance[i] = cc.orient(0, i, m-1)
	}

	cc.order = make([]int, 0, m-2)
	for i := 1; i < m-1; i++ {
		cc.order = append(cc.order, i)
	}
	cc.ci.rng.Shuffle(len(cc.order), func(i, j int) {
		cc.order[i], cc.order[j] = cc.order[j], cc.order[i]
	})

	cc.adjacency = make(map[[2]int]int)
	cc.triangles = make(map[[3]int]struct{})
}

func (cc *cavityCDT) isLocalMinimum(v int) bool {
	return cc.distance[v] < cc.distance[cc.prev[v]] && cc.distance[v] < cc.distance[cc.next[v]]
}

func (cc *cavityCDT) retriangulate() {
	m := len(cc.vertices)
	order := cc.order

	// Peel corners off the polygon in reverse order. A corner closer to the
	// segment than both its neighbours may not go yet, so it is swapped with a
	// random earlier one.
	for i := len(order) - 1; i > 0; i-- {
		for attempt := 0; cc.isLocalMinimum(order[i]); attempt++ {
			if attempt < 8*(i+1) {
				j := cc.ci.rng.Intn(i + 1)
				order[i], order[j] = order[j], order[i]
				continue
			}
			j := 0
			for ; j <= i && cc.isLocalMinimum(order[j]); j++ {
			}
			if j > i {
				fatalf("every remaining cavity corner is a local minimum")
			}
			order[i], order[j] = order[j], order[i]
		}
		v := order[i]
		cc.next[cc.prev[v]] = cc.next[v]
		cc.prev[cc.next[v]] = cc.prev[v]
	}

	cc.addTriangle(0, order[0], m-1)
	// Put them back in forward order
	for _, a := range order[1:] {
		cc.insertVertex(a, cc.next[a], cc.prev[a])
	}
}

// Insert corner u opposite the edge from v to w, removing the triangles
// across that edge which it makes non-Delaunay.
func (cc *cavityCDT) insertVertex(u, v, w int) {
	type job struct{ u, v, w int }
	stack := []job{{u, v, w}}
	m := len(cc.vertices)
	limit := 4*m*m + 16
	for steps := 0; len(stack) > 0; steps++ {
		if steps > limit {
			fatalf("cavity re-triangulation did not settle after %d steps", limit)
		}
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, ok := cc.adjacency[[2]int{j.w, j.v}]
		if ok && (cc.orient(j.u, j.v, j.w) <= 0 || cc.incircle(j.u, j.v, j.w, x) > 0) {
			cc.removeTriangle(j.w, j.v, x)
			stack = append(stack, job{j.u, x, j.w}, job{j.u, j.v, x})
			continue
		}
		cc.addTriangle(j.u, j.v, j.w)
	}
}

func (cc *cavityCDT) addTriangle(a, b, c int) {
	cc.adjacency[[2]int{a, b}] = c
	cc.adjacency[[2]int{b, c}] = a
	cc.adjacency[[2]int{c, a}] = b
	cc.triangles[sortedTriple(a, b, c)] = struct{}{}
}

func (cc *cavityCDT) removeTriangle(a, b, c int) {
	delete(cc.triangles, sortedTriple(a, b, c))
	delete(cc.adjacency, [2]int{a, b})
	delete(cc.adjacency, [2]int{b, c})
	delete(cc.adjacency, [2]int{c, a})
}

// Turn the local triangles into mesh triangles, linked to each other, to the
// triangles around the cavity, and with the segment edge left open.
func (cc *cavityCDT) pushBack() {
	tr := cc.ci.tr

	local := make([][3]int, 0, len(cc.triangles))
	for t := range cc.triangles {
		local = append(local, t)
	}
	sort.Slice(local, func(i, j int) bool {
		a, b := local[i], local[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	created := make(map[[3]int]int, len(local))
	var order []int
	for _, l := range local {
		a, b, c := cc.vertices[l[0]], cc.vertices[l[1]], cc.vertices[l[2]]
		if cc.ci.orient(a, b, c) <= 0 {
			fatalf("cavity triangle %d %d %d is not counterclockwise", a, b, c)
		}
		t := tr.addTriangle(newTriangle(a, b, c))
		created[sortedTriple(a, b, c)] = t
		tr.Vertices[a].Triangle = t
		tr.Vertices[b].Triangle = t
		tr.Vertices[c].Triangle = t
		order = append(order, t)
	}

	adjacency := make(map[[2]int]int, len(cc.adjacency))
	for edge, third := range cc.adjacency {
		adjacency[[2]int{cc.vertices[edge[0]], cc.vertices[edge[1]]}] = cc.vertices[third]
	}

	for _, t := range order {
		for side := 0; side < 3; side++ {
			a, b := tr.Segment(Edge{t, side})
			key := [2]int{b, a}
			neighbour := NoTriangle
			constrained := false
			if third, ok := adjacency[key]; ok {
				// Both sides are new. Only a dangling edge, which was a rim edge
				// on both sides, can have been constrained before.
				n, ok := created[sortedTriple(key[0], key[1], third)]
				if !ok {
					fatalf("cavity triangle across %d-%d was not created", a, b)
				}
				neighbour = n
				constrained = cc.rimConstrained[key]
			} else if outside, ok := cc.surroundings[key]; ok {
				neighbour = outside.Triangle
				tr.Triangles[outside.Triangle].Neighbours[outside.Side] = t
				constrained = tr.Triangles[outside.Triangle].Constrained[outside.Side]
			} else {
				if cc.hasEdge {
					fatalf("cavity has more than one open edge")
				}
				cc.edge, cc.hasEdge = Edge{t, side}, true
			}
			tr.Triangles[t].Neighbours[side] = neighbour
			tr.Triangles[t].Constrained[side] = constrained
		}
	}
	if !cc.hasEdge {
		fatalf("cavity has no edge along the segment")
	}
}
