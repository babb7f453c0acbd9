package advanced

import (
	"github.com/osuushi/cdt/predicates"
	"github.com/pkg/errors"
)

// CheckTopology verifies the links of the mesh: neighbours point back,
// constrained flags agree on both sides of an edge, and every vertex points at
// a triangle holding it. The first problem found is returned, wrapping
// ErrInternal.
func (tr *Triangulation) CheckTopology() error {
	for t := range tr.Triangles {
		triangle := &tr.Triangles[t]
		if triangle.isEmpty() {
			continue
		}
		for side, n := range triangle.Neighbours {
			if n == NoTriangle {
				continue
			}
			back := tr.Triangles[n].IndexOfNeighbour(t)
			if back < 0 {
				return errors.Wrapf(ErrInternal, "triangle %d links to %d which does not link back", t, n)
			}
			if tr.Triangles[n].Constrained[back] != triangle.Constrained[side] {
				return errors.Wrapf(ErrInternal, "triangles %d and %d disagree on whether their edge is constrained", t, n)
			}
			a, b := tr.Segment(Edge{t, side})
			c, d := tr.Segment(Edge{n, back})
			if a != d || b != c {
				return errors.Wrapf(ErrInternal, "triangles %d and %d are linked but do not share an edge", t, n)
			}
		}
	}
	for v := range tr.Vertices {
		t := tr.Vertices[v].Triangle
		if t == NoTriangle || t >= len(tr.Triangles) || tr.Triangles[t].IndexOfVertex(v) < 0 {
			return errors.Wrapf(ErrInternal, "vertex %d points at triangle %d which does not hold it", v, t)
		}
	}
	return nil
}

// CheckOrientation verifies every finite triangle is counterclockwise.
func (tr *Triangulation) CheckOrientation(p predicates.Predicates) error {
	for t := range tr.Triangles {
		if !tr.IsFinite(t) {
			continue
		}
		corners := tr.Triangles[t].Vertices
		if p.Orient2d(tr.Point(corners[0]), tr.Point(corners[1]), tr.Point(corners[2])) <= 0 {
			return errors.Wrapf(ErrInternal, "triangle %d is not counterclockwise", t)
		}
	}
	return nil
}

// CheckDelaunay verifies that no unconstrained edge between two finite
// triangles has the opposite corner of one inside the circumcircle of the
// other.
func (tr *Triangulation) CheckDelaunay(p predicates.Predicates) error {
	for t := range tr.Triangles {
		if !tr.IsFinite(t) {
			continue
		}
		triangle := &tr.Triangles[t]
		for side, n := range triangle.Neighbours {
			if n == NoTriangle || n < t || triangle.Constrained[side] || !tr.IsFinite(n) {
				continue
			}
			opposite := tr.Triangles[n].Vertices[tr.sideOf(n, t)]
			corners := triangle.Vertices
			if p.Incircle(tr.Point(corners[0]), tr.Point(corners[1]), tr.Point(corners[2]), tr.Point(opposite)) > 0 {
				return errors.Wrapf(ErrInternal, "edge between triangles %d and %d is not locally Delaunay", t, n)
			}
		}
	}
	return nil
}

// CheckConsistency runs all the checks above.
func (tr *Triangulation) CheckConsistency(p predicates.Predicates) error {
	if err := tr.CheckTopology(); err != nil {
		return err
	}
	if err := tr.CheckOrientation(p); err != nil {
		return err
	}
	return tr.CheckDelaunay(p)
}
