package advanced

import (
	"bufio"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// Semicolon separated dumps with a WKT geometry column, loadable in GIS
// tooling for inspecting a mesh.

func (tr *Triangulation) orbPoint(v int) orb.Point {
	return orb.Point{tr.Vertices[v].X, tr.Vertices[v].Y}
}

// TrianglePolygon returns triangle t as a closed ring.
func (tr *Triangulation) TrianglePolygon(t int) orb.Polygon {
	corners := tr.Triangles[t].Vertices
	ring := orb.Ring{
		tr.orbPoint(corners[0]),
		tr.orbPoint(corners[1]),
		tr.orbPoint(corners[2]),
		tr.orbPoint(corners[0]),
	}
	return orb.Polygon{ring}
}

func (tr *Triangulation) EdgeLineString(e Edge) orb.LineString {
	a, b := tr.Segment(e)
	return orb.LineString{tr.orbPoint(a), tr.orbPoint(b)}
}

// WriteVerticesWKT writes one "id;wkt" line per finite vertex.
func (tr *Triangulation) WriteVerticesWKT(w io.Writer) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "id;wkt")
	for _, v := range tr.FiniteVertices() {
		fmt.Fprintf(out, "%d;%s\n", v, wkt.MarshalString(tr.orbPoint(v)))
	}
	return out.Flush()
}

// WriteTrianglesWKT writes one "id;wkt;n0;n1;n2;v0;v1;v2" line per finite
// triangle.
func (tr *Triangulation) WriteTrianglesWKT(w io.Writer) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "id;wkt;n0;n1;n2;v0;v1;v2")
	for _, t := range tr.FiniteTriangles() {
		triangle := &tr.Triangles[t]
		fmt.Fprintf(out, "%d;%s;%d;%d;%d;%d;%d;%d\n",
			t, wkt.MarshalString(tr.TrianglePolygon(t)),
			triangle.Neighbours[0], triangle.Neighbours[1], triangle.Neighbours[2],
			triangle.Vertices[0], triangle.Vertices[1], triangle.Vertices[2],
		)
	}
	return out.Flush()
}

// WriteEdgesWKT writes one "id;side;wkt" line per finite edge, where id is the
// triangle the edge was taken from.
func (tr *Triangulation) WriteEdgesWKT(w io.Writer, constraintsOnly bool) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "id;side;wkt")
	it := NewFiniteEdgeIterator(tr, constraintsOnly)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		fmt.Fprintf(out, "%d;%d;%s\n", e.Triangle, e.Side, wkt.MarshalString(tr.EdgeLineString(e)))
	}
	return out.Flush()
}
