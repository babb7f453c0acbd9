package advanced

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/cdt/dbg"
)

// Padding around the drawing so hull edges are not on the image border
const dbgDrawPadding = 100

// Draw renders the finite part of the mesh. Regions inside an odd number of
// constraint boundaries are filled, constrained edges are drawn thicker.
func (tr *Triangulation) Draw(scale float64, labels bool) *gg.Context {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range tr.FiniteVertices() {
		minX = math.Min(minX, tr.Vertices[v].X)
		minY = math.Min(minY, tr.Vertices[v].Y)
		maxX = math.Max(maxX, tr.Vertices[v].X)
		maxY = math.Max(maxY, tr.Vertices[v].Y)
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	width := int(scale*(maxX-minX)) + dbgDrawPadding*2
	height := int(scale*(maxY-minY)) + dbgDrawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(dbgDrawPadding, dbgDrawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	regions := NewRegionatedTriangleIterator(tr)
	for r, ok := regions.Next(); ok; r, ok = regions.Next() {
		if !tr.IsFinite(r.Triangle) {
			continue
		}
		tr.traceTriangle(c, r.Triangle)
		if r.Depth%2 == 1 {
			c.SetRGBA(0.3, 0.2, 1, 0.5)
		} else {
			c.SetRGBA(1, 1, 0, 0.15)
		}
		c.Fill()
	}

	edges := NewFiniteEdgeIterator(tr, false)
	for e, ok := edges.Next(); ok; e, ok = edges.Next() {
		a, b := tr.Segment(e)
		c.MoveTo(tr.Vertices[a].X, tr.Vertices[a].Y)
		c.LineTo(tr.Vertices[b].X, tr.Vertices[b].Y)
		if tr.EdgeConstrained(e) {
			c.SetRGB(1, 0.2, 0.2)
			c.SetLineWidth(3)
		} else {
			c.SetRGB(0, 1, 1)
			c.SetLineWidth(1)
		}
		c.Stroke()
	}

	if labels {
		c.SetRGB(1, 1, 1)
		for _, t := range tr.FiniteTriangles() {
			var centerX, centerY float64
			for _, v := range tr.Triangles[t].Vertices {
				centerX += tr.Vertices[v].X / 3
				centerY += tr.Vertices[v].Y / 3
			}
			// Text has to be drawn untransformed
			centerX, centerY = c.TransformPoint(centerX, centerY)
			c.Push()
			c.Identity()
			c.DrawStringAnchored(dbg.Index("triangle", t), centerX, centerY, 0.5, 0.5)
			c.Pop()
		}
	}
	return c
}

func (tr *Triangulation) traceTriangle(c *gg.Context, t int) {
	corners := tr.Triangles[t].Vertices
	c.MoveTo(tr.Vertices[corners[0]].X, tr.Vertices[corners[0]].Y)
	c.LineTo(tr.Vertices[corners[1]].X, tr.Vertices[corners[1]].Y)
	c.LineTo(tr.Vertices[corners[2]].X, tr.Vertices[corners[2]].Y)
	c.ClosePath()
}

// DrawPNG renders the mesh into a PNG file.
func (tr *Triangulation) DrawPNG(path string, scale float64) error {
	return tr.Draw(scale, false).SavePNG(path)
}

// Helper to draw and print the mesh in the terminal (iTerm only) for
// debugging.
func (tr *Triangulation) dbgDraw(scale float64) {
	c := tr.Draw(scale, true)
	c.SavePNG("/tmp/triangulation.png")
	imgcat.CatFile("/tmp/triangulation.png", os.Stdout)
}

// DbgString describes triangle t with readable names for itself and its
// neighbours. Constrained sides are highlighted.
func (tr *Triangulation) DbgString(t int) string {
	triangle := &tr.Triangles[t]
	var corners, sides []string
	for i := 0; i < 3; i++ {
		v := triangle.Vertices[i]
		if v == NoVertex {
			corners = append(corners, "Ø")
		} else {
			corners = append(corners, tr.Vertices[v].String())
		}

		side := dbg.Index("triangle", triangle.Neighbours[i])
		if triangle.Constrained[i] {
			side = aurora.Red(side).Bold().String()
		}
		sides = append(sides, side)
	}
	name := aurora.Cyan(dbg.Index("triangle", t)).String()
	return fmt.Sprintf("%s [%s] -> [%s]", name, strings.Join(corners, " "), strings.Join(sides, " "))
}
