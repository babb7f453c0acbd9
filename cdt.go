// Constrained Delaunay triangulation for Go.
//
// This package builds the Delaunay triangulation of a set of points, then
// forces line segments between those points into it as constrained edges.
// The result is a mesh of triangles with neighbour links, which can be walked
// with the iterators in the advanced package.
package cdt

import (
	"context"
	"math/rand"

	"github.com/osuushi/cdt/advanced"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Point = advanced.Point
type Segment = advanced.Segment
type Vertex = advanced.Vertex
type Triangle = advanced.Triangle
type Edge = advanced.Edge
type Triangulation = advanced.Triangulation
type Options = advanced.Options

func DefaultOptions() Options {
	return advanced.DefaultOptions()
}

// Triangulate points, with the given segments as constraints. Segments refer
// to points by index.
//
// Points must be distinct. A segment that crosses another segment or runs
// through a point is left out; see Stats.SkippedSegments on the result.
func Triangulate(points []Point, segments ...Segment) (*Triangulation, error) {
	return TriangulateWithOptions(points, segments, DefaultOptions())
}

func TriangulateWithOptions(points []Point, segments []Segment, opts Options) (result *Triangulation, err error) {
	defer func() {
		recoveredErr := advanced.HandleTriangulatePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	return advanced.Triangulate(points, segments, opts)
}

// Input is one independent triangulation job.
type Input struct {
	Points   []Point
	Segments []Segment
}

// TriangulateAll triangulates independent inputs concurrently, with at most
// workers running at once (unlimited if workers <= 0). Input i is seeded with
// opts.Seed+i, so results do not depend on scheduling. The first failure
// cancels the jobs that have not started yet.
func TriangulateAll(ctx context.Context, inputs []Input, opts Options, workers int) ([]*Triangulation, error) {
	results := make([]*Triangulation, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			jobOpts := opts
			jobOpts.Rand = rand.New(rand.NewSource(opts.Seed + int64(i)))
			tr, err := TriangulateWithOptions(inputs[i].Points, inputs[i].Segments, jobOpts)
			if err != nil {
				return errors.Wrapf(err, "input %d", i)
			}
			results[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
