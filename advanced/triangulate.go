package advanced

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Triangulate builds the Delaunay triangulation of points and forces segments
// into it. Segments refer to points by their index in points.
//
// Segments that cross each other or run through a vertex are skipped; they are
// listed in Stats.SkippedSegments with their original indices.
func Triangulate(points []Point, segments []Segment, opts Options) (result *Triangulation, err error) {
	defer func() {
		recoveredErr := HandleTriangulatePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	opts = opts.withDefaults()
	log := opts.Logger

	if err := validate(points, segments); err != nil {
		return nil, err
	}

	start := time.Now()
	indexed := make([]IndexedPoint, len(points))
	infos := make([]interface{}, len(points))
	for i, p := range points {
		indexed[i] = IndexedPoint{X: p.X, Y: p.Y, Index: i}
		infos[i] = p.Info
	}
	ordered := HCPO(indexed, opts.HCPO, opts.Rand)
	tr := &Triangulation{}
	tr.Stats.HCPOTime = time.Since(start)
	log.Debug("ordered points", zap.Int("points", len(ordered)), zap.Duration("elapsed", tr.Stats.HCPOTime))

	start = time.Now()
	inserter := NewPointInserter(tr, opts)
	if err := inserter.Insert(ordered, infos); err != nil {
		return nil, err
	}
	tr.Stats.InsertTime = time.Since(start)
	log.Debug("inserted points",
		zap.Int("vertices", tr.NumFiniteVertices()),
		zap.Int("triangles", len(tr.Triangles)),
		zap.Int("flips", tr.Stats.Flips),
		zap.Float64("flipsPerInsert", tr.Stats.FlipsPerInsert(tr.NumFiniteVertices())),
		zap.Int("walkFallbacks", tr.Stats.WalkFallbacks),
		zap.Duration("elapsed", tr.Stats.InsertTime),
	)

	if len(segments) == 0 {
		return tr, nil
	}

	start = time.Now()
	translated := make([][2]int, len(segments))
	for i, s := range segments {
		translated[i] = [2]int{tr.VertexForInput(s[0]), tr.VertexForInput(s[1])}
	}
	NewConstraintInserter(tr, opts).Insert(translated)
	for i := range tr.Stats.SkippedSegments {
		skipped := &tr.Stats.SkippedSegments[i]
		skipped.Segment = segments[skipped.Index]
	}
	tr.Stats.ConstraintTime = time.Since(start)
	log.Debug("inserted constraints",
		zap.Int("segments", len(segments)),
		zap.Int("skipped", len(tr.Stats.SkippedSegments)),
		zap.Int("constrainedEdges", len(tr.ConstrainedEdges())),
		zap.Int("triangles", len(tr.Triangles)),
		zap.Duration("elapsed", tr.Stats.ConstraintTime),
	)
	return tr, nil
}

func validate(points []Point, segments []Segment) error {
	if len(points) == 0 {
		return ErrEmptyInput
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return errors.Wrapf(ErrInvalidPoint, "point %d is (%g, %g)", i, p.X, p.Y)
		}
	}
	for i, s := range segments {
		for _, end := range s {
			if end < 0 || end >= len(points) {
				return errors.Wrapf(ErrInvalidSegment, "segment %d refers to point %d of %d", i, end, len(points))
			}
		}
	}
	return nil
}
