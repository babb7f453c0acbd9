package advanced

import (
	"math/rand"
	"time"

	"github.com/osuushi/cdt/predicates"
	"go.uber.org/zap"
)

type Options struct {
	// Source for every random choice made while building. When nil, a source
	// seeded with Seed is created.
	Rand *rand.Rand
	Seed int64

	// Defaults to a no-op logger.
	Logger *zap.Logger

	// Defaults to predicates.Fast.
	Predicates predicates.Predicates

	HCPO HCPOParams

	// Point location samples sqrt(triangles)/SampleDivisor random triangles
	// before walking.
	SampleDivisor int

	// When false, a point that coincides with an existing vertex aborts the
	// build with ErrDuplicatePoint. When true it is logged, counted and mapped
	// onto the existing vertex.
	SkipDuplicates bool
}

func DefaultOptions() Options {
	return Options{
		Seed:          time.Now().UnixNano(),
		Logger:        zap.NewNop(),
		Predicates:    predicates.Fast{},
		HCPO:          DefaultHCPOParams(),
		SampleDivisor: 25,
	}
}

// Fill in anything left at its zero value.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Predicates == nil {
		o.Predicates = predicates.Fast{}
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(o.Seed))
	}
	if o.SampleDivisor <= 0 {
		o.SampleDivisor = 25
	}
	o.HCPO = o.HCPO.withDefaults()
	return o
}

// Stats collects counters from a build.
type Stats struct {
	Flips             int
	WalkSteps         int
	WalkFallbacks     int
	DuplicatesSkipped int

	ConstraintsInserted int
	CavityTriangles     int
	SkippedSegments     []SegmentError

	HCPOTime       time.Duration
	InsertTime     time.Duration
	ConstraintTime time.Duration
}

func (s *Stats) FlipsPerInsert(inserted int) float64 {
	if inserted == 0 {
		return 0
	}
	return float64(s.Flips) / float64(inserted)
}
