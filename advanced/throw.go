package advanced

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyInput is returned when there are no points to triangulate.
	ErrEmptyInput = errors.New("cannot triangulate an empty point list")
	// ErrInvalidPoint is returned for NaN or infinite coordinates.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrInvalidSegment is returned for a segment referencing a point index
	// that does not exist.
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrDuplicatePoint is returned when a point coincides exactly with a
	// vertex that is already in the triangulation.
	ErrDuplicatePoint = errors.New("duplicate point")
	// ErrTopologyViolation is returned when a constraint would cross another
	// constraint or run through a vertex.
	ErrTopologyViolation = errors.New("topology violation")
	// ErrInternal marks corrupted mesh state. It is never recoverable.
	ErrInternal = errors.New("internal consistency error")
)

// SegmentError records a constraint that could not be inserted. Index is its
// position in the segment list.
type SegmentError struct {
	Index   int
	Segment [2]int
	Err     error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d-%d: %v", e.Segment[0], e.Segment[1], e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// Threading errors through the flip queue, the walks and the cavity
// re-triangulation for states that can only come from a bug would bury the
// algorithms. Those states panic instead, and the public API recovers the
// panic into an error.

type TriangulateError struct {
	error
}

func (e TriangulateError) Unwrap() error { return e.error }

// Panic with a TriangulateError wrapping ErrInternal.
func fatalf(format string, args ...interface{}) {
	panic(TriangulateError{errors.Wrapf(ErrInternal, format, args...)})
}

func HandleTriangulatePanicRecover(r interface{}) error {
	if r != nil {
		if triangulateError, ok := r.(TriangulateError); ok {
			return triangulateError
		}
		panic(r)
	}
	return nil
}
