package extrude

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Kind classifies extrusion failures. All kinds are recoverable: the caller
// is expected to report them to the user.
type Kind int

const (
	// InvalidHeight means the height was zero, negative or not finite.
	InvalidHeight Kind = iota + 1
	// NoClosedRegion means the sketch produced no fillable region.
	NoClosedRegion
	// MalformedHierarchy means a parent-chain cycle was found while nesting
	// contours.
	MalformedHierarchy
)

func (k Kind) String() string {
	switch k {
	case InvalidHeight:
		return "InvalidHeight"
	case NoClosedRegion:
		return "NoClosedRegion"
	case MalformedHierarchy:
		return "MalformedHierarchy"
	default:
		return "Unknown"
	}
}

// Error is a typed extrusion failure.
type Error struct {
	Kind Kind
	Err  error
}

// Sentinel values for errors.Is.
var (
	ErrInvalidHeight      = &Error{Kind: InvalidHeight}
	ErrNoClosedRegion     = &Error{Kind: NoClosedRegion}
	ErrMalformedHierarchy = &Error{Kind: MalformedHierarchy}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return "extrude: " + e.Kind.String()
	}
	return fmt.Sprintf("extrude: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// CheckHeight rejects heights that cannot be extruded.
func CheckHeight(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return &Error{Kind: InvalidHeight, Err: errors.Errorf("height %g must be finite and positive", h)}
	}
	return nil
}
