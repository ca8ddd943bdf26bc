package atomstore

import (
	"errors"
	"fmt"

	"github.com/molkit/atomstore/field"
	"github.com/molkit/atomstore/internal/coords"
	"github.com/molkit/atomstore/serial"
)

var (
	// ErrLocked is returned when coordinate sets are mutated while the group
	// is locked by an associated trajectory.
	ErrLocked = errors.New("coordinate sets are locked by an associated trajectory")
	// ErrIncompatible is returned when merge is given an unusable operand.
	ErrIncompatible = errors.New("incompatible operand")
	// ErrNoResolver is returned when a selection string is used without a
	// configured selection resolver.
	ErrNoResolver = errors.New("no selection resolver configured")
	// ErrNoSpatialBuilder is returned when a spatial index is requested
	// without a configured builder.
	ErrNoSpatialBuilder = errors.New("no spatial index builder configured")
)

// ErrTypeMismatch indicates data of the wrong element kind for a field.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrTypeMismatch struct {
	Label string
	Want  field.Kind
	Got   field.Kind
	cause error
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("field %q: cannot assign %s data, expected %s", e.Label, e.Got, e.Want)
}

func (e *ErrTypeMismatch) Unwrap() error { return e.cause }

// ErrShapeMismatch indicates data of the wrong dimensionality.
type ErrShapeMismatch struct {
	What  string
	Want  int
	Got   int
	cause error
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("%s: expected %d-dimensional data, got %d dimensions", e.What, e.Want, e.Got)
}

func (e *ErrShapeMismatch) Unwrap() error { return e.cause }

// ErrLengthMismatch indicates an array whose length does not match the atom
// count.
type ErrLengthMismatch struct {
	Label string
	Want  int
	Got   int
	cause error
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("%s: length %d does not match number of atoms %d", e.Label, e.Got, e.Want)
}

func (e *ErrLengthMismatch) Unwrap() error { return e.cause }

// ErrIndexOutOfRange indicates an atom, coordinate-set, or bond index
// outside its valid bounds.
type ErrIndexOutOfRange struct {
	What  string
	Index int
	N     int
	cause error
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.N)
}

func (e *ErrIndexOutOfRange) Unwrap() error { return e.cause }

// ErrInvalidLabel indicates a malformed, reserved, or colliding field label.
type ErrInvalidLabel struct {
	Label  string
	Reason string
	cause  error
}

func (e *ErrInvalidLabel) Error() string {
	return fmt.Sprintf("invalid label %q: %s", e.Label, e.Reason)
}

func (e *ErrInvalidLabel) Unwrap() error { return e.cause }

// ErrUniqueness indicates missing, duplicate, or negative atom serial
// numbers.
type ErrUniqueness struct {
	cause error
}

func (e *ErrUniqueness) Error() string {
	return fmt.Sprintf("serial numbers are not a valid unique mapping: %v", e.cause)
}

func (e *ErrUniqueness) Unwrap() error { return e.cause }

// translateSerialError lifts serial package errors into the public taxonomy.
func translateSerialError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, serial.ErrNegative) || errors.Is(err, serial.ErrDuplicate) || errors.Is(err, serial.ErrNotSet) {
		return &ErrUniqueness{cause: err}
	}
	return err
}

// translateCoordsError lifts coordinate validation errors into the public
// taxonomy.
func translateCoordsError(err error) error {
	if err == nil {
		return nil
	}
	var se *coords.ShapeError
	if errors.As(err, &se) {
		return &ErrShapeMismatch{What: se.Context, Want: 2, Got: 1, cause: err}
	}
	var ce *coords.CountError
	if errors.As(err, &ce) {
		return &ErrLengthMismatch{Label: ce.Context, Want: ce.Want, Got: ce.Got, cause: err}
	}
	return err
}

// translateLabelError lifts field label validation errors into the public
// taxonomy.
func translateLabelError(err error) error {
	if err == nil {
		return nil
	}
	var le *field.LabelError
	if errors.As(err, &le) {
		return &ErrInvalidLabel{Label: le.Label, Reason: le.Reason, cause: err}
	}
	return err
}
