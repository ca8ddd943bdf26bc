// Package coords validates and normalizes coordinate-like input.
//
// A coordinate set is a flat row-major []float64 of length 3*n. A stack is
// an ordered sequence of such sets with identical atom counts.
package coords

import (
	"fmt"
	"math"
)

// ShapeError reports input that is not a sequence of xyz triples.
type ShapeError struct {
	Context string
	Len     int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: length %d is not a multiple of 3", e.Context, e.Len)
}

// CountError reports a coordinate set whose atom count does not match the
// expected count of the store.
type CountError struct {
	Context string
	Want    int
	Got     int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%s: coordinate set has %d atoms, expected %d", e.Context, e.Got, e.Want)
}

// ValueError reports non-finite coordinate values.
type ValueError struct {
	Context string
	Row     int
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: non-finite coordinate at atom %d", e.Context, e.Row)
}

// CheckSet validates one coordinate set and returns its atom count.
// If nAtoms is positive, the set must match it exactly.
func CheckSet(cs []float64, context string, nAtoms int) (int, error) {
	if len(cs) == 0 || len(cs)%3 != 0 {
		return 0, &ShapeError{Context: context, Len: len(cs)}
	}
	n := len(cs) / 3
	if nAtoms > 0 && n != nAtoms {
		return 0, &CountError{Context: context, Want: nAtoms, Got: n}
	}
	for i, v := range cs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &ValueError{Context: context, Row: i / 3}
		}
	}
	return n, nil
}

// CheckStack validates a stack of coordinate sets and returns the common
// atom count. The stack must be non-empty and all sets must agree.
func CheckStack(sets [][]float64, context string, nAtoms int) (int, error) {
	if len(sets) == 0 {
		return 0, &ShapeError{Context: context, Len: 0}
	}
	n := nAtoms
	for k, cs := range sets {
		got, err := CheckSet(cs, fmt.Sprintf("%s[%d]", context, k), n)
		if err != nil {
			return 0, err
		}
		n = got
	}
	return n, nil
}
