// Package serial provides the lazily built reverse lookup from external atom
// serial numbers to internal dense indices.
package serial

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSet is returned when the serial-number field is empty.
	ErrNotSet = errors.New("atom serial numbers are not set")
	// ErrNegative is returned when a serial number is negative.
	ErrNegative = errors.New("atom serial numbers must be non-negative")
	// ErrDuplicate is returned when serial numbers are not unique.
	ErrDuplicate = errors.New("atom serial numbers must be unique")
)

// Index is a dense reverse lookup sized max(serial)+1 with -1 marking
// serial numbers that name no atom.
type Index struct {
	sn2i []int
}

// Build constructs the reverse lookup from the current serial-number column.
// Serial numbers must be non-negative and unique.
func Build(serials []int64) (*Index, error) {
	if len(serials) == 0 {
		return nil, ErrNotSet
	}

	maxSerial := int64(-1)
	for _, sn := range serials {
		if sn < 0 {
			return nil, fmt.Errorf("%w: found %d", ErrNegative, sn)
		}
		if sn > maxSerial {
			maxSerial = sn
		}
	}

	sn2i := make([]int, maxSerial+1)
	for i := range sn2i {
		sn2i[i] = -1
	}
	for i, sn := range serials {
		if sn2i[sn] != -1 {
			return nil, fmt.Errorf("%w: serial %d assigned twice", ErrDuplicate, sn)
		}
		sn2i[sn] = i
	}
	return &Index{sn2i: sn2i}, nil
}

// Lookup returns the dense index of the atom with the given serial number.
func (x *Index) Lookup(sn int64) (int, bool) {
	if sn < 0 || sn >= int64(len(x.sn2i)) {
		return 0, false
	}
	i := x.sn2i[sn]
	return i, i != -1
}

// Range returns the dense indices of the atoms whose serial numbers fall in
// [start, stop) stepped by step, in ascending serial order. Serial numbers
// that name no atom are skipped. Bounds and step are the caller's contract.
func (x *Index) Range(start, stop, step int64) []int {
	var out []int
	for sn := start; sn < stop; sn += step {
		if sn >= int64(len(x.sn2i)) {
			break
		}
		if i := x.sn2i[sn]; i != -1 {
			out = append(out, i)
		}
	}
	return out
}
