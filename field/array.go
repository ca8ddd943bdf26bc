package field

import (
	"fmt"
	"slices"
)

// Kind identifies the element type stored in an Array.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindBool represents a boolean column.
	KindBool
	// KindInt represents an integer column.
	KindInt
	// KindFloat represents a float column.
	KindFloat
	// KindString represents a string column.
	KindString
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Array is a fixed-length typed column.
//
// Exactly one of the backing slices is non-nil, selected by kind. A column
// with width > 1 is two-dimensional; its backing slice holds rows flat in
// row-major order and Len reports the number of rows.
type Array struct {
	kind  Kind
	width int

	bools   []bool
	ints    []int64
	floats  []float64
	strings []string
}

// Bools returns a one-dimensional boolean Array backed by v.
func Bools(v []bool) *Array { return &Array{kind: KindBool, width: 1, bools: v} }

// Ints returns a one-dimensional integer Array backed by v.
func Ints(v []int64) *Array { return &Array{kind: KindInt, width: 1, ints: v} }

// Floats returns a one-dimensional float Array backed by v.
func Floats(v []float64) *Array { return &Array{kind: KindFloat, width: 1, floats: v} }

// Strings returns a one-dimensional string Array backed by v.
func Strings(v []string) *Array { return &Array{kind: KindString, width: 1, strings: v} }

// Ints2D returns a two-dimensional integer Array with the given row width.
// The backing slice length must be a multiple of width.
func Ints2D(v []int64, width int) (*Array, error) {
	if width < 1 || len(v)%width != 0 {
		return nil, fmt.Errorf("int column of length %d cannot have width %d", len(v), width)
	}
	return &Array{kind: KindInt, width: width, ints: v}, nil
}

// Floats2D returns a two-dimensional float Array with the given row width.
// The backing slice length must be a multiple of width.
func Floats2D(v []float64, width int) (*Array, error) {
	if width < 1 || len(v)%width != 0 {
		return nil, fmt.Errorf("float column of length %d cannot have width %d", len(v), width)
	}
	return &Array{kind: KindFloat, width: width, floats: v}, nil
}

// Kind returns the element kind of the column.
func (a *Array) Kind() Kind { return a.kind }

// Width returns the number of elements per row.
func (a *Array) Width() int { return a.width }

// Dims returns 1 for flat columns and 2 for columns with width > 1.
func (a *Array) Dims() int {
	if a.width > 1 {
		return 2
	}
	return 1
}

// Len returns the number of rows.
func (a *Array) Len() int {
	switch a.kind {
	case KindBool:
		return len(a.bools) / a.width
	case KindInt:
		return len(a.ints) / a.width
	case KindFloat:
		return len(a.floats) / a.width
	case KindString:
		return len(a.strings) / a.width
	default:
		return 0
	}
}

// BoolSlice returns the backing boolean slice without copying.
// Callers must not retain it across mutations of the owning store.
func (a *Array) BoolSlice() []bool { return a.bools }

// IntSlice returns the backing integer slice without copying.
func (a *Array) IntSlice() []int64 { return a.ints }

// FloatSlice returns the backing float slice without copying.
func (a *Array) FloatSlice() []float64 { return a.floats }

// StringSlice returns the backing string slice without copying.
func (a *Array) StringSlice() []string { return a.strings }

// Clone returns a deep copy of the column.
func (a *Array) Clone() *Array {
	return &Array{
		kind:    a.kind,
		width:   a.width,
		bools:   slices.Clone(a.bools),
		ints:    slices.Clone(a.ints),
		floats:  slices.Clone(a.floats),
		strings: slices.Clone(a.strings),
	}
}

// Equal reports whether two columns have the same kind, width, and contents.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.kind == b.kind && a.width == b.width &&
		slices.Equal(a.bools, b.bools) &&
		slices.Equal(a.ints, b.ints) &&
		slices.Equal(a.floats, b.floats) &&
		slices.Equal(a.strings, b.strings)
}

// Select returns a new column holding the rows at the given indices, in order.
// Indices must be valid rows of a.
func (a *Array) Select(indices []int) *Array {
	out := &Array{kind: a.kind, width: a.width}
	w := a.width
	switch a.kind {
	case KindBool:
		out.bools = make([]bool, 0, len(indices)*w)
		for _, i := range indices {
			out.bools = append(out.bools, a.bools[i*w:(i+1)*w]...)
		}
	case KindInt:
		out.ints = make([]int64, 0, len(indices)*w)
		for _, i := range indices {
			out.ints = append(out.ints, a.ints[i*w:(i+1)*w]...)
		}
	case KindFloat:
		out.floats = make([]float64, 0, len(indices)*w)
		for _, i := range indices {
			out.floats = append(out.floats, a.floats[i*w:(i+1)*w]...)
		}
	case KindString:
		out.strings = make([]string, 0, len(indices)*w)
		for _, i := range indices {
			out.strings = append(out.strings, a.strings[i*w:(i+1)*w]...)
		}
	}
	return out
}

// SetRows writes the rows of src into a at the given indices.
// src must have the same kind and width as a and one row per index.
func (a *Array) SetRows(indices []int, src *Array) error {
	if src.kind != a.kind || src.width != a.width {
		return fmt.Errorf("cannot assign %s rows of width %d into %s column of width %d",
			src.kind, src.width, a.kind, a.width)
	}
	if src.Len() != len(indices) {
		return fmt.Errorf("row count %d does not match index count %d", src.Len(), len(indices))
	}
	w := a.width
	for n, i := range indices {
		switch a.kind {
		case KindBool:
			copy(a.bools[i*w:(i+1)*w], src.bools[n*w:(n+1)*w])
		case KindInt:
			copy(a.ints[i*w:(i+1)*w], src.ints[n*w:(n+1)*w])
		case KindFloat:
			copy(a.floats[i*w:(i+1)*w], src.floats[n*w:(n+1)*w])
		case KindString:
			copy(a.strings[i*w:(i+1)*w], src.strings[n*w:(n+1)*w])
		}
	}
	return nil
}

// Concat returns a new column holding the rows of a followed by the rows of b.
// Both columns must have the same kind and width.
func (a *Array) Concat(b *Array) (*Array, error) {
	if a.kind != b.kind || a.width != b.width {
		return nil, fmt.Errorf("cannot concatenate %s column of width %d with %s column of width %d",
			a.kind, a.width, b.kind, b.width)
	}
	return &Array{
		kind:    a.kind,
		width:   a.width,
		bools:   slices.Concat(a.bools, b.bools),
		ints:    slices.Concat(a.ints, b.ints),
		floats:  slices.Concat(a.floats, b.floats),
		strings: slices.Concat(a.strings, b.strings),
	}, nil
}

// ZerosLike returns a zero-valued column with n rows and the kind and width
// of the prototype.
func ZerosLike(proto *Array, n int) *Array {
	out := &Array{kind: proto.kind, width: proto.width}
	switch proto.kind {
	case KindBool:
		out.bools = make([]bool, n*proto.width)
	case KindInt:
		out.ints = make([]int64, n*proto.width)
	case KindFloat:
		out.floats = make([]float64, n*proto.width)
	case KindString:
		out.strings = make([]string, n*proto.width)
	}
	return out
}

// Convert returns a copy of a with the requested element kind.
// The only supported conversion is integer to float promotion; all other
// kind changes report false.
func (a *Array) Convert(kind Kind) (*Array, bool) {
	if kind == a.kind {
		return a.Clone(), true
	}
	if a.kind == KindInt && kind == KindFloat {
		floats := make([]float64, len(a.ints))
		for i, v := range a.ints {
			floats[i] = float64(v)
		}
		return &Array{kind: KindFloat, width: a.width, floats: floats}, true
	}
	return nil, false
}
