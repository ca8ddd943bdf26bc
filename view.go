package atomstore

import (
	"fmt"
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
)

// Atom is a non-owning view of a single atom. All accessors read through to
// the owning group using its active coordinate set at call time; an Atom
// never caches state.
type Atom struct {
	g     *Group
	index int
}

// AtomAt returns a single-atom view. Negative indices count from the end.
func (g *Group) AtomAt(i int) (*Atom, error) {
	orig := i
	if i < 0 {
		i += g.nAtoms
	}
	if i < 0 || i >= g.nAtoms {
		return nil, &ErrIndexOutOfRange{What: "atom", Index: orig, N: g.nAtoms}
	}
	return &Atom{g: g, index: i}, nil
}

// Group returns the owning group.
func (a *Atom) Group() *Group { return a.g }

// Index returns the dense index of the atom in the owning group.
func (a *Atom) Index() int { return a.index }

func (a *Atom) String() string {
	return fmt.Sprintf("Atom %d of %s", a.index, a.g.title)
}

// Coords returns a copy of the atom's coordinates from the active set, or
// nil if the group has no coordinates.
func (a *Atom) Coords() []float64 {
	cs := a.g.coordsRef()
	if cs == nil {
		return nil
	}
	return slices.Clone(cs[a.index*3 : a.index*3+3])
}

// SetCoords sets the atom's coordinates in the active set.
func (a *Atom) SetCoords(xyz []float64) error {
	if len(xyz) != 3 {
		return &ErrShapeMismatch{What: "atom coords", Want: 1, Got: len(xyz)}
	}
	cs := a.g.coordsRef()
	if cs == nil {
		return &ErrIndexOutOfRange{What: "coordinate set", Index: 0, N: 0}
	}
	copy(cs[a.index*3:a.index*3+3], xyz)
	a.g.bumpVersion(a.g.acsi)
	return nil
}

// Data returns a one-row copy of the atom's value in the column stored
// under label, or nil if no such data is present.
func (a *Atom) Data(label string) *field.Array {
	col := a.g.getData(label)
	if col == nil {
		return nil
	}
	return col.Select([]int{a.index})
}

// Copy materializes the atom as a new single-atom group.
func (a *Atom) Copy() (*Group, error) {
	return a.g.CopyAtom(a.index)
}

// Selection is a non-owning view over an ordered set of atom indices. It
// owns no payload; accessors delegate to the owning group restricted to the
// view's indices, always against the group's current active coordinate set.
type Selection struct {
	g       *Group
	indices []int
	unique  bool
	label   string
}

func newSelection(g *Group, indices []int, label string) (*Selection, error) {
	seen := roaring.New()
	for _, i := range indices {
		if i < 0 || i >= g.nAtoms {
			return nil, &ErrIndexOutOfRange{What: "atom", Index: i, N: g.nAtoms}
		}
		seen.Add(uint32(i))
	}
	return &Selection{
		g:       g,
		indices: slices.Clone(indices),
		unique:  seen.GetCardinality() == uint64(len(indices)),
		label:   label,
	}, nil
}

// Group returns the owning group.
func (s *Selection) Group() *Group { return s.g }

// Len returns the number of indices in the view.
func (s *Selection) Len() int { return len(s.indices) }

// Indices returns a copy of the view's index array.
func (s *Selection) Indices() []int { return slices.Clone(s.indices) }

// Unique reports whether the index sequence is known duplicate-free.
func (s *Selection) Unique() bool { return s.unique }

// Label returns the view's label.
func (s *Selection) Label() string { return s.label }

func (s *Selection) String() string {
	return fmt.Sprintf("Selection %q from %s (%d atoms)", s.label, s.g.title, len(s.indices))
}

// Coords returns a copy of the selected rows of the active coordinate set,
// or nil if the group has no coordinates.
func (s *Selection) Coords() []float64 {
	cs := s.g.coordsRef()
	if cs == nil {
		return nil
	}
	out := make([]float64, 0, len(s.indices)*3)
	for _, i := range s.indices {
		out = append(out, cs[i*3:i*3+3]...)
	}
	return out
}

// SetCoords writes coordinates for the selected rows into the active set.
// The array must hold one xyz triple per selected atom.
func (s *Selection) SetCoords(xyz []float64) error {
	if len(xyz) != len(s.indices)*3 {
		return &ErrLengthMismatch{Label: "selection coords", Want: len(s.indices) * 3, Got: len(xyz)}
	}
	cs := s.g.coordsRef()
	if cs == nil {
		return &ErrIndexOutOfRange{What: "coordinate set", Index: 0, N: 0}
	}
	for n, i := range s.indices {
		copy(cs[i*3:i*3+3], xyz[n*3:n*3+3])
	}
	s.g.bumpVersion(s.g.acsi)
	return nil
}

// Data returns a copy of the selected rows of the column stored under
// label, or nil if no such data is present.
func (s *Selection) Data(label string) *field.Array {
	col := s.g.getData(label)
	if col == nil {
		return nil
	}
	return col.Select(s.indices)
}

// SetData writes rows into the column stored under label at the view's
// indices. The column must already exist on the owning group and must not
// be read-only.
func (s *Selection) SetData(label string, data *field.Array) error {
	if desc, ok := field.Lookup(label); ok && desc.ReadOnly {
		return &ErrInvalidLabel{Label: label, Reason: "field is read-only"}
	}
	col := s.g.getData(label)
	if col == nil {
		return &ErrInvalidLabel{Label: label, Reason: "field is not set on the group"}
	}
	if data.Len() != len(s.indices) {
		return &ErrLengthMismatch{Label: label, Want: len(s.indices), Got: data.Len()}
	}
	if err := col.SetRows(s.indices, data); err != nil {
		return &ErrTypeMismatch{Label: label, Want: col.Kind(), Got: data.Kind(), cause: err}
	}
	if desc, ok := field.Lookup(label); ok && desc.Invalidates == field.InvalidateSerial {
		s.g.sn2i = nil
	}
	return nil
}

// Atoms yields one single-atom view per selected index, in view order.
func (s *Selection) Atoms() iter.Seq[*Atom] {
	return func(yield func(*Atom) bool) {
		for _, i := range s.indices {
			if !yield(&Atom{g: s.g, index: i}) {
				return
			}
		}
	}
}

// Copy materializes the selected atoms as a new group.
func (s *Selection) Copy() (*Group, error) {
	title := fmt.Sprintf("%s selection %q", s.g.title, s.label)
	return s.g.copySubset(s.indices, title)
}

// Bond is a non-owning view of one canonical bond.
type Bond struct {
	g     *Group
	index int
}

// Pair returns the bond's canonical atom index pair.
func (b Bond) Pair() bond.Pair { return b.g.bonds.Pair(b.index) }

// Atoms returns single-atom views of the bond's endpoints.
func (b Bond) Atoms() (*Atom, *Atom) {
	p := b.Pair()
	return &Atom{g: b.g, index: p.I}, &Atom{g: b.g, index: p.J}
}

func (b Bond) String() string {
	p := b.Pair()
	return fmt.Sprintf("Bond %d-%d of %s", p.I, p.J, b.g.title)
}
