package atomstore

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
	"github.com/molkit/atomstore/serial"
)

// Group is the in-memory store for one molecular structure: a fixed number
// of atoms, a dynamic set of typed per-atom attribute columns, a stack of
// coordinate sets with one active set, and an optional bond topology.
//
// The atom count is fixed by the first coordinate or field assignment; every
// subsequent assignment must match it exactly. A group created empty has
// zero atoms.
//
// A group assumes exclusive single-owner mutation; concurrent mutation must
// be serialized by the caller.
type Group struct {
	title  string
	nAtoms int
	data   map[string]*field.Array
	bonds  *bond.Topology

	coordsets [][]float64
	acsi      int
	cslabels  []string
	versions  []uint64
	cache     []spatialSlot

	locked bool
	sn2i   *serial.Index
	hv     any

	logger   *Logger
	builder  SpatialBuilder
	resolver SelectionResolver
	hier     HierViewBuilder
	reserved ReservedLabelFunc
}

// spatialSlot caches the spatial index built for one coordinate set. The
// cached value is valid iff builtVersion equals the set's current version.
type spatialSlot struct {
	builtVersion uint64
	index        SpatialIndex
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger used for best-effort warning paths.
func WithLogger(l *Logger) Option {
	return func(g *Group) { g.logger = l }
}

// WithSpatialBuilder sets the builder for the per-coordinate-set spatial
// cache.
func WithSpatialBuilder(b SpatialBuilder) Option {
	return func(g *Group) { g.builder = b }
}

// WithSelectionResolver sets the collaborator that evaluates selection
// strings.
func WithSelectionResolver(r SelectionResolver) Option {
	return func(g *Group) { g.resolver = r }
}

// WithHierViewBuilder sets the collaborator that builds hierarchical views.
func WithHierViewBuilder(h HierViewBuilder) Option {
	return func(g *Group) { g.hier = h }
}

// WithReservedLabels sets the reserved-word check consulted by custom field
// attachment.
func WithReservedLabels(f ReservedLabelFunc) Option {
	return func(g *Group) { g.reserved = f }
}

// NewGroup creates an empty group with the given title.
func NewGroup(title string, opts ...Option) *Group {
	g := &Group{
		title:   title,
		data:    make(map[string]*field.Array),
		logger:  NewLogger(nil),
		builder: DefaultSpatialBuilder,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Title returns the title of the group.
func (g *Group) Title() string { return g.title }

// SetTitle sets the title of the group.
func (g *Group) SetTitle(title string) { g.title = title }

// NumAtoms returns the number of atoms.
func (g *Group) NumAtoms() int { return g.nAtoms }

// SetNumAtoms fixes the atom count of a group whose count is still unset.
// It exists for restoring a group whose count was fixed by data that no
// longer accompanies it, such as a snapshot taken after every coordinate set
// was deleted. Fixing the count to a new value once set is an error; setting
// the current value again is a no-op.
func (g *Group) SetNumAtoms(n int) error {
	if n < 0 {
		return &ErrIndexOutOfRange{What: "atom count", Index: n, N: -1}
	}
	if g.nAtoms != 0 && g.nAtoms != n {
		return &ErrLengthMismatch{Label: "atom count", Want: g.nAtoms, Got: n}
	}
	if n != 0 {
		g.nAtoms = n
	}
	return nil
}

func (g *Group) String() string {
	return fmt.Sprintf("Group %s (%d atoms; %d coordsets, active %d)",
		g.title, g.nAtoms, len(g.coordsets), g.acsi)
}

// SetData stores a per-atom data column under label.
//
// For registered fields the column must match the declared kind and
// dimensionality (integer data is promoted to float where the field is
// float) and must not be read-only. For custom labels the label must start
// with a letter, contain only alphanumerics and underscore, and not be
// reserved. If the atom count is unset, a registered field assignment fixes
// it; a custom label requires the count to match an already fixed value.
//
// The column is copied on assignment; later changes to the argument do not
// affect the store.
func (g *Group) SetData(label string, data *field.Array) error {
	if data == nil {
		return &ErrTypeMismatch{Label: label, Got: field.KindInvalid}
	}

	desc, registered := field.Lookup(label)
	if registered {
		return g.setRegistered(desc, data)
	}

	if err := field.ValidateLabel(label, g.reserved); err != nil {
		return translateLabelError(err)
	}
	if data.Kind() == field.KindInvalid {
		return &ErrTypeMismatch{Label: label, Got: data.Kind()}
	}
	if data.Len() != g.nAtoms {
		return &ErrLengthMismatch{Label: label, Want: g.nAtoms, Got: data.Len()}
	}
	g.data[label] = data.Clone()
	return nil
}

func (g *Group) setRegistered(desc field.Descriptor, data *field.Array) error {
	if desc.ReadOnly {
		return &ErrInvalidLabel{Label: desc.Name, Reason: "field is read-only"}
	}
	if data.Dims() != desc.Dims {
		return &ErrShapeMismatch{What: desc.Name, Want: desc.Dims, Got: data.Dims()}
	}
	converted, ok := data.Convert(desc.Kind)
	if !ok {
		return &ErrTypeMismatch{Label: desc.Name, Want: desc.Kind, Got: data.Kind()}
	}
	if g.nAtoms == 0 {
		g.nAtoms = converted.Len()
	} else if converted.Len() != g.nAtoms {
		return &ErrLengthMismatch{Label: desc.Name, Want: g.nAtoms, Got: converted.Len()}
	}

	g.data[desc.Key] = converted

	switch desc.Invalidates {
	case field.InvalidateSerial:
		g.sn2i = nil
	case field.InvalidateSpatial:
		if len(g.coordsets) > 0 {
			g.bumpVersion(g.acsi)
		}
	}
	return nil
}

// GetData returns a copy of the data column stored under label, or nil if
// no such data is present. Derived fields (numbonds) are recomputed at their
// mutation site, never here.
func (g *Group) GetData(label string) *field.Array {
	if desc, ok := field.Lookup(label); ok {
		if a := g.data[desc.Key]; a != nil {
			return a.Clone()
		}
		return nil
	}
	if a := g.data[label]; a != nil {
		return a.Clone()
	}
	return nil
}

// getData returns the backing column without copying.
func (g *Group) getData(label string) *field.Array {
	if desc, ok := field.Lookup(label); ok {
		return g.data[desc.Key]
	}
	return g.data[label]
}

// DelData removes and returns the data column stored under label, or nil if
// no such data is present.
func (g *Group) DelData(label string) *field.Array {
	desc, registered := field.Lookup(label)
	if registered {
		label = desc.Key
	}
	a, ok := g.data[label]
	if !ok {
		return nil
	}
	delete(g.data, label)
	if registered && desc.Invalidates == field.InvalidateSerial {
		g.sn2i = nil
	}
	return a
}

// IsData reports whether a data column is stored under label.
func (g *Group) IsData(label string) bool {
	return g.getData(label) != nil
}

// DataLabels returns the labels of all stored data columns in sorted order.
func (g *Group) DataLabels() []string {
	labels := make([]string, 0, len(g.data))
	for label := range g.data {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// DataType returns the element kind of the data stored under label, or
// KindInvalid if no such data is present.
func (g *Group) DataType(label string) field.Kind {
	if a := g.getData(label); a != nil {
		return a.Kind()
	}
	return field.KindInvalid
}

// SetBonds sets the covalent bonds between atoms. All bonds are set at
// once; the list is canonicalized and the derived per-atom bond counts are
// stored as the read-only "numbonds" field, usable for selection (for
// example to find zero-bond atoms).
func (g *Group) SetBonds(pairs []bond.Pair) error {
	t, err := bond.New(pairs, g.nAtoms)
	if err != nil {
		var ie *bond.IndexError
		if errors.As(err, &ie) {
			return &ErrIndexOutOfRange{What: "bond atom", Index: ie.Index, N: ie.N, cause: err}
		}
		return err
	}

	counts := t.Counts()
	numbonds := make([]int64, len(counts))
	for i, c := range counts {
		numbonds[i] = int64(c)
	}
	g.data["numbonds"] = field.Ints(numbonds)
	g.bonds = t
	return nil
}

// NumBonds returns the number of bonds, or 0 if bonds are not set.
func (g *Group) NumBonds() int {
	if g.bonds == nil {
		return 0
	}
	return g.bonds.NumBonds()
}

// BondPairs returns a copy of the canonical bond list, or nil if bonds are
// not set.
func (g *Group) BondPairs() []bond.Pair {
	if g.bonds == nil {
		return nil
	}
	return g.bonds.Pairs()
}

// Topology returns the bond topology, or nil if bonds are not set.
// The returned topology is owned by the group.
func (g *Group) Topology() *bond.Topology { return g.bonds }

// IterBonds yields the bonds of the group in canonical order.
func (g *Group) IterBonds() iter.Seq[Bond] {
	return func(yield func(Bond) bool) {
		if g.bonds == nil {
			return
		}
		for b := 0; b < g.bonds.NumBonds(); b++ {
			if !yield(Bond{g: g, index: b}) {
				return
			}
		}
	}
}

// Atoms yields one single-atom view per atom index.
func (g *Group) Atoms() iter.Seq[*Atom] {
	return func(yield func(*Atom) bool) {
		for i := 0; i < g.nAtoms; i++ {
			if !yield(&Atom{g: g, index: i}) {
				return
			}
		}
	}
}

// serialIndex returns the lazily built serial-number reverse lookup.
func (g *Group) serialIndex() (*serial.Index, error) {
	if g.sn2i != nil {
		return g.sn2i, nil
	}
	serials := g.getData("serials")
	if serials == nil {
		return nil, translateSerialError(serial.ErrNotSet)
	}
	idx, err := serial.Build(serials.IntSlice())
	if err != nil {
		return nil, translateSerialError(err)
	}
	g.sn2i = idx
	return idx, nil
}

// GetBySerial returns a single-atom view for the atom with the given serial
// number, or nil if no atom has it.
func (g *Group) GetBySerial(sn int) (*Atom, error) {
	if sn < 0 {
		return nil, &ErrIndexOutOfRange{What: "serial", Index: sn, N: -1}
	}
	idx, err := g.serialIndex()
	if err != nil {
		return nil, err
	}
	i, ok := idx.Lookup(int64(sn))
	if !ok {
		return nil, nil
	}
	return &Atom{g: g, index: i}, nil
}

// GetBySerialRange returns an ordered view over the atoms whose serial
// numbers fall in [start, stop) stepped by step. stop must exceed start and
// step must be a positive integer.
func (g *Group) GetBySerialRange(start, stop, step int) (*Selection, error) {
	if start < 0 {
		return nil, &ErrIndexOutOfRange{What: "serial", Index: start, N: -1}
	}
	if stop <= start {
		return nil, fmt.Errorf("stop %d must be greater than start %d", stop, start)
	}
	if step < 1 {
		return nil, fmt.Errorf("step must be a positive integer, got %d", step)
	}
	idx, err := g.serialIndex()
	if err != nil {
		return nil, err
	}
	indices := idx.Range(int64(start), int64(stop), int64(step))
	label := fmt.Sprintf("serial %d:%d:%d", start, stop, step)
	return newSelection(g, indices, label)
}

// Select constructs a view over the given atom indices. All indices must be
// within [0, NumAtoms).
func (g *Group) Select(indices []int, label string) (*Selection, error) {
	return newSelection(g, indices, label)
}

// SelectString evaluates a selection string through the configured resolver
// and returns the matching view, or nil if nothing matches.
func (g *Group) SelectString(selstr string) (*Selection, error) {
	if g.resolver == nil {
		return nil, ErrNoResolver
	}
	indices, err := g.resolver.Resolve(g, selstr)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, nil
	}
	return newSelection(g, indices, selstr)
}

// HierView returns the cached hierarchical view of the group, building it
// through the configured collaborator on first use.
func (g *Group) HierView() (any, error) {
	if g.hv != nil {
		return g.hv, nil
	}
	if g.hier == nil {
		return nil, fmt.Errorf("no hierarchical view builder configured")
	}
	hv, err := g.hier.Build(g)
	if err != nil {
		return nil, err
	}
	g.hv = hv
	return hv, nil
}
