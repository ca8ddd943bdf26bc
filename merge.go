package atomstore

import (
	"fmt"
	"slices"

	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
)

// Merge returns the union of two groups as a new group with
// g.NumAtoms()+other.NumAtoms() atoms.
//
// Coordinate sets are concatenated pairwise along the atom axis. If the two
// groups hold different numbers of sets, a warning is logged and only the
// first set of each is merged. For every field present in either group
// (excluding read-only derived fields), the missing side is zero-filled
// before concatenation in (g, other) order. Bonds from other are offset by
// g.NumAtoms() and the combined list is re-canonicalized.
func (g *Group) Merge(other *Group) (*Group, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: cannot merge with nil group", ErrIncompatible)
	}

	out := NewGroup(g.title+" + "+other.title,
		WithLogger(g.logger),
		WithSpatialBuilder(g.builder),
		WithSelectionResolver(g.resolver),
		WithHierViewBuilder(g.hier),
		WithReservedLabels(g.reserved),
	)
	out.nAtoms = g.nAtoms + other.nAtoms

	nSets := len(g.coordsets)
	if nSets != len(other.coordsets) {
		g.logger.LogCoordsetMismatch(g.title, other.title, nSets, len(other.coordsets))
		nSets = 1
		if len(g.coordsets) == 0 || len(other.coordsets) == 0 {
			return nil, fmt.Errorf("%w: both groups must have coordinates to merge", ErrIncompatible)
		}
	}
	if nSets > 0 {
		sets := make([][]float64, nSets)
		for k := 0; k < nSets; k++ {
			sets[k] = slices.Concat(g.coordsets[k], other.coordsets[k])
		}
		if err := out.SetCoordsets(sets); err != nil {
			return nil, err
		}
	}

	for _, label := range mergedLabels(g, other) {
		if desc, ok := field.Lookup(label); ok && desc.ReadOnly {
			continue
		}
		this := g.data[label]
		that := other.data[label]
		if this == nil {
			this = field.ZerosLike(that, g.nAtoms)
		}
		if that == nil {
			that = field.ZerosLike(this, other.nAtoms)
		}
		col, err := this.Concat(that)
		if err != nil {
			return nil, &ErrTypeMismatch{Label: label, Want: this.Kind(), Got: that.Kind(), cause: err}
		}
		out.data[label] = col
	}

	var pairs []bond.Pair
	if g.bonds != nil {
		pairs = g.bonds.Pairs()
	}
	if other.bonds != nil {
		for _, p := range other.bonds.Pairs() {
			pairs = append(pairs, bond.Pair{I: p.I + g.nAtoms, J: p.J + g.nAtoms})
		}
	}
	if pairs != nil {
		if err := out.SetBonds(pairs); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func mergedLabels(a, b *Group) []string {
	set := make(map[string]struct{}, len(a.data)+len(b.data))
	for label := range a.data {
		set[label] = struct{}{}
	}
	for label := range b.data {
		set[label] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}
