package atomstore

import (
	"fmt"
	"slices"

	"github.com/molkit/atomstore/bond"
)

// Copy returns a full copy of the group. All field arrays, coordinate sets,
// labels, and bonds are materialized as genuinely new arrays.
func (g *Group) Copy() *Group {
	out := NewGroup(g.title,
		WithLogger(g.logger),
		WithSpatialBuilder(g.builder),
		WithSelectionResolver(g.resolver),
		WithHierViewBuilder(g.hier),
		WithReservedLabels(g.reserved),
	)
	out.nAtoms = g.nAtoms

	for label, col := range g.data {
		if label == "numbonds" {
			continue
		}
		out.data[label] = col.Clone()
	}

	if len(g.coordsets) > 0 {
		sets := make([][]float64, len(g.coordsets))
		for i, cs := range g.coordsets {
			sets[i] = slices.Clone(cs)
		}
		// SetCoordsets cannot fail here: the source sets already satisfy the
		// shape contract.
		_ = out.SetCoordsets(sets)
		out.cslabels = slices.Clone(g.cslabels)
		out.acsi = g.acsi
	}

	if g.bonds != nil {
		_ = out.SetBonds(g.bonds.Pairs())
	}
	return out
}

// CopyIndices returns a new group containing only the atoms at the given
// indices. Field arrays and coordinate sets are sliced by the index array;
// the derived numbonds field is recomputed from the trimmed bond topology
// rather than sliced.
func (g *Group) CopyIndices(indices []int) (*Group, error) {
	return g.copySubset(indices, fmt.Sprintf("%s subset", g.title))
}

// CopyAtom returns a new single-atom group for the atom at index i.
func (g *Group) CopyAtom(i int) (*Group, error) {
	if i < 0 || i >= g.nAtoms {
		return nil, &ErrIndexOutOfRange{What: "atom", Index: i, N: g.nAtoms}
	}
	return g.copySubset([]int{i}, fmt.Sprintf("%s index %d", g.title, i))
}

// CopySelection resolves a selection string through the configured resolver
// and returns a new group containing the matching atoms, or nil if nothing
// matches.
func (g *Group) CopySelection(selstr string) (*Group, error) {
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
	return g.copySubset(indices, fmt.Sprintf("%s selection %q", g.title, selstr))
}

func (g *Group) copySubset(indices []int, title string) (*Group, error) {
	for _, i := range indices {
		if i < 0 || i >= g.nAtoms {
			return nil, &ErrIndexOutOfRange{What: "atom", Index: i, N: g.nAtoms}
		}
	}

	out := NewGroup(title,
		WithLogger(g.logger),
		WithSpatialBuilder(g.builder),
		WithSelectionResolver(g.resolver),
		WithHierViewBuilder(g.hier),
		WithReservedLabels(g.reserved),
	)
	out.nAtoms = len(indices)

	for label, col := range g.data {
		if label == "numbonds" {
			continue
		}
		out.data[label] = col.Select(indices)
	}

	if len(g.coordsets) > 0 {
		sets := make([][]float64, len(g.coordsets))
		for k, cs := range g.coordsets {
			sliced := make([]float64, 0, len(indices)*3)
			for _, i := range indices {
				sliced = append(sliced, cs[i*3:i*3+3]...)
			}
			sets[k] = sliced
		}
		if err := out.SetCoordsets(sets); err != nil {
			return nil, err
		}
		out.cslabels = slices.Clone(g.cslabels)
	}

	if g.bonds != nil {
		if trimmed := bond.Trim(g.bonds.Pairs(), indices); trimmed != nil {
			if err := out.SetBonds(trimmed); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
