package atomstore

import "github.com/molkit/atomstore/spatial"

// SpatialIndex is an opaque nearest-neighbor handle cached per coordinate
// set. The store only builds and discards it; interpretation belongs to the
// caller.
type SpatialIndex interface {
	// Nearest returns the indices of the k atoms closest to q together with
	// their squared distances, in ascending distance order.
	Nearest(q []float64, k int) ([]int, []float64, error)
}

// SpatialBuilder constructs a SpatialIndex from one flat row-major xyz
// coordinate array.
type SpatialBuilder func(cs []float64) (SpatialIndex, error)

// DefaultSpatialBuilder builds the exact sharded-scan index from the spatial
// package.
func DefaultSpatialBuilder(cs []float64) (SpatialIndex, error) {
	return spatial.New(cs)
}

// SelectionResolver evaluates a selection string against a group and returns
// the matching atom indices.
type SelectionResolver interface {
	Resolve(g *Group, selstr string) ([]int, error)
}

// HierViewBuilder builds a hierarchical segment/chain/residue view over a
// group. The view object is owned by the collaborator; the store only caches
// it.
type HierViewBuilder interface {
	Build(g *Group) (any, error)
}

// ReservedLabelFunc reports whether a label collides with a reserved word or
// selection keyword.
type ReservedLabelFunc func(label string) bool
