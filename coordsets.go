package atomstore

import (
	"iter"
	"slices"

	"github.com/molkit/atomstore/internal/coords"
)

// SetCoords sets the coordinates of the active coordinate set, or
// initializes a single-set stack if the group has none. The array is a flat
// row-major [n,3] block; if the atom count is unset it is fixed from the
// array length. The set's version is bumped and its cached spatial index
// discarded.
func (g *Group) SetCoords(cs []float64) error {
	n, err := coords.CheckSet(cs, "coords", g.nAtoms)
	if err != nil {
		return translateCoordsError(err)
	}

	if len(g.coordsets) == 0 {
		g.nAtoms = n
		g.coordsets = [][]float64{slices.Clone(cs)}
		g.cslabels = []string{""}
		g.versions = []uint64{0}
		g.cache = []spatialSlot{{}}
		g.acsi = 0
		g.bumpVersion(0)
		return nil
	}

	copy(g.coordsets[g.acsi], cs)
	g.bumpVersion(g.acsi)
	return nil
}

// SetCoordsets replaces the entire coordinate-set stack, resets the active
// index to 0, and reinitializes all per-set cache state. If the atom count
// is unset it is fixed from the first set.
func (g *Group) SetCoordsets(sets [][]float64) error {
	n, err := coords.CheckStack(sets, "coordsets", g.nAtoms)
	if err != nil {
		return translateCoordsError(err)
	}

	g.nAtoms = n
	g.coordsets = make([][]float64, len(sets))
	for i, cs := range sets {
		g.coordsets[i] = slices.Clone(cs)
	}
	g.cslabels = make([]string, len(sets))
	g.versions = make([]uint64, len(sets))
	g.cache = make([]spatialSlot, len(sets))
	g.acsi = 0
	for i := range g.versions {
		g.bumpVersion(i)
	}
	return nil
}

// AddCoordset appends one coordinate set to the stack with an optional
// label. Existing sets are never replaced.
func (g *Group) AddCoordset(cs []float64, label string) error {
	return g.AddCoordsets([][]float64{cs}, []string{label})
}

// AddCoordsets appends coordinate sets to the stack. If labels is non-nil
// its length must match the number of appended sets; a mismatch is a
// non-fatal condition that is logged and leaves all labels empty.
func (g *Group) AddCoordsets(sets [][]float64, labels []string) error {
	n, err := coords.CheckStack(sets, "coordsets", g.nAtoms)
	if err != nil {
		return translateCoordsError(err)
	}
	if g.nAtoms == 0 {
		g.nAtoms = n
	}

	if labels != nil && len(labels) != len(sets) {
		g.logger.WithTitle(g.title).LogLabelMismatch(len(labels), len(sets))
		labels = nil
	}

	for i, cs := range sets {
		g.coordsets = append(g.coordsets, slices.Clone(cs))
		if labels != nil {
			g.cslabels = append(g.cslabels, labels[i])
		} else {
			g.cslabels = append(g.cslabels, "")
		}
		g.versions = append(g.versions, 0)
		g.cache = append(g.cache, spatialSlot{})
		g.bumpVersion(len(g.versions) - 1)
	}
	if len(g.coordsets) == len(sets) {
		g.acsi = 0
	}
	return nil
}

// DelCoordset removes the coordinate sets at the given indices. Negative
// indices count from the end. Removing the last set resets all
// multi-snapshot state; otherwise labels, versions, and cache slots are
// compacted in lockstep and the active index is clamped into range. Fails
// with ErrLocked while the group is locked by an associated trajectory.
func (g *Group) DelCoordset(indices ...int) error {
	if g.locked {
		return ErrLocked
	}
	n := len(g.coordsets)
	if n == 0 {
		return &ErrIndexOutOfRange{What: "coordinate set", Index: 0, N: 0}
	}

	drop := make([]bool, n)
	for _, i := range indices {
		orig := i
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return &ErrIndexOutOfRange{What: "coordinate set", Index: orig, N: n}
		}
		drop[i] = true
	}

	var (
		sets     [][]float64
		labels   []string
		versions []uint64
		cache    []spatialSlot
	)
	for i := 0; i < n; i++ {
		if drop[i] {
			continue
		}
		sets = append(sets, g.coordsets[i])
		labels = append(labels, g.cslabels[i])
		versions = append(versions, g.versions[i])
		cache = append(cache, g.cache[i])
	}

	if len(sets) == 0 {
		g.coordsets = nil
		g.cslabels = nil
		g.versions = nil
		g.cache = nil
		g.acsi = 0
		return nil
	}

	g.coordsets = sets
	g.cslabels = labels
	g.versions = versions
	g.cache = cache
	if g.acsi >= len(sets) {
		g.acsi = len(sets) - 1
	}
	return nil
}

// NumCoordsets returns the number of coordinate sets.
func (g *Group) NumCoordsets() int { return len(g.coordsets) }

// ACSIndex returns the index of the active coordinate set.
func (g *Group) ACSIndex() int { return g.acsi }

// SetACSIndex sets the active coordinate set. Negative indices count from
// the end.
func (g *Group) SetACSIndex(i int) error {
	n := len(g.coordsets)
	orig := i
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return &ErrIndexOutOfRange{What: "coordinate set", Index: orig, N: n}
	}
	g.acsi = i
	return nil
}

// Coords returns a copy of the active coordinate set, or nil if the group
// has no coordinates.
func (g *Group) Coords() []float64 {
	if len(g.coordsets) == 0 {
		return nil
	}
	return slices.Clone(g.coordsets[g.acsi])
}

// coordsRef returns the active coordinate set without copying.
func (g *Group) coordsRef() []float64 {
	if len(g.coordsets) == 0 {
		return nil
	}
	return g.coordsets[g.acsi]
}

// Coordsets returns copies of the coordinate sets at the given indices, or
// of all sets when none are given. Negative indices count from the end.
func (g *Group) Coordsets(indices ...int) ([][]float64, error) {
	n := len(g.coordsets)
	if len(indices) == 0 {
		out := make([][]float64, n)
		for i, cs := range g.coordsets {
			out[i] = slices.Clone(cs)
		}
		return out, nil
	}
	out := make([][]float64, 0, len(indices))
	for _, i := range indices {
		orig := i
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, &ErrIndexOutOfRange{What: "coordinate set", Index: orig, N: n}
		}
		out = append(out, slices.Clone(g.coordsets[i]))
	}
	return out, nil
}

// IterCoordsets yields a copy of each coordinate set in order.
func (g *Group) IterCoordsets() iter.Seq[[]float64] {
	return func(yield func([]float64) bool) {
		for _, cs := range g.coordsets {
			if !yield(slices.Clone(cs)) {
				return
			}
		}
	}
}

// ACSLabel returns the label of the active coordinate set.
func (g *Group) ACSLabel() string {
	if len(g.coordsets) == 0 {
		return ""
	}
	return g.cslabels[g.acsi]
}

// SetACSLabel sets the label of the active coordinate set.
func (g *Group) SetACSLabel(label string) error {
	if len(g.coordsets) == 0 {
		return &ErrIndexOutOfRange{What: "coordinate set", Index: 0, N: 0}
	}
	g.cslabels[g.acsi] = label
	return nil
}

// CSLabels returns a copy of the coordinate set labels.
func (g *Group) CSLabels() []string {
	return slices.Clone(g.cslabels)
}

// SetCSLabels sets all coordinate set labels at once. The list length must
// equal the number of coordinate sets.
func (g *Group) SetCSLabels(labels []string) error {
	if len(labels) != len(g.coordsets) {
		return &ErrLengthMismatch{Label: "coordinate set labels", Want: len(g.coordsets), Got: len(labels)}
	}
	g.cslabels = slices.Clone(labels)
	return nil
}

// Lock marks the group's coordinate sets as owned by an associated
// trajectory; set deletion fails until Unlock is called.
func (g *Group) Lock() { g.locked = true }

// Unlock releases the trajectory lock.
func (g *Group) Unlock() { g.locked = false }

// Locked reports whether the group is locked by an associated trajectory.
func (g *Group) Locked() bool { return g.locked }

// bumpVersion advances the version counter of coordinate set i, implicitly
// invalidating any cached state built against the previous version.
func (g *Group) bumpVersion(i int) {
	g.versions[i]++
}

// Spatial returns the spatial index of the active coordinate set, building
// it through the configured builder on first use and after any coordinate
// mutation.
func (g *Group) Spatial() (SpatialIndex, error) {
	if len(g.coordsets) == 0 {
		return nil, &ErrIndexOutOfRange{What: "coordinate set", Index: 0, N: 0}
	}
	return g.SpatialAt(g.acsi)
}

// SpatialAt returns the spatial index of coordinate set i, subject to the
// same caching as Spatial.
func (g *Group) SpatialAt(i int) (SpatialIndex, error) {
	n := len(g.coordsets)
	if i < 0 || i >= n {
		return nil, &ErrIndexOutOfRange{What: "coordinate set", Index: i, N: n}
	}
	if g.builder == nil {
		return nil, ErrNoSpatialBuilder
	}

	slot := &g.cache[i]
	if slot.index != nil && slot.builtVersion == g.versions[i] {
		return slot.index, nil
	}
	idx, err := g.builder(g.coordsets[i])
	if err != nil {
		return nil, err
	}
	slot.index = idx
	slot.builtVersion = g.versions[i]
	return idx, nil
}
