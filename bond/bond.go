// Package bond canonicalizes undirected bond lists into a queryable
// adjacency structure.
//
// A canonical bond list stores the smaller atom index first in every pair
// and orders the whole list with a two-pass composite sort: a stable sort by
// the second index followed by a stable sort by the first. Dependent
// computations rely on this exact ordering; it is not interchangeable with a
// single lexicographic sort.
package bond

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Pair is one undirected bond between two atom indices.
type Pair struct {
	I, J int
}

// IndexError reports a bond endpoint outside the valid atom range.
type IndexError struct {
	Index int
	N     int
}

func (e *IndexError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("negative atom index %d in bond list", e.Index)
	}
	return fmt.Sprintf("atom index %d out of range for %d atoms", e.Index, e.N)
}

// Topology is a canonical bond list plus its derived per-atom bond counts
// and adjacency map.
type Topology struct {
	pairs  []Pair
	counts []int
	adj    [][]int
	nAtoms int
}

// New validates, canonicalizes, and evaluates a bond list over nAtoms atoms.
func New(pairs []Pair, nAtoms int) (*Topology, error) {
	for _, p := range pairs {
		for _, idx := range [2]int{p.I, p.J} {
			if idx < 0 || idx >= nAtoms {
				return nil, &IndexError{Index: idx, N: nAtoms}
			}
		}
	}

	canonical := Canonicalize(pairs)

	t := &Topology{
		pairs:  canonical,
		counts: make([]int, nAtoms),
		adj:    make([][]int, nAtoms),
		nAtoms: nAtoms,
	}
	for b, p := range canonical {
		t.counts[p.I]++
		t.counts[p.J]++
		t.adj[p.I] = append(t.adj[p.I], b)
		t.adj[p.J] = append(t.adj[p.J], b)
	}
	return t, nil
}

// Canonicalize returns a canonical copy of pairs: each pair stores the
// smaller index first, the list is stably sorted by second index and then by
// first index, and duplicate pairs are dropped.
func Canonicalize(pairs []Pair) []Pair {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		if p.I > p.J {
			p.I, p.J = p.J, p.I
		}
		out[i] = p
	}

	// Two-pass composite sort, not a single lexicographic one.
	slices.SortStableFunc(out, func(a, b Pair) int { return a.J - b.J })
	slices.SortStableFunc(out, func(a, b Pair) int { return a.I - b.I })

	return slices.Compact(out)
}

// Trim retains the bonds whose both endpoints are members of keep and remaps
// them onto keep's dense numbering. It returns nil if no bonds survive.
func Trim(pairs []Pair, keep []int) []Pair {
	members := roaring.New()
	remap := make(map[int]int, len(keep))
	for newIdx, oldIdx := range keep {
		members.Add(uint32(oldIdx))
		remap[oldIdx] = newIdx
	}

	var out []Pair
	for _, p := range pairs {
		if members.Contains(uint32(p.I)) && members.Contains(uint32(p.J)) {
			out = append(out, Pair{I: remap[p.I], J: remap[p.J]})
		}
	}
	return out
}

// NumAtoms returns the atom count the topology was evaluated over.
func (t *Topology) NumAtoms() int { return t.nAtoms }

// NumBonds returns the number of canonical bonds.
func (t *Topology) NumBonds() int { return len(t.pairs) }

// Pairs returns a copy of the canonical bond list.
func (t *Topology) Pairs() []Pair { return slices.Clone(t.pairs) }

// Pair returns the canonical bond at index b.
func (t *Topology) Pair(b int) Pair { return t.pairs[b] }

// Counts returns a copy of the per-atom bond counts.
func (t *Topology) Counts() []int { return slices.Clone(t.counts) }

// Adjacent returns the indices of the bonds touching atom i.
// The returned slice is owned by the topology.
func (t *Topology) Adjacent(i int) []int { return t.adj[i] }
