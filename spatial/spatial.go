// Package spatial provides an exact nearest-neighbor index over a single
// coordinate set.
//
// The index performs a sharded linear scan and returns exact results. It is
// the default builder for the per-coordinate-set spatial cache; callers that
// need approximate search at larger scales can plug in their own builder.
package spatial

import (
	"container/heap"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// minShardSize is the smallest per-goroutine slice worth the scheduling cost.
const minShardSize = 2048

// Index is an exact nearest-neighbor index over a fixed set of points.
type Index struct {
	pts []float64 // flat xyz triples
	n   int
}

// New builds an index over a flat row-major xyz coordinate array.
func New(pts []float64) (*Index, error) {
	if len(pts) == 0 || len(pts)%3 != 0 {
		return nil, fmt.Errorf("coordinate array length %d is not a multiple of 3", len(pts))
	}
	return &Index{pts: pts, n: len(pts) / 3}, nil
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// Nearest returns the indices of the k points closest to q together with
// their squared Euclidean distances, in ascending distance order.
func (ix *Index) Nearest(q []float64, k int) ([]int, []float64, error) {
	if len(q) != 3 {
		return nil, nil, fmt.Errorf("query point has %d components, expected 3", len(q))
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if k > ix.n {
		k = ix.n
	}

	shards := ix.n / minShardSize
	if shards < 1 {
		shards = 1
	}

	results := make([]resultHeap, shards)
	var g errgroup.Group
	chunk := (ix.n + shards - 1) / shards
	for s := 0; s < shards; s++ {
		lo, hi := s*chunk, min((s+1)*chunk, ix.n)
		h := &results[s]
		g.Go(func() error {
			ix.scan(q, k, lo, hi, h)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Merge per-shard candidates.
	var merged resultHeap
	for s := range results {
		for _, c := range results[s] {
			pushCandidate(&merged, k, c)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].dist < merged[j].dist })

	indices := make([]int, len(merged))
	dists := make([]float64, len(merged))
	for i, c := range merged {
		indices[i] = c.index
		dists[i] = c.dist
	}
	return indices, dists, nil
}

func (ix *Index) scan(q []float64, k, lo, hi int, h *resultHeap) {
	for i := lo; i < hi; i++ {
		dx := ix.pts[i*3] - q[0]
		dy := ix.pts[i*3+1] - q[1]
		dz := ix.pts[i*3+2] - q[2]
		pushCandidate(h, k, candidate{index: i, dist: dx*dx + dy*dy + dz*dz})
	}
}

func pushCandidate(h *resultHeap, k int, c candidate) {
	if h.Len() < k {
		heap.Push(h, c)
	} else if c.dist < (*h)[0].dist {
		(*h)[0] = c
		heap.Fix(h, 0)
	}
}

type candidate struct {
	index int
	dist  float64
}

// resultHeap is a max-heap on distance so the current worst candidate sits
// at the root.
type resultHeap []candidate

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)         { *h = append(*h, x.(candidate)) }
func (h *resultHeap) Pop() any           { old := *h; n := len(old); x := old[n-1]; *h = old[:n-1]; return x }
