// Package cycle implements a bounded-hop negative-cycle search: a
// hop-indexed relaxation resembling Bellman-Ford, run once per candidate
// start token, reporting the globally shortest-hop profitable cycle (ties
// broken by most negative total cost).
package cycle

import (
	"math"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
)

// Result is a found cycle: an ordered, closed walk of edge indices plus its
// total log-cost (strictly negative) and the token it starts from.
type Result struct {
	EdgeIndices []int
	TotalCost   float64
	StartToken  int
}

// Finder owns the reusable scratch buffers for a bounded-hop search so that
// repeated calls to Find across many snapshots don't reallocate the cost
// arrays or predecessor table per start token (neighbor scans through
// Snapshot.Neighbors still allocate). A Finder is not safe for concurrent
// use; the pipeline's searcher
// task owns one exclusively.
type Finder struct {
	hopCap int
	n      int

	bestPrev []float64
	bestCur  []float64
	// predEdge[h][v] is the CSR edge index that achieved bestCur[v] during
	// hop h, or -1 if none. A single N-sized array is insufficient because
	// reconstruction needs the predecessor current at the hop where the
	// cycle closed, not just the latest one.
	predEdge [][]int
}

// NewFinder allocates a Finder sized for graphs with up to n tokens and a
// hop cap of hopCap (must be >= 2).
func NewFinder(n, hopCap int) *Finder {
	f := &Finder{hopCap: hopCap, n: n}
	f.bestPrev = make([]float64, n)
	f.bestCur = make([]float64, n)
	f.predEdge = make([][]int, hopCap+1)
	for h := range f.predEdge {
		f.predEdge[h] = make([]int, n)
	}
	return f
}

// Find searches snap for the shortest-hop negative cycle across every
// candidate start token, returning the best one found (or ok=false if the
// graph has no profitable cycle within the hop cap).
func (f *Finder) Find(snap *csrgraph.Snapshot) (Result, bool) {
	var best Result
	found := false

	for s := 0; s < f.n; s++ {
		res, ok := f.findFromStart(snap, s)
		if !ok {
			continue
		}
		if !found || better(res, best) {
			best = res
			found = true
		}
	}

	return best, found
}

// better reports whether a is preferred over b: strictly fewer hops, or
// equal hops with a strictly more negative total cost. Equal-length,
// equal-cost cycles at different start tokens are resolved by keeping the
// first one found (a is not preferred).
func better(a, b Result) bool {
	ah, bh := len(a.EdgeIndices), len(b.EdgeIndices)
	if ah != bh {
		return ah < bh
	}
	return a.TotalCost < b.TotalCost
}

// findFromStart runs the hop-indexed relaxation from a single start token S
// and returns the shortest-hop profitable cycle starting there, if any.
func (f *Finder) findFromStart(snap *csrgraph.Snapshot, s int) (Result, bool) {
	for v := 0; v < f.n; v++ {
		f.bestPrev[v] = math.Inf(1)
	}
	f.bestPrev[s] = 0
	for h := 0; h <= f.hopCap; h++ {
		for v := 0; v < f.n; v++ {
			f.predEdge[h][v] = -1
		}
	}

	for h := 1; h <= f.hopCap; h++ {
		for v := 0; v < f.n; v++ {
			f.bestCur[v] = math.Inf(1)
		}

		for u := 0; u < f.n; u++ {
			pu := f.bestPrev[u]
			if math.IsInf(pu, 1) {
				continue
			}
			for _, nb := range snap.Neighbors(u) {
				cand := pu + nb.Weight
				if cand < f.bestCur[nb.Dest] {
					f.bestCur[nb.Dest] = cand
					f.predEdge[h][nb.Dest] = nb.Edge
				}
			}
		}

		if f.bestCur[s] < 0 {
			edges := f.reconstruct(snap, h, s)
			return Result{EdgeIndices: edges, TotalCost: f.bestCur[s], StartToken: s}, true
		}

		f.bestPrev, f.bestCur = f.bestCur, f.bestPrev
	}

	return Result{}, false
}

// reconstruct walks predEdge backward exactly h steps from s, collecting
// edge indices in reverse, then reverses them into forward (closed-walk)
// order: edges[0] leaves s, edges[h-1] arrives back at s.
func (f *Finder) reconstruct(snap *csrgraph.Snapshot, h, s int) []int {
	edges := make([]int, h)
	v := s
	for step := h; step >= 1; step-- {
		e := f.predEdge[step][v]
		edges[step-1] = e
		v = snap.Source(e)
	}
	return edges
}
