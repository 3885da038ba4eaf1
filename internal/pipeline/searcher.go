package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
	"github.com/rawblock/arbitrage-engine/internal/cycle"
	"github.com/rawblock/arbitrage-engine/pkg/models"
)

// Searcher periodically clones the graph's weights under the read lock,
// runs the cycle finder against the clone, and records any profitable
// cycle found: a goroutine-driven periodic loop with a single owned
// Finder reused across ticks.
type Searcher struct {
	graph    *csrgraph.Graph
	finder   *cycle.Finder
	interval time.Duration
	results  *ResultStore
}

// NewSearcher builds a Searcher with hopCap passed straight to a fresh,
// reused cycle.Finder sized for graph.
func NewSearcher(graph *csrgraph.Graph, hopCap int, interval time.Duration, results *ResultStore) *Searcher {
	return &Searcher{
		graph:    graph,
		finder:   cycle.NewFinder(graph.NumTokens(), hopCap),
		interval: interval,
		results:  results,
	}
}

// Run ticks every Interval, running one search per tick, until ctx is
// done. It does NOT perform a final forced search itself — the supervisor
// calls RunOnce explicitly after the writer has fully drained, so "one
// final search after drain" is a property of join order, not of a race
// between this loop and ctx cancellation.
func (s *Searcher) Run(ctx context.Context) {
	log.Println("[Searcher] Starting periodic cycle search...")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Searcher] Shutdown observed, periodic loop exiting")
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce takes one read-lock snapshot, searches it, and records the
// result. Safe to call directly (e.g. the supervisor's forced final
// search) as long as no other goroutine is concurrently driving this same
// Searcher, since Finder's scratch buffers are not safe for concurrent use.
func (s *Searcher) RunOnce() {
	snap := s.graph.Snapshot()
	res, ok := s.finder.Find(snap)
	s.results.IncrementSearches()
	if ok {
		s.results.SetLatest(models.CycleResult{
			ID:          models.NewCycleID(),
			EdgeIndices: res.EdgeIndices,
			TotalCost:   res.TotalCost,
			StartToken:  res.StartToken,
			HopCount:    len(res.EdgeIndices),
		})
	}
}
