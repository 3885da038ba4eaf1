package pipeline

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
	"github.com/rawblock/arbitrage-engine/internal/ratebounds"
	"github.com/rawblock/arbitrage-engine/pkg/models"
)

// Writer coalesces rate updates and applies validated, clamped batches to
// the graph under a single write-lock acquisition. Grounded on the
// teacher's internal/api.Hub.Run channel-consumer loop, generalized from
// "fan a message out to every client" to "coalesce a window of messages,
// then apply them as one unit."
type Writer struct {
	graph          *csrgraph.Graph
	bounds         ratebounds.Range
	in             <-chan models.RateUpdate
	maxCoalesce    int
	coalesceWindow time.Duration
	results        *ResultStore
}

// NewWriter builds a Writer draining in, applying validated batches to
// graph, and recording counters to results.
func NewWriter(graph *csrgraph.Graph, bounds ratebounds.Range, in <-chan models.RateUpdate, maxCoalesce int, coalesceWindow time.Duration, results *ResultStore) *Writer {
	if maxCoalesce < 1 {
		maxCoalesce = 1
	}
	return &Writer{
		graph:          graph,
		bounds:         bounds,
		in:             in,
		maxCoalesce:    maxCoalesce,
		coalesceWindow: coalesceWindow,
		results:        results,
	}
}

// Run blocks for the first record of each batch, drains up to
// MaxCoalesce-1 more within CoalesceWindow, validates and applies, then
// repeats. It returns once in is closed and fully drained.
func (w *Writer) Run(ctx context.Context) {
	log.Println("[Writer] Starting batch writer...")
	for {
		first, ok := <-w.in
		if !ok {
			log.Println("[Writer] Queue closed, writer exiting")
			return
		}

		batch := make([]models.RateUpdate, 1, w.maxCoalesce)
		batch[0] = first

		if w.maxCoalesce > 1 {
			batch = w.drainWindow(batch)
		}

		w.applyBatch(batch)
	}
}

// drainWindow collects up to MaxCoalesce-1 additional records within
// CoalesceWindow of the first item's arrival, or until the channel closes.
func (w *Writer) drainWindow(batch []models.RateUpdate) []models.RateUpdate {
	deadline := time.NewTimer(w.coalesceWindow)
	defer deadline.Stop()

	for len(batch) < w.maxCoalesce {
		select {
		case u, ok := <-w.in:
			if !ok {
				return batch
			}
			batch = append(batch, u)
		case <-deadline.C:
			return batch
		}
	}
	return batch
}

// applyBatch validates every record (bumping rejection counters for
// failures, which are dropped), clamps survivors to Bounds, converts to
// log-cost, and applies the whole surviving set to the graph under one
// write-lock acquisition so no search observes a partially applied batch.
func (w *Writer) applyBatch(batch []models.RateUpdate) {
	m := w.graph.NumEdges()
	updates := make([]csrgraph.WeightUpdate, 0, len(batch))

	var rejectedIndex, rejectedNonFinite, clamped int
	for _, u := range batch {
		if u.EdgeIndex < 0 || u.EdgeIndex >= m {
			rejectedIndex++
			continue
		}
		if math.IsNaN(u.NewRate) || math.IsInf(u.NewRate, 0) {
			rejectedNonFinite++
			continue
		}

		rate := u.NewRate
		if c, wasClamped := w.bounds.Clamp(rate); wasClamped {
			rate = c
			clamped++
		}

		updates = append(updates, csrgraph.WeightUpdate{
			Edge:   u.EdgeIndex,
			Weight: -math.Log(rate),
		})
	}

	if len(updates) > 0 {
		w.graph.ApplyBatch(updates)
	}

	w.results.RecordBatch(len(updates), rejectedIndex, rejectedNonFinite, clamped)
}
