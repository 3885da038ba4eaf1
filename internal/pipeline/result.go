package pipeline

import (
	"sync"

	"github.com/rawblock/arbitrage-engine/pkg/models"
)

// resultMaxHistory bounds the recent-cycle ring to prevent unbounded growth
// across a long-running pipeline.
const resultMaxHistory = 64

// ResultStore is the pipeline-level shared state: counters plus the latest
// profitable cycle, protected by a short-lived RWMutex with no nested
// acquisitions, a bounded history ring, and an optional broadcast callback
// invoked outside the lock.
type ResultStore struct {
	mu      sync.RWMutex
	stats   models.Stats
	recent  []models.CycleResult
	onCycle func(models.CycleResult) // optional broadcast, e.g. internal/httpapi's hub
}

// NewResultStore builds an empty store. onCycle may be nil.
func NewResultStore(onCycle func(models.CycleResult)) *ResultStore {
	return &ResultStore{onCycle: onCycle}
}

// IncrementSearches bumps the searches-performed counter.
func (r *ResultStore) IncrementSearches() {
	r.mu.Lock()
	r.stats.SearchesPerformed++
	r.mu.Unlock()
}

// RecordBatch bumps the applied/rejected/clamped counters after the writer
// processes one coalesced batch.
func (r *ResultStore) RecordBatch(applied, rejectedIndex, rejectedNonFinite, clamped int) {
	r.mu.Lock()
	r.stats.UpdatesApplied += applied
	r.stats.RejectedIndex += rejectedIndex
	r.stats.RejectedNonFinite += rejectedNonFinite
	r.stats.UpdatesClamped += clamped
	r.mu.Unlock()
}

// SetLatest replaces the latest-result slot with a newly found profitable
// cycle and appends it to the bounded recent-history ring. The broadcast
// callback, if any, runs after the lock is released, so a slow subscriber
// can never stall the pipeline's own locking.
func (r *ResultStore) SetLatest(res models.CycleResult) {
	r.mu.Lock()
	r.stats.LatestCycle = &res
	r.recent = append(r.recent, res)
	if len(r.recent) > resultMaxHistory {
		r.recent = r.recent[len(r.recent)-resultMaxHistory:]
	}
	cb := r.onCycle
	r.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// Snapshot returns a copy of the current statistics, safe for the caller
// to retain or serialize.
func (r *ResultStore) Snapshot() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.stats
	if r.stats.LatestCycle != nil {
		cycle := *r.stats.LatestCycle
		out.LatestCycle = &cycle
	}
	return out
}
