package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log"
	"time"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
	"github.com/rawblock/arbitrage-engine/internal/ratebounds"
	"github.com/rawblock/arbitrage-engine/pkg/models"
)

// Producer emits jittered rate-update records into a bounded channel. It
// never emits an out-of-bounds rate by construction: every rate is drawn
// uniformly from [Bounds.Lo, Bounds.Hi).
type Producer struct {
	graph      *csrgraph.Graph
	bounds     ratebounds.Range
	maxUpdates int
	sleepEvery time.Duration
	out        chan<- models.RateUpdate

	emitted int
}

// NewProducer builds a Producer targeting graph's edge range, sleeping a
// fraction of searchInterval between emissions.
func NewProducer(graph *csrgraph.Graph, bounds ratebounds.Range, maxUpdates int, searchInterval time.Duration, out chan<- models.RateUpdate) *Producer {
	sleep := searchInterval / 10
	if sleep <= 0 {
		sleep = time.Millisecond
	}
	return &Producer{
		graph:      graph,
		bounds:     bounds,
		maxUpdates: maxUpdates,
		sleepEvery: sleep,
		out:        out,
	}
}

// Run emits records until MaxUpdates is reached or ctx is done. It never
// closes its output channel — that is the supervisor's responsibility once
// it has observed Run return.
func (p *Producer) Run(ctx context.Context) {
	log.Println("[Producer] Starting rate-update emitter...")
	ticker := time.NewTicker(p.sleepEvery)
	defer ticker.Stop()

	for p.emitted < p.maxUpdates {
		select {
		case <-ctx.Done():
			log.Printf("[Producer] Shutdown observed after %d emissions", p.emitted)
			return
		case <-ticker.C:
		}

		update := p.nextUpdate()

		select {
		case p.out <- update:
			p.emitted++
		case <-ctx.Done():
			log.Printf("[Producer] Shutdown observed while enqueuing after %d emissions", p.emitted)
			return
		}
	}
	log.Printf("[Producer] Reached quota of %d emissions", p.emitted)
}

// nextUpdate picks a random edge and a jittered rate within bounds.
func (p *Producer) nextUpdate() models.RateUpdate {
	m := p.graph.NumEdges()
	edge := 0
	if m > 0 {
		edge = int(cryptoRandFloat64() * float64(m))
		if edge >= m {
			edge = m - 1
		}
	}

	span := p.bounds.Hi - p.bounds.Lo
	rate := p.bounds.Lo + cryptoRandFloat64()*span

	return models.RateUpdate{EdgeIndex: edge, NewRate: rate}
}

// cryptoRandFloat64 returns a cryptographically random float64 in [0, 1).
func cryptoRandFloat64() float64 {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return 0.5
	}
	n := binary.BigEndian.Uint64(b) >> 11 // 53-bit mantissa
	return float64(n) / float64(1<<53)
}
