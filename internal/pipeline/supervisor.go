package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
	"github.com/rawblock/arbitrage-engine/pkg/models"
)

// Run spawns the producer, writer, and searcher tasks against graph, lets
// them operate until duration elapses or stop fires, then signals shutdown
// and joins them in a strict order: producer, then writer (guaranteeing
// the queue drains), then one forced final search — so the returned
// statistics reflect every update the writer accepted. Plain goroutines
// over a shared context, no task-runner framework.
//
// results receives every counter update and the latest cycle as the
// pipeline runs; pass a *ResultStore built with NewResultStore(onCycle) so
// a concurrently running internal/httpapi server can read live Snapshot()
// values, or pass nil to have Run create a private one.
func Run(parent context.Context, graph *csrgraph.Graph, cfg Config, duration time.Duration, stop <-chan struct{}, results *ResultStore) models.Stats {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	go func() {
		select {
		case <-time.After(duration):
			log.Println("[Supervisor] Duration elapsed, signaling shutdown")
		case <-stop:
			log.Println("[Supervisor] External stop received, signaling shutdown")
		case <-parent.Done():
		}
		cancel()
	}()

	if results == nil {
		results = NewResultStore(nil)
	}
	updateCh := make(chan models.RateUpdate, cfg.ChannelCapacity)

	producer := NewProducer(graph, cfg.RateBounds, cfg.MaxUpdates, cfg.SearchInterval, updateCh)
	writer := NewWriter(graph, cfg.RateBounds, updateCh, cfg.MaxCoalesce, cfg.CoalesceWindow, results)
	searcher := NewSearcher(graph, cfg.HopCap, cfg.SearchInterval, results)

	producerDone := make(chan struct{})
	go func() {
		producer.Run(ctx)
		close(producerDone)
	}()

	writerDone := make(chan struct{})
	go func() {
		writer.Run(ctx)
		close(writerDone)
	}()

	searcherDone := make(chan struct{})
	go func() {
		searcher.Run(ctx)
		close(searcherDone)
	}()

	<-ctx.Done() // duration elapsed, stop fired, or parent canceled
	<-producerDone
	close(updateCh) // safe: producer is the only sender, and it has stopped

	<-writerDone

	cancel() // ensure the searcher's periodic loop has exited
	<-searcherDone

	log.Println("[Supervisor] Running forced final search after drain")
	searcher.RunOnce()

	log.Println("[Supervisor] Pipeline terminated")
	return results.Snapshot()
}
