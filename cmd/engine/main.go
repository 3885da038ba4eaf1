package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
	"github.com/rawblock/arbitrage-engine/internal/dataset"
	"github.com/rawblock/arbitrage-engine/internal/httpapi"
	"github.com/rawblock/arbitrage-engine/internal/pipeline"
	"github.com/rawblock/arbitrage-engine/internal/ratebounds"
	"github.com/rawblock/arbitrage-engine/pkg/models"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to a from,to,rate CSV dataset (required)")
	hopCap := flag.Int("hop-cap", 6, "maximum hop count searched per cycle")
	searchInterval := flag.Duration("search-interval", 2*time.Second, "time between periodic cycle searches")
	maxCoalesce := flag.Int("max-coalesce", 8, "maximum updates coalesced into one write-lock batch")
	coalesceWindow := flag.Duration("coalesce-window", 50*time.Millisecond, "time window to coalesce additional updates")
	maxUpdates := flag.Int("max-updates", 10_000, "maximum number of rate updates the producer emits")
	rateLo := flag.Float64("rate-lo", 1e-6, "lower bound for accepted rates")
	rateHi := flag.Float64("rate-hi", 1e6, "upper bound for accepted rates")
	channelCapacity := flag.Int("channel-capacity", 256, "bounded capacity of the update queue")
	duration := flag.Duration("duration", 30*time.Second, "wall-clock duration to run the pipeline")
	httpAddr := flag.String("http-addr", "", "optional address to serve the read-only status API on, e.g. :8080")
	flag.Parse()

	if *datasetPath == "" {
		log.Fatal("FATAL: --dataset is required")
	}

	log.Println("Starting arbitrage cycle engine...")

	numTokens, edges, err := dataset.NewCSVLoader().Load(*datasetPath)
	if err != nil {
		log.Fatalf("FATAL: failed to load dataset: %v", err)
	}

	graph, err := csrgraph.Build(numTokens, edges)
	if err != nil {
		log.Fatalf("FATAL: failed to build graph: %v", err)
	}
	log.Printf("Loaded graph: %d tokens, %d edges", graph.NumTokens(), graph.NumEdges())

	bounds, err := ratebounds.New(*rateLo, *rateHi)
	if err != nil {
		log.Fatalf("FATAL: invalid rate bounds: %v", err)
	}

	cfg := pipeline.Config{
		HopCap:          *hopCap,
		SearchInterval:  *searchInterval,
		MaxCoalesce:     *maxCoalesce,
		CoalesceWindow:  *coalesceWindow,
		MaxUpdates:      *maxUpdates,
		RateBounds:      bounds,
		ChannelCapacity: *channelCapacity,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := make(chan struct{})

	if *httpAddr == "" {
		stats := pipeline.Run(ctx, graph, cfg, *duration, stop, nil)
		printStats(stats)
		return
	}

	// With an HTTP surface requested, run the pipeline and the status
	// server concurrently: whichever exits first cancels the shared
	// context the other is watching.
	hub := httpapi.NewHub()
	go hub.Run()
	defer hub.Close()

	results := pipeline.NewResultStore(httpapi.BroadcastCycle(hub))
	server := httpapi.NewServer(results, hub)

	g, gctx := errgroup.WithContext(ctx)
	var finalStats models.Stats

	g.Go(func() error {
		finalStats = pipeline.Run(gctx, graph, cfg, *duration, stop, results)
		cancel()
		return nil
	})
	g.Go(func() error {
		return httpapi.Serve(gctx, *httpAddr, server.Handler())
	})

	if err := g.Wait(); err != nil {
		log.Printf("WARNING: httpapi server reported: %v", err)
	}

	printStats(finalStats)
}

func printStats(stats models.Stats) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		log.Printf("WARNING: failed to encode final stats: %v", err)
	}
}
