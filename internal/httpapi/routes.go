// Package httpapi is the optional, read-only HTTP and WebSocket status
// surface for the arbitrage pipeline. It owns no graph state: it only
// renders whatever internal/pipeline.ResultStore currently holds.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/arbitrage-engine/pkg/models"
)

// StatsSource is the read surface httpapi needs from the pipeline. It is
// satisfied by *pipeline.ResultStore; declaring it here (rather than
// importing internal/pipeline directly into the handler signatures) keeps
// this package testable against a fake.
type StatsSource interface {
	Snapshot() models.Stats
}

// Server bundles the gin engine, the WebSocket hub, and a handle on the
// pipeline's result store. Read-only surface: no auth, no persistence.
type Server struct {
	engine *gin.Engine
	hub    *Hub
	stats  StatsSource
}

// NewServer builds a Server wired to stats and ready to Subscribe websocket
// clients to hub. hub.Run must be started by the caller before any
// broadcast happens; NewServer does not start it so tests can construct a
// Server without a live hub goroutine.
func NewServer(stats StatsSource, hub *Hub) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{engine: r, hub: hub, stats: stats}

	limiter := NewRateLimiter(120, 20)
	v1 := r.Group("/api/v1")
	v1.Use(limiter.Middleware())
	{
		v1.GET("/health", s.handleHealth)
		v1.GET("/stats", s.handleStats)
		v1.GET("/cycle", s.handleLatestCycle)
		v1.GET("/stream", hub.Subscribe)
	}

	return s
}

// Handler returns the underlying http.Handler, for wiring into an
// http.Server by the caller (cmd/engine).
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "arbitrage-cycle-engine",
	})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleLatestCycle(c *gin.Context) {
	stats := s.stats.Snapshot()
	if stats.LatestCycle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profitable cycle found yet"})
		return
	}
	c.JSON(http.StatusOK, stats.LatestCycle)
}

// BroadcastCycle marshals a newly discovered cycle and pushes it to every
// connected stream subscriber. Wired as the pipeline's onCycle callback by
// cmd/engine.
func BroadcastCycle(hub *Hub) func(models.CycleResult) {
	return func(cycle models.CycleResult) {
		payload, err := json.Marshal(gin.H{
			"type":  "cycle",
			"cycle": cycle,
		})
		if err != nil {
			return
		}
		hub.Broadcast(payload)
	}
}

// Serve runs the HTTP server on addr until ctx is canceled, then shuts it
// down gracefully with a short drain window.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
