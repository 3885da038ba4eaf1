package pipeline

import (
	"time"

	"github.com/rawblock/arbitrage-engine/internal/ratebounds"
)

// Config enumerates every tunable parameter of the pipeline.
type Config struct {
	HopCap          int
	SearchInterval  time.Duration
	MaxCoalesce     int
	CoalesceWindow  time.Duration
	MaxUpdates      int
	RateBounds      ratebounds.Range
	ChannelCapacity int
}
