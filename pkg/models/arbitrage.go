// Package models holds the wire/API-facing value types shared between the
// pipeline, the HTTP surface, and the CLI driver.
package models

import "github.com/google/uuid"

// Edge is a directed conversion rate between two tokens, identified by its
// fixed global index assigned at graph construction.
type Edge struct {
	Index int     `json:"index"`
	From  int     `json:"from"`
	To    int     `json:"to"`
	Rate  float64 `json:"rate"`
}

// RateUpdate is a single producer-emitted record consumed by the writer.
// Rate is linear (not log-cost); the writer converts and validates it.
type RateUpdate struct {
	EdgeIndex int     `json:"edgeIndex"`
	NewRate   float64 `json:"newRate"`
}

// CycleResult is the ordered sequence of edge indices forming a profitable
// cycle, together with its total log-cost and the token it starts from.
// ID is assigned once per discovery so a WebSocket subscriber that
// reconnects mid-stream can tell a repeat push from a genuinely new find.
type CycleResult struct {
	ID          string  `json:"id"`
	EdgeIndices []int   `json:"edgeIndices"`
	TotalCost   float64 `json:"totalCost"` // strictly < 0
	StartToken  int     `json:"startToken"`
	HopCount    int     `json:"hopCount"`
}

// NewCycleID generates a fresh random identifier for a CycleResult.
func NewCycleID() string {
	return uuid.NewString()
}

// Stats are the pipeline's monotonically non-decreasing counters plus the
// most recent profitable cycle, if any.
type Stats struct {
	SearchesPerformed int          `json:"searchesPerformed"`
	UpdatesApplied    int          `json:"updatesApplied"`
	RejectedIndex     int          `json:"rejectedIndex"`
	RejectedNonFinite int          `json:"rejectedNonFinite"`
	UpdatesClamped    int          `json:"updatesClamped"`
	LatestCycle       *CycleResult `json:"latestCycle,omitempty"`
}
