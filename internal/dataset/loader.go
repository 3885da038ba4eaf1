// Package dataset is the external collaborator that turns a file on disk
// into the (numTokens, edges) pair csrgraph.Build expects. It performs no
// validation beyond parsing — csrgraph.Build is the single source of truth
// for what makes a well-formed graph.
package dataset

import "github.com/rawblock/arbitrage-engine/internal/csrgraph"

// Loader reads a dataset at path and returns the token count and edge list
// to build a csrgraph.Graph from.
type Loader interface {
	Load(path string) (numTokens int, edges []csrgraph.Edge, err error)
}
