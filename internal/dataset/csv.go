package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rawblock/arbitrage-engine/internal/csrgraph"
)

// CSVLoader reads a dataset of "from,to,rate" rows, one edge per line. An
// optional header row ("from,to,rate", case-insensitive) is detected and
// skipped. numTokens is inferred as one plus the largest token index seen,
// rather than requiring an explicit count up front.
type CSVLoader struct{}

// NewCSVLoader builds a CSVLoader. It holds no state; the type exists so
// Loader implementations stay swappable via the Loader interface.
func NewCSVLoader() CSVLoader { return CSVLoader{} }

// Load parses path as CSV. Each row must have exactly three fields: two
// non-negative integer token indices and a positive rate.
func (CSVLoader) Load(path string) (int, []csrgraph.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	var edges []csrgraph.Edge
	maxToken := -1
	line := 0

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, fmt.Errorf("dataset: %s: row %d: %w", path, line+1, err)
		}
		line++

		if line == 1 && isHeaderRow(record) {
			continue
		}

		from, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return 0, nil, fmt.Errorf("dataset: %s: row %d: bad from token %q: %w", path, line, record[0], err)
		}
		to, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return 0, nil, fmt.Errorf("dataset: %s: row %d: bad to token %q: %w", path, line, record[1], err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return 0, nil, fmt.Errorf("dataset: %s: row %d: bad rate %q: %w", path, line, record[2], err)
		}

		if from > maxToken {
			maxToken = from
		}
		if to > maxToken {
			maxToken = to
		}
		edges = append(edges, csrgraph.Edge{From: from, To: to, Rate: rate})
	}

	return maxToken + 1, edges, nil
}

func isHeaderRow(record []string) bool {
	if len(record) != 3 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "from") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "to") &&
		strings.EqualFold(strings.TrimSpace(record[2]), "rate")
}
