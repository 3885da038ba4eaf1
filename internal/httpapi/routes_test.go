package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rawblock/arbitrage-engine/pkg/models"
)

type fakeStats struct {
	stats models.Stats
}

func (f fakeStats) Snapshot() models.Stats { return f.stats }

func TestHandleHealth(t *testing.T) {
	s := NewServer(fakeStats{}, NewHub())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleStatsReturnsSnapshot(t *testing.T) {
	want := models.Stats{SearchesPerformed: 7, UpdatesApplied: 3}
	s := NewServer(fakeStats{stats: want}, NewHub())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SearchesPerformed != want.SearchesPerformed || got.UpdatesApplied != want.UpdatesApplied {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHandleLatestCycleNotFound(t *testing.T) {
	s := NewServer(fakeStats{}, NewHub())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cycle", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleLatestCycleFound(t *testing.T) {
	cycle := models.CycleResult{EdgeIndices: []int{0, 1}, TotalCost: -0.5, StartToken: 0, HopCount: 2}
	s := NewServer(fakeStats{stats: models.Stats{LatestCycle: &cycle}}, NewHub())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cycle", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.CycleResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TotalCost != cycle.TotalCost {
		t.Fatalf("got %+v, want %+v", got, cycle)
	}
}
