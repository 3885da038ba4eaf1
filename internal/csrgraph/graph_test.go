package csrgraph

import (
	"math"
	"testing"
)

func TestBuildInvariants(t *testing.T) {
	g, err := Build(3, []Edge{
		{From: 0, To: 1, Rate: 2.0},
		{From: 1, To: 0, Rate: 1.0},
		{From: 1, To: 2, Rate: 3.0},
		{From: 2, To: 0, Rate: 1.0},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.rowOffsets[0] != 0 {
		t.Errorf("rowOffsets[0] = %d, want 0", g.rowOffsets[0])
	}
	if g.rowOffsets[g.numTokens] != g.NumEdges() {
		t.Errorf("rowOffsets[N] = %d, want %d", g.rowOffsets[g.numTokens], g.NumEdges())
	}

	n0 := g.Neighbors(0)
	if len(n0) != 1 || n0[0].Dest != 1 {
		t.Errorf("Neighbors(0) = %+v, want single neighbor to token 1", n0)
	}

	n1 := g.Neighbors(1)
	if len(n1) != 2 {
		t.Fatalf("Neighbors(1) = %+v, want 2 neighbors", n1)
	}
}

func TestBuildRejectsOutOfRangeToken(t *testing.T) {
	_, err := Build(2, []Edge{{From: 0, To: 5, Rate: 1.0}})
	if err == nil {
		t.Fatal("expected error for out-of-range destination token")
	}
}

func TestBuildRejectsNonPositiveRate(t *testing.T) {
	cases := []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, rate := range cases {
		_, err := Build(2, []Edge{{From: 0, To: 1, Rate: rate}})
		if err == nil {
			t.Errorf("Build with rate=%v: expected error", rate)
		}
	}
}

func TestParallelEdgesRetained(t *testing.T) {
	g, err := Build(2, []Edge{
		{From: 0, To: 1, Rate: 2.0},
		{From: 0, To: 1, Rate: 3.0},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := g.Neighbors(0)
	if len(n) != 2 {
		t.Fatalf("Neighbors(0) = %+v, want 2 parallel edges retained", n)
	}
}

func TestSetWeightAndSnapshotIsolation(t *testing.T) {
	g, err := Build(2, []Edge{{From: 0, To: 1, Rate: 2.0}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	snap := g.Snapshot()
	originalWeight := snap.Weight(0)

	g.SetWeight(0, -5.0)

	if snap.Weight(0) != originalWeight {
		t.Errorf("snapshot weight changed after SetWeight: got %v, want unchanged %v", snap.Weight(0), originalWeight)
	}

	fresh := g.Snapshot()
	if fresh.Weight(0) != -5.0 {
		t.Errorf("fresh snapshot weight = %v, want -5.0", fresh.Weight(0))
	}
}

func TestSelfLoop(t *testing.T) {
	g, err := Build(1, []Edge{{From: 0, To: 0, Rate: 1.5}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := g.Neighbors(0)
	if len(n) != 1 || n[0].Dest != 0 {
		t.Fatalf("Neighbors(0) = %+v, want single self-loop", n)
	}
	wantWeight := -math.Log(1.5)
	if math.Abs(n[0].Weight-wantWeight) > 1e-12 {
		t.Errorf("self-loop weight = %v, want %v", n[0].Weight, wantWeight)
	}
}
