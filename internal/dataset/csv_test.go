package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCSVLoaderParsesRows(t *testing.T) {
	path := writeTemp(t, "from,to,rate\n0,1,1.01\n1,2,0.99\n2,0,1.0\n")

	n, edges, err := NewCSVLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 3 {
		t.Errorf("numTokens = %d, want 3", n)
	}
	if len(edges) != 3 {
		t.Fatalf("len(edges) = %d, want 3", len(edges))
	}
	if edges[0].From != 0 || edges[0].To != 1 || edges[0].Rate != 1.01 {
		t.Errorf("edges[0] = %+v, want {0 1 1.01}", edges[0])
	}
}

func TestCSVLoaderWithoutHeader(t *testing.T) {
	path := writeTemp(t, "0,1,1.02\n1,0,0.98\n")

	n, edges, err := NewCSVLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Errorf("numTokens = %d, want 2", n)
	}
	if len(edges) != 2 {
		t.Fatalf("len(edges) = %d, want 2", len(edges))
	}
}

func TestCSVLoaderRejectsMalformedRate(t *testing.T) {
	path := writeTemp(t, "from,to,rate\n0,1,not-a-number\n")

	if _, _, err := NewCSVLoader().Load(path); err == nil {
		t.Fatal("expected an error for malformed rate")
	}
}

func TestCSVLoaderMissingFile(t *testing.T) {
	if _, _, err := NewCSVLoader().Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
