package ratebounds

import "testing"

func TestNewRejectsInvalidRange(t *testing.T) {
	cases := []struct {
		lo, hi float64
	}{
		{0, 1},
		{-1, 1},
		{2, 1},
	}
	for _, c := range cases {
		if _, err := New(c.lo, c.hi); err == nil {
			t.Errorf("New(%v, %v): expected error", c.lo, c.hi)
		}
	}
}

func TestClamp(t *testing.T) {
	r, err := New(0.5, 2.0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, clamped := r.Clamp(0.1)
	if got != 0.5 || !clamped {
		t.Fatalf("Clamp(0.1) = (%v, %v), want (0.5, true)", got, clamped)
	}

	got, clamped = r.Clamp(5.0)
	if got != 2.0 || !clamped {
		t.Fatalf("Clamp(5.0) = (%v, %v), want (2.0, true)", got, clamped)
	}

	got, clamped = r.Clamp(1.0)
	if got != 1.0 || clamped {
		t.Fatalf("Clamp(1.0) = (%v, %v), want (1.0, false)", got, clamped)
	}
}

func TestInRange(t *testing.T) {
	r, _ := New(0.5, 2.0)
	if !r.InRange(1.0) {
		t.Errorf("InRange(1.0) = false, want true")
	}
	if r.InRange(3.0) {
		t.Errorf("InRange(3.0) = true, want false")
	}
}
