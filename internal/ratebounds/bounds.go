// Package ratebounds clamps linear conversion rates into a configured range
// and reports whether clamping occurred. It is shared by the pipeline's
// producer (which must never emit an out-of-bounds rate by construction)
// and writer (which clamps survivor updates before applying them).
package ratebounds

import "github.com/rawblock/arbitrage-engine/internal/kernel"

// Range is a linear-domain (rate_lo, rate_hi) pair plus its log-cost
// equivalents, reusing kernel.Bounds so both packages agree on one
// definition of "in range".
type Range struct {
	kernel.Bounds
}

// New validates and builds a Range. Callers (such as the CLI's flag
// parsing) are responsible for surfacing the error to the user.
func New(lo, hi float64) (Range, error) {
	if !(lo > 0) || !(hi >= lo) {
		return Range{}, errInvalidRange(lo, hi)
	}
	return Range{kernel.NewBounds(lo, hi)}, nil
}

// Clamp restricts rate to [Lo, Hi] and reports whether it had to move the
// value (a "clamp event" in spec terms).
func (r Range) Clamp(rate float64) (clamped float64, wasClamped bool) {
	switch {
	case rate < r.Lo:
		return r.Lo, true
	case rate > r.Hi:
		return r.Hi, true
	default:
		return rate, false
	}
}

// InRange reports whether rate already satisfies the bounds without needing
// clamping.
func (r Range) InRange(rate float64) bool {
	return rate >= r.Lo && rate <= r.Hi
}
