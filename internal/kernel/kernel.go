// Package kernel applies a single multiplicative rate adjustment to a
// log-space state variable. It is pure: no locks, no allocation beyond the
// call stack, no error return. Pathological inputs are sanitized rather
// than rejected, so every call either returns a new bounded log-rate
// (ln of the linear value) or the Gated verdict.
package kernel

import "math"

// smallestNormal is the smallest normal positive float64, used as the
// floor for a sanitized non-positive factor.
const smallestNormal = 0x1p-1022

// absoluteQuantumFloor is the minimum linear-domain tick size regardless of
// how small q_hint or ulp(lo) are.
const absoluteQuantumFloor = 1e-12

// nearUnityThreshold is the |factor-1| cutoff below which the ln1p/expm1
// fast path is used instead of a fresh exp/ln round trip.
const nearUnityThreshold = 1.0 / (1 << 20) // 2^-20

// Bounds is the linear-domain clamp range for a rate, with its log-cost
// equivalents precomputed by NewBounds.
type Bounds struct {
	Lo    float64
	Hi    float64
	LoLog float64 // -ln(Hi)
	HiLog float64 // -ln(Lo)
}

// NewBounds builds a Bounds from a linear rate range. Callers guarantee
// 0 < lo <= hi.
func NewBounds(lo, hi float64) Bounds {
	return Bounds{
		Lo:    lo,
		Hi:    hi,
		LoLog: -math.Log(hi),
		HiLog: -math.Log(lo),
	}
}

// Input bundles everything the kernel's single Apply call needs.
type Input struct {
	XLog   float64 // current state, ln of the linear rate, finite, in [ln(Bounds.Lo), ln(Bounds.Hi)]
	Factor float64 // multiplicative update
	Bounds Bounds
	QHint  float64 // requested linear quantum
	EpsLog float64 // gating threshold, log units
}

// Result is the kernel's verdict: either a new bounded log-rate, or Gated
// meaning the candidate move fell below EpsLog and the caller should leave
// its state unchanged.
type Result struct {
	XLogNew float64
	Gated   bool
}

// Apply runs the clamp→multiply→quantize→log→gate pipeline. It never
// panics and never returns a NaN or infinite XLogNew when Gated is false.
func Apply(in Input) Result {
	b := in.Bounds
	// The state is ln(rate), so its range is [ln(Lo), ln(Hi)]; b.LoLog and
	// b.HiLog are log-cost (-ln) bounds and differ from it whenever the
	// bounds are not symmetric around 1.
	lnLo, lnHi := math.Log(b.Lo), math.Log(b.Hi)
	xLog := sanitizeLog(in.XLog, lnLo, lnHi)
	factor := sanitizeFactor(in.Factor)

	q := effectiveQuantum(in.QHint, b.Lo)

	// Exact identity factor is a fast path: skip the exp/quantize/log round
	// trip entirely so repeated no-op application is bit-identical, not
	// merely close. This is what makes Apply(x, 1, ...) idempotent in the
	// strict sense the kernel laws require.
	if factor == 1.0 {
		if in.EpsLog > 0 {
			return Result{Gated: true}
		}
		return Result{XLogNew: xLog}
	}

	// Linear candidate. Near-unity factors use the ln1p-friendly delta form
	// so the subsequent log-space return trip stays precise; away from
	// unity a plain exp(xLog)*factor is fine since we recompute via ln(y)
	// anyway.
	ex := math.Exp(xLog)
	delta := factor - 1
	var y float64
	if math.Abs(delta) < nearUnityThreshold {
		y = ex * (1 + delta)
	} else {
		y = ex * factor
	}

	y = clamp(y, b.Lo, b.Hi)
	y = quantize(y, q)
	y = clamp(y, b.Lo, b.Hi) // quantization can push a boundary value out by up to q/2

	var xLogNew float64
	ratioDelta := y/ex - 1
	if math.Abs(ratioDelta) < nearUnityThreshold {
		xLogNew = xLog + math.Log1p(ratioDelta)
	} else {
		xLogNew = math.Log(y)
	}
	xLogNew = clamp(xLogNew, lnLo, lnHi)

	if math.Abs(xLogNew-xLog) < in.EpsLog {
		return Result{Gated: true}
	}
	return Result{XLogNew: xLogNew}
}

// sanitizeLog snaps NaN/±Inf state to the nearest bound deterministically;
// finite values in range pass through unchanged.
func sanitizeLog(x, lo, hi float64) float64 {
	switch {
	case math.IsNaN(x):
		return lo
	case math.IsInf(x, -1):
		return lo
	case math.IsInf(x, 1):
		return hi
	default:
		return clamp(x, lo, hi)
	}
}

// sanitizeFactor keeps a pathological multiplicative factor from
// propagating NaN/Inf into the pipeline below: NaN snaps to identity (1.0,
// no-op), +Inf to MaxFloat64 (so the candidate clamps to Hi), and -Inf,
// zero or negative to the smallest normal positive value (so the candidate
// clamps to Lo and exp/ln stay finite).
func sanitizeFactor(f float64) float64 {
	if math.IsNaN(f) {
		return 1.0
	}
	if math.IsInf(f, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(f, -1) || f <= 0 {
		return smallestNormal
	}
	return f
}

// effectiveQuantum never goes sub-ULP at the floor and never below the
// absolute floor.
func effectiveQuantum(qHint, lo float64) float64 {
	q := qHint
	if math.IsNaN(q) || q < 0 {
		q = 0
	}
	floor := math.Max(absoluteQuantumFloor, math.Nextafter(lo, math.Inf(1))-lo)
	return math.Max(q, floor)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// quantize snaps y to the nearest multiple of q using ties-to-even, with a
// half-ulp deadband around the exact half to suppress boundary flapping
// from float rounding noise.
func quantize(y, q float64) float64 {
	if q <= 0 {
		return y
	}
	n := y / q
	floor := math.Floor(n)
	frac := n - floor
	band := ulpBand(n)

	switch {
	case frac < 0.5-band:
		return floor * q
	case frac > 0.5+band:
		return (floor + 1) * q
	default:
		// Exact (or deadbanded) tie: round to even.
		if math.Mod(floor, 2) == 0 {
			return floor * q
		}
		return (floor + 1) * q
	}
}

// ulpBand returns half an ULP of n, used as the deadband around an exact
// .5 fraction in quantize.
func ulpBand(n float64) float64 {
	return 0.5 * (math.Nextafter(n, math.Inf(1)) - n)
}
