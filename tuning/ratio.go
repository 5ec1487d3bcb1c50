// Package tuning implements the scale and keyboard-mapping primitives that
// turn an arbitrary periodic or non-periodic tuning into concrete pitches,
// plus the generator-chain math and channel tuners built on top of it.
package tuning

import "math"

// negligibleRatio is the fixed small log-ratio threshold used throughout
// this package instead of exact float equality. Changing it changes which
// degree wins a collision in Scl and is a compatibility break.
const negligibleRatio = 1e-6

// Ratio is a strictly positive real interval, stored as its base-2
// logarithm, i.e. its size in octaves.
type Ratio struct {
	logOctaves float64
}

// Octave is the 2/1 interval.
var Octave = Ratio{logOctaves: 1}

// RatioFromFloat builds a Ratio from a plain frequency multiplier (e.g. 1.5
// for a just fifth). Panics are avoided; a non-positive value collapses to
// the unison, matching the "strictly positive" invariant by construction.
func RatioFromFloat(value float64) Ratio {
	if value <= 0 {
		return Ratio{}
	}
	return Ratio{logOctaves: math.Log2(value)}
}

// RatioFromCents builds a Ratio from a number of cents (1/100 semitone).
func RatioFromCents(cents float64) Ratio {
	return Ratio{logOctaves: cents / 1200}
}

// RatioFromSemitones builds a Ratio from a number of 12-EDO semitones.
func RatioFromSemitones(semitones float64) Ratio {
	return Ratio{logOctaves: semitones / 12}
}

// RatioFromOctaves builds a Ratio directly from its log2 value.
func RatioFromOctaves(octaves float64) Ratio {
	return Ratio{logOctaves: octaves}
}

// RatioFromFraction builds a Ratio from a rational number n/d.
func RatioFromFraction(n, d uint64) Ratio {
	return RatioFromFloat(float64(n) / float64(d))
}

// AsFloat returns the plain frequency multiplier.
func (r Ratio) AsFloat() float64 { return math.Exp2(r.logOctaves) }

// AsOctaves returns the log2 value directly.
func (r Ratio) AsOctaves() float64 { return r.logOctaves }

// AsCents returns the interval in cents.
func (r Ratio) AsCents() float64 { return r.logOctaves * 1200 }

// AsSemitones returns the interval in 12-EDO semitones.
func (r Ratio) AsSemitones() float64 { return r.logOctaves * 12 }

// Compose stacks two intervals (multiplies the underlying ratios).
func (r Ratio) Compose(other Ratio) Ratio {
	return Ratio{logOctaves: r.logOctaves + other.logOctaves}
}

// Inv returns the inverted interval (reciprocal ratio).
func (r Ratio) Inv() Ratio {
	return Ratio{logOctaves: -r.logOctaves}
}

// Repeated stacks the interval n times (n may be negative or zero).
func (r Ratio) Repeated(n int) Ratio {
	return Ratio{logOctaves: r.logOctaves * float64(n)}
}

// DividedIntoEqualSteps splits the interval into n equal steps and returns
// the size of one step.
func (r Ratio) DividedIntoEqualSteps(n float64) Ratio {
	return Ratio{logOctaves: r.logOctaves / n}
}

// Stretched composes r with by (stacks by on top of r). It is an alias of
// Compose kept under this name because that's the vocabulary the scale
// lookup code uses ("stretch the repeated period by the item's ratio").
func (r Ratio) Stretched(by Ratio) Ratio {
	return r.Compose(by)
}

// NumEqualStepsOf returns how many copies of step fit into r (may be
// fractional).
func (r Ratio) NumEqualStepsOf(step Ratio) float64 {
	if step.logOctaves == 0 {
		return math.Inf(1)
	}
	return r.logOctaves / step.logOctaves
}

// DeviationFrom returns the interval you'd need to stack onto other to
// reach r, i.e. r.Compose(other.Inv()).
func (r Ratio) DeviationFrom(other Ratio) Ratio {
	return Ratio{logOctaves: r.logOctaves - other.logOctaves}
}

// IsNegligible reports whether the interval is smaller than the fixed
// tolerance used for deduplication and tie-breaking across this package.
func (r Ratio) IsNegligible() bool {
	return math.Abs(r.logOctaves) < negligibleRatio
}

// TotalCmp provides a total order over ratios (including degenerate
// values), used when sorting Scl's pitch table.
func (r Ratio) TotalCmp(other Ratio) int {
	switch {
	case r.logOctaves < other.logOctaves:
		return -1
	case r.logOctaves > other.logOctaves:
		return 1
	default:
		return 0
	}
}

// NearestFraction finds a rational approximation num/den using a
// continued-fraction expansion, accepting a convergent only when the odd
// part of its denominator (den with factors of two divided out) is at most
// oddLimit; den itself may be even and larger than oddLimit.
func (r Ratio) NearestFraction(oddLimit uint64) (num, den uint64) {
	value := r.AsFloat()
	bestNum, bestDen := uint64(1), uint64(1)
	bestErr := math.Abs(value - 1)

	n0, d0 := uint64(0), uint64(1)
	n1, d1 := uint64(1), uint64(0)
	x := value
	for i := 0; i < 32; i++ {
		a := uint64(math.Floor(x))
		n2 := a*n1 + n0
		d2 := a*d1 + d0
		oddDen := d2
		for oddDen%2 == 0 && oddDen > 1 {
			oddDen /= 2
		}
		if oddDen <= oddLimit && d2 > 0 {
			approxErr := math.Abs(value - float64(n2)/float64(d2))
			if approxErr < bestErr {
				bestErr = approxErr
				bestNum, bestDen = n2, d2
			}
		}
		if d2 == 0 {
			break
		}
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
		n0, d0 = n1, d1
		n1, d1 = n2, d2
	}
	return bestNum, bestDen
}
