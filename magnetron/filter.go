package magnetron

import "math"

// FilterKind selects a Filter stage's transfer function.
type FilterKind int

const (
	FilterCopy FilterKind = iota
	FilterCube
	FilterClip
	FilterLowPass1
	FilterHighPass1
	FilterLowPass2
	FilterHighPass2
	FilterResonance
)

// Filter is a single-input, single-output stage. Clip takes a Limit
// source; the biquad-like kinds take Cutoff (and, for LowPass2/HighPass2,
// Quality); Resonance takes Resonance and Damping. Unused parameters for a
// given Kind are ignored.
type Filter struct {
	Kind      FilterKind
	In        InBuffer
	OutBuffer OutBuffer
	OutLevel  *LfSource

	Limit      *LfSource
	Cutoff     *LfSource
	Quality    *LfSource
	Resonance  *LfSource
	Damping    *LfSource

	out, dout float64
	lastIn    float64
	biquadX1, biquadX2, biquadY1, biquadY2 float64
}

// NewFilter validates in/out against numBuffers.
func NewFilter(kind FilterKind, in InBuffer, out OutBuffer, outLevel *LfSource, numBuffers int) (*Filter, error) {
	if err := validateInBuffer(numBuffers, in); err != nil {
		return nil, err
	}
	if err := validateOutBuffer(numBuffers, out); err != nil {
		return nil, err
	}
	return &Filter{Kind: kind, In: in, OutBuffer: out, OutLevel: outLevel}, nil
}

// Step implements Stage.
func (f *Filter) Step(pool *Pool, ctx *AutomationContext) {
	outLevel := f.OutLevel.Query(ctx.RenderWindowSecs, ctx)
	sampleWidth := pool.sampleWidthSecs

	switch f.Kind {
	case FilterCube:
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 { return s * s * s })
	case FilterClip:
		limit := f.Limit.Query(ctx.RenderWindowSecs, ctx)
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 {
			return math.Max(-limit, math.Min(limit, s))
		})
	case FilterLowPass1:
		cutoff := f.Cutoff.Query(ctx.RenderWindowSecs, ctx)
		alpha := 1 / (1 + 1/(2*math.Pi*sampleWidth*cutoff))
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 {
			f.out += alpha * (s - f.out)
			return f.out
		})
	case FilterHighPass1:
		cutoff := f.Cutoff.Query(ctx.RenderWindowSecs, ctx)
		alpha := 1 / (1 + 2*math.Pi*sampleWidth*cutoff)
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 {
			f.out = alpha * (f.out + s - f.lastIn)
			f.lastIn = s
			return f.out
		})
	case FilterLowPass2, FilterHighPass2:
		cutoff := f.Cutoff.Query(ctx.RenderWindowSecs, ctx)
		quality := f.Quality.Query(ctx.RenderWindowSecs, ctx)
		b0, b1, b2, a1, a2 := biquadCoefficients(f.Kind == FilterLowPass2, cutoff, quality, 1/sampleWidth)
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 {
			y := b0*s + b1*f.biquadX1 + b2*f.biquadX2 - a1*f.biquadY1 - a2*f.biquadY2
			f.biquadX2, f.biquadX1 = f.biquadX1, s
			f.biquadY2, f.biquadY1 = f.biquadY1, y
			return y
		})
	case FilterResonance:
		resonance := f.Resonance.Query(ctx.RenderWindowSecs, ctx)
		damping := f.Damping.Query(ctx.RenderWindowSecs, ctx)
		// Filter is unstable when d_phase is larger than a quarter period.
		alpha := math.Min(resonance*sampleWidth, 0.25)
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 {
			d2outDt2 := s - f.out - damping*f.dout
			f.dout += d2outDt2 * 2 * math.Pi * alpha
			f.out += f.dout * 2 * math.Pi * alpha
			return f.out
		})
	default: // FilterCopy
		pool.read1AndWrite(f.In, f.OutBuffer, outLevel, func(s float64) float64 { return s })
	}
}

// biquadCoefficients implements the RBJ low/high pass cookbook formula.
func biquadCoefficients(lowPass bool, cutoff, quality, sampleRate float64) (b0, b1, b2, a1, a2 float64) {
	omega := 2 * math.Pi * cutoff / sampleRate
	sinOmega, cosOmega := math.Sin(omega), math.Cos(omega)
	alpha := sinOmega / (2 * quality)

	var rb0, rb1, rb2, ra0, ra1, ra2 float64
	if lowPass {
		rb1 = 1 - cosOmega
		rb0, rb2 = rb1/2, rb1/2
	} else {
		rb1 = -(1 + cosOmega)
		rb0, rb2 = -rb1/2, -rb1/2
	}
	ra0 = 1 + alpha
	ra1 = -2 * cosOmega
	ra2 = 1 - alpha

	return rb0 / ra0, rb1 / ra0, rb2 / ra0, ra1 / ra0, ra2 / ra0
}
