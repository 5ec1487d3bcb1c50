package magnetron

import "math"

// WaveformKind is the core oscillator waveform, per spec.
type WaveformKind int

const (
	Sine WaveformKind = iota
	SineCubed
	Triangle
	Square
	Sawtooth
)

func (k WaveformKind) valueAt(phase float64) float64 {
	switch k {
	case SineCubed:
		sin := math.Sin(phase * 2 * math.Pi)
		return sin * sin * sin
	case Triangle:
		return math.Abs(wrap01(phase+0.75)-0.5)*4 - 1
	case Square:
		return math.Copysign(1, phase-0.5)
	case Sawtooth:
		return wrap01(phase+0.5)*2 - 1
	default:
		return math.Sin(phase * 2 * math.Pi)
	}
}

func wrap01(v float64) float64 {
	v -= math.Floor(v)
	if v < 0 {
		v += 1
	}
	return v
}

// ModulationMode selects how an Oscillator stage's phase is perturbed by
// another buffer's signal.
type ModulationMode int

const (
	// ModulationNone runs the oscillator unmodulated.
	ModulationNone ModulationMode = iota
	// ModulationByPhase adds the modulating buffer's sample directly to
	// the phase before evaluating the waveform.
	ModulationByPhase
	// ModulationByFrequency adds the modulating buffer's sample to the
	// frequency before advancing the phase.
	ModulationByFrequency
)

// Oscillator is a stage producing a periodic waveform at a given
// (possibly automated) frequency, optionally phase- or frequency-modulated
// by another buffer.
type Oscillator struct {
	Kind       WaveformKind
	Frequency  *LfSource
	Modulation ModulationMode
	ModBuffer  InBuffer
	OutBuffer  OutBuffer
	OutLevel   *LfSource

	phase float64
}

// NewOscillator validates out and, for a modulated oscillator, modBuffer
// against numBuffers.
func NewOscillator(kind WaveformKind, frequency *LfSource, modulation ModulationMode, modBuffer InBuffer, out OutBuffer, outLevel *LfSource, numBuffers int) (*Oscillator, error) {
	if err := validateOutBuffer(numBuffers, out); err != nil {
		return nil, err
	}
	if modulation != ModulationNone {
		if err := validateInBuffer(numBuffers, modBuffer); err != nil {
			return nil, err
		}
	}
	return &Oscillator{Kind: kind, Frequency: frequency, Modulation: modulation, ModBuffer: modBuffer, OutBuffer: out, OutLevel: outLevel}, nil
}

// Step implements Stage.
func (o *Oscillator) Step(pool *Pool, ctx *AutomationContext) {
	frequency := o.Frequency.Query(ctx.RenderWindowSecs, ctx)
	outLevel := o.OutLevel.Query(ctx.RenderWindowSecs, ctx)
	sampleWidth := pool.sampleWidthSecs

	switch o.Modulation {
	case ModulationByPhase:
		pool.read1AndWrite(o.ModBuffer, o.OutBuffer, outLevel, func(mod float64) float64 {
			o.phase = wrap01(o.phase + sampleWidth*frequency)
			return o.Kind.valueAt(wrap01(o.phase + mod))
		})
	case ModulationByFrequency:
		pool.read1AndWrite(o.ModBuffer, o.OutBuffer, outLevel, func(mod float64) float64 {
			o.phase = wrap01(o.phase + sampleWidth*(frequency+mod))
			return o.Kind.valueAt(o.phase)
		})
	default:
		pool.read0AndWrite(o.OutBuffer, outLevel, func() float64 {
			o.phase = wrap01(o.phase + sampleWidth*frequency)
			return o.Kind.valueAt(o.phase)
		})
	}
}
