package magnetron

import "math"

// OscillatorShape is the waveform an LfSource oscillator variant cycles
// through (distinct from the main Oscillator stage's waveform kind -
// automation oscillators are typically much slower, e.g. vibrato or
// tremolo rates).
type OscillatorShape int

const (
	OscillatorSine OscillatorShape = iota
	OscillatorTriangle
	OscillatorSquare
	OscillatorSawtooth
)

func (k OscillatorShape) valueAt(phase float64) float64 {
	switch k {
	case OscillatorTriangle:
		return math.Abs((phase+0.75-math.Floor(phase+0.75))-0.5)*4 - 1
	case OscillatorSquare:
		if phase < 0.5 {
			return -1
		}
		return 1
	case OscillatorSawtooth:
		p := phase + 0.5
		return (p-math.Floor(p))*2 - 1
	default:
		return math.Sin(phase * 2 * math.Pi)
	}
}

type lfSourceKind int

const (
	lfValue lfSourceKind = iota
	lfRamp
	lfOscillator
	lfController
	lfEnvelope
	lfWaveformPitch
	lfWaveformPeriod
	lfAdd
	lfMul
)

// LfSource is the automation sum type: a tree of scalar-producing nodes,
// queried once per block, before any stage runs. Composite nodes (Add,
// Mul) own their children as pointers. Ramp and Oscillator nodes keep their
// own elapsed time and phase, which every Query advances, so a node shared
// by two composites is advanced once per path per block.
type LfSource struct {
	kind lfSourceKind

	value float64 // lfValue

	rampStart, rampEnd, rampFrom, rampTo float64 // lfRamp
	elapsed                              float64

	oscShape                        OscillatorShape // lfOscillator
	oscFrequency, oscBaseline       float64
	oscAmplitude                    float64
	phase                           float64

	controller       string // lfController
	mapFrom, mapTo   float64

	envelopeName string // lfEnvelope

	left, right *LfSource // lfAdd, lfMul
}

// ConstantLf builds a fixed-value automation source.
func ConstantLf(value float64) *LfSource {
	return &LfSource{kind: lfValue, value: value}
}

// RampLf builds a source that linearly interpolates from `from` at
// elapsed-time `start` to `to` at elapsed-time `end`, clamped to `from`/`to`
// outside that interval.
func RampLf(start, end, from, to float64) *LfSource {
	return &LfSource{kind: lfRamp, rampStart: start, rampEnd: end, rampFrom: from, rampTo: to}
}

// OscillatorLf builds a cyclic automation source oscillating at frequency
// Hz between baseline-amplitude and baseline+amplitude.
func OscillatorLf(shape OscillatorShape, frequency, baseline, amplitude float64) *LfSource {
	return &LfSource{kind: lfOscillator, oscShape: shape, oscFrequency: frequency, oscBaseline: baseline, oscAmplitude: amplitude}
}

// ControllerLf builds a source mapping the named external controller's
// [0, 1] value onto [from, to].
func ControllerLf(controller string, from, to float64) *LfSource {
	return &LfSource{kind: lfController, controller: controller, mapFrom: from, mapTo: to}
}

// EnvelopeLf builds a source mapping a named envelope's [0, 1] amplitude,
// evaluated at the current voice's elapsed time, onto [from, to].
func EnvelopeLf(name string, from, to float64) *LfSource {
	return &LfSource{kind: lfEnvelope, envelopeName: name, mapFrom: from, mapTo: to}
}

// WaveformPitchLf builds a source reporting the current voice's pitch in Hz.
func WaveformPitchLf() *LfSource { return &LfSource{kind: lfWaveformPitch} }

// WaveformPeriodLf builds a source reporting the reciprocal of the current
// voice's pitch.
func WaveformPeriodLf() *LfSource { return &LfSource{kind: lfWaveformPeriod} }

// AddLf sums two sources.
func AddLf(a, b *LfSource) *LfSource { return &LfSource{kind: lfAdd, left: a, right: b} }

// MulLf multiplies two sources.
func MulLf(a, b *LfSource) *LfSource { return &LfSource{kind: lfMul, left: a, right: b} }

// Query evaluates the source for the current block, advancing any internal
// phase/elapsed-time state by renderWindowSecs.
func (s *LfSource) Query(renderWindowSecs float64, ctx *AutomationContext) float64 {
	switch s.kind {
	case lfValue:
		return s.value
	case lfRamp:
		s.elapsed += renderWindowSecs
		switch {
		case s.elapsed <= s.rampStart:
			return s.rampFrom
		case s.elapsed >= s.rampEnd:
			return s.rampTo
		default:
			frac := (s.elapsed - s.rampStart) / (s.rampEnd - s.rampStart)
			return s.rampFrom + frac*(s.rampTo-s.rampFrom)
		}
	case lfOscillator:
		value := s.oscBaseline + s.oscShape.valueAt(s.phase)*s.oscAmplitude
		s.phase += renderWindowSecs * s.oscFrequency
		s.phase -= math.Floor(s.phase)
		return value
	case lfController:
		level := 0.0
		if ctx.Storage != nil {
			level = ctx.Storage.Controller(s.controller)
		}
		return s.mapFrom + level*(s.mapTo-s.mapFrom)
	case lfEnvelope:
		level := 0.0
		if ctx.Envelopes != nil {
			level = ctx.Envelopes.EnvelopeValue(s.envelopeName, ctx.Properties.SecsSincePressed, ctx.Properties.SecsSinceReleased)
		}
		return s.mapFrom + level*(s.mapTo-s.mapFrom)
	case lfWaveformPitch:
		return ctx.pitch().AsHz()
	case lfWaveformPeriod:
		return 1 / ctx.pitch().AsHz()
	case lfAdd:
		return s.left.Query(renderWindowSecs, ctx) + s.right.Query(renderWindowSecs, ctx)
	case lfMul:
		return s.left.Query(renderWindowSecs, ctx) * s.right.Query(renderWindowSecs, ctx)
	default:
		return 0
	}
}
