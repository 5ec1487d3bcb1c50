package magnetron

import "github.com/cbegin/microtune/tuning"

// Waveform is one voice's live state: its stage graph (cloned from a
// spec), the envelopes it can reference by name, and its mutable
// properties (pitch, velocity, elapsed time).
type Waveform struct {
	Stages     []Stage
	Envelope   *Envelope
	Envelopes  map[string]*Envelope
	Properties WaveformProperties

	pressure float64
	breath   float64
}

// NewWaveform builds a voice at the given pitch/velocity, freshly pressed.
func NewWaveform(stages []Stage, envelope *Envelope, envelopes map[string]*Envelope, pitch tuning.Pitch, velocity float64) *Waveform {
	return &Waveform{
		Stages:    stages,
		Envelope:  envelope,
		Envelopes: envelopes,
		Properties: WaveformProperties{
			Pitch:    pitch,
			Velocity: velocity,
		},
	}
}

// Release marks the voice as having received a note-off; its envelope
// starts decaying toward silence instead of holding.
func (w *Waveform) Release() {
	w.Properties.Released = true
}

// Repitch updates a still-sounding voice's target pitch, used for legato.
func (w *Waveform) Repitch(pitch tuning.Pitch) {
	w.Properties.Pitch = pitch
}

// EnvelopeValue implements EnvelopeLookup, letting an LfSource reference
// any envelope the waveform spec named, not only the voice's amplitude
// envelope.
func (w *Waveform) EnvelopeValue(name string, secsSincePressed, secsSinceReleased float64) float64 {
	env, ok := w.Envelopes[name]
	if !ok {
		return 0
	}
	return env.AmplitudeAt(secsSincePressed, secsSinceReleased)
}

// Controller implements ControllerStorage for per-voice controllers such
// as key pressure and breath; it falls through to zero for anything not
// explicitly tracked here, leaving engine-wide controllers to a wrapping
// storage.
func (w *Waveform) Controller(name string) float64 {
	switch name {
	case "pressure":
		return w.pressure
	case "breath":
		return w.breath
	default:
		return 0
	}
}

// SetPressure updates the voice's continuous key-pressure controller.
func (w *Waveform) SetPressure(value float64) { w.pressure = value }

// SetBreath updates the voice's continuous breath controller.
func (w *Waveform) SetBreath(value float64) { w.breath = value }
