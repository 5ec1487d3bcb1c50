package magnetron

import "github.com/cbegin/microtune/tuning"

// ControllerStorage resolves the current value of a named external
// controller (e.g. "pressure", "breath", "modulation", a raw MIDI CC
// number) for LfSource's Controller variant. Per-voice state and
// engine-wide state both implement it.
type ControllerStorage interface {
	Controller(name string) float64
}

// WaveformProperties is the per-voice state an automation source reads:
// the voice's current pitch and velocity, and how long it has been held
// or released.
type WaveformProperties struct {
	Pitch             tuning.Pitch
	Velocity          float64
	SecsSincePressed  float64
	SecsSinceReleased float64
	Released          bool
}

// EnvelopeLookup evaluates a named envelope at the given elapsed times,
// used by LfSource's envelope-reference variant.
type EnvelopeLookup interface {
	EnvelopeValue(name string, secsSincePressed, secsSinceReleased float64) float64
}

// AutomationContext is the read-only state every LfSource and Stage sees
// for the duration of one block. It is rebuilt once per Pool.Write call
// and never mutated afterwards.
type AutomationContext struct {
	RenderWindowSecs float64
	PitchBend        tuning.Ratio
	Properties       *WaveformProperties
	Storage          ControllerStorage
	Envelopes        EnvelopeLookup
}

// pitch returns the voice's current pitch, with the context's pitch bend
// applied.
func (c *AutomationContext) pitch() tuning.Pitch {
	return c.Properties.Pitch.Times(c.PitchBend)
}
