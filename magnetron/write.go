package magnetron

import (
	"math"

	"github.com/cbegin/microtune/tuning"
)

// Write renders one block for a single voice: every intermediate buffer is
// cleared, the waveform's stages run in order against the pool, the
// audio-out buffer is read, and the voice's envelope amplitude is ramped
// linearly across the block between its pre- and post-block values,
// clamped to [0, 1] and scaled by velocity, before being accumulated into
// the shared total buffer. noteSuspension slows the release-time clock:
// released time advances by (1 - noteSuspension) of each block, so 1
// freezes it. It returns whether the envelope is still active.
func (p *Pool) Write(wf *Waveform, storage ControllerStorage, noteSuspension float64) bool {
	for _, b := range p.readable.buffers {
		b.clear(p.blockLen)
	}
	p.readable.audioOut.clear(p.blockLen)

	renderWindowSecs := float64(p.blockLen) * p.sampleWidthSecs
	ctx := &AutomationContext{
		RenderWindowSecs: renderWindowSecs,
		PitchBend:        tuning.RatioFromSemitones(p.pitchBend),
		Properties:       &wf.Properties,
		Storage:          storage,
		Envelopes:        wf,
	}

	for _, stage := range wf.Stages {
		stage.Step(p, ctx)
	}

	audioOut := p.readable.audioOut.read(p.readable.zeros)

	startAmp := wf.Envelope.AmplitudeAt(wf.Properties.SecsSincePressed, wf.Properties.SecsSinceReleased)

	wf.Properties.SecsSincePressed += renderWindowSecs
	if wf.Properties.Released {
		wf.Properties.SecsSinceReleased += renderWindowSecs * (1 - noteSuspension)
	}

	endAmp := wf.Envelope.AmplitudeAt(wf.Properties.SecsSincePressed, wf.Properties.SecsSinceReleased)
	velocity := wf.Properties.Velocity

	n := p.blockLen
	p.readable.total.write(func(i int) float64 {
		frac := 0.0
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		amp := startAmp + frac*(endAmp-startAmp)
		amp = math.Max(0, math.Min(1, amp)) * velocity
		return audioOut[i] * amp
	}, n)

	return wf.Envelope.IsActive(wf.Properties.SecsSinceReleased)
}
