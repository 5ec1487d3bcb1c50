package magnetron

import "math"

// delayLine is a fixed-capacity circular buffer supporting both an
// integer-sample read (the oldest sample about to be overwritten) and a
// fractionally-interpolated read using 3-point Lagrange interpolation,
// needed because a waveguide's tuned delay rarely lands on a whole number
// of samples.
type delayLine struct {
	storage []float64
	pos     int
}

func newDelayLine(numSkipBackSamples int) *delayLine {
	if numSkipBackSamples < 1 {
		numSkipBackSamples = 1
	}
	return &delayLine{storage: make([]float64, numSkipBackSamples)}
}

func (d *delayLine) advance() {
	d.pos = (d.pos + 1) % len(d.storage)
}

func (d *delayLine) write(value float64) {
	d.storage[d.pos] = value
}

func (d *delayLine) at(stepsBack int) float64 {
	n := len(d.storage)
	index := ((d.pos-stepsBack)%n + n) % n
	return d.storage[index]
}

func (d *delayLine) getDelayed() float64 {
	return d.at(len(d.storage) - 1)
}

// getDelayedFract reads fractOffset (in [0, 1)) samples further back than
// getDelayed, interpolating between the three neighboring taps.
func (d *delayLine) getDelayedFract(fractOffset float64) float64 {
	base := len(d.storage) - 1
	y0 := d.at(base - 1)
	y1 := d.at(base)
	y2 := d.at(base + 1)
	x := fractOffset
	return y0*(x-1)*(x-2)/2 - y1*x*(x-2) + y2*x*(x-1)/2
}

func (d *delayLine) mute() {
	for i := range d.storage {
		d.storage[i] = 0
	}
}

// onePoleLowPass is the one-pole feedback response used by the comb delay,
// per http://msp.ucsd.edu/techniques/latest/book-html/node140.html.
type onePoleLowPass struct {
	damping float64
	state   float64
}

func (l *onePoleLowPass) setCutoff(cutoffHz, sampleRateHz float64) {
	l.damping = math.Max(0, 1-2*math.Pi*cutoffHz/sampleRateHz)
}

func (l *onePoleLowPass) process(input float64) float64 {
	l.state = (1-l.damping)*input + l.damping*l.state
	return l.state
}

// delaySamples is the one-pole filter's own intrinsic group delay, needed
// to tune the surrounding comb delay so the total round trip matches
// 1/frequency.
func (l *onePoleLowPass) delaySamples() float64 {
	return l.damping / (1 - l.damping)
}

func (l *onePoleLowPass) mute() { l.state = 0 }

// softClip limits |input| to just under 1, staying linear below
// linearUntil and asymptotically approaching 1 above it.
type softClip struct {
	linearUntil float64
}

func (c softClip) process(input float64) float64 {
	absInput := math.Abs(input)
	if absInput <= c.linearUntil {
		return input
	}
	overshoot := absInput - c.linearUntil
	magnitude := c.linearUntil + overshoot/(overshoot/(1-c.linearUntil)+1)
	return math.Copysign(magnitude, input)
}

// allPassDelay corrects the residual fractional delay a comb filter's
// integer-sample delay line can't represent exactly.
type allPassDelay struct {
	feedback float64
	delay    *delayLine
}

func newAllPassDelay(numSkipBackSamples int, feedback float64) *allPassDelay {
	return &allPassDelay{feedback: feedback, delay: newDelayLine(numSkipBackSamples)}
}

func (a *allPassDelay) processFract(fractOffset, input float64) float64 {
	a.delay.advance()
	delayed := a.delay.getDelayedFract(fractOffset)
	sampleToRemember := input + a.feedback*delayed
	a.delay.write(sampleToRemember)
	return delayed - sampleToRemember*a.feedback
}

func (a *allPassDelay) mute() { a.delay.mute() }

// Waveguide is a comb-delay resonator stage: a delay line with a one-pole
// low-pass response and soft-clip limiter in its feedback path, tuned so
// round-trip latency equals 1/frequency, with an all-pass stage correcting
// the residual sub-sample offset.
type Waveguide struct {
	Frequency      *LfSource
	Cutoff         *LfSource
	Feedback       *LfSource
	PosReflectance *LfSource
	NegReflectance *LfSource
	In             InBuffer
	OutBuffer      OutBuffer
	OutLevel       *LfSource

	sampleRate float64

	delay   *delayLine
	lowPass onePoleLowPass
	limiter softClip
	allPass *allPassDelay
}

// NewWaveguide validates in/out against numBuffers and preallocates a
// delay line sized for ringBufferSize samples.
func NewWaveguide(ringBufferSize int, frequency, cutoff, feedback, posReflectance, negReflectance *LfSource, in InBuffer, out OutBuffer, outLevel *LfSource, sampleRate float64, numBuffers int) (*Waveguide, error) {
	if err := validateInBuffer(numBuffers, in); err != nil {
		return nil, err
	}
	if err := validateOutBuffer(numBuffers, out); err != nil {
		return nil, err
	}
	return &Waveguide{
		Frequency: frequency, Cutoff: cutoff, Feedback: feedback,
		PosReflectance: posReflectance, NegReflectance: negReflectance,
		In: in, OutBuffer: out, OutLevel: outLevel,
		sampleRate: sampleRate,
		delay:      newDelayLine(ringBufferSize),
		limiter:    softClip{linearUntil: 0.9},
		allPass:    newAllPassDelay(ringBufferSize, 0.5),
	}, nil
}

// Step implements Stage.
func (w *Waveguide) Step(pool *Pool, ctx *AutomationContext) {
	frequency := w.Frequency.Query(ctx.RenderWindowSecs, ctx)
	cutoff := w.Cutoff.Query(ctx.RenderWindowSecs, ctx)
	feedback := w.Feedback.Query(ctx.RenderWindowSecs, ctx)
	posReflectance := w.PosReflectance.Query(ctx.RenderWindowSecs, ctx)
	negReflectance := w.NegReflectance.Query(ctx.RenderWindowSecs, ctx)
	outLevel := w.OutLevel.Query(ctx.RenderWindowSecs, ctx)

	w.lowPass.setCutoff(cutoff, w.sampleRate)

	totalDelaySamples := w.sampleRate/frequency - w.lowPass.delaySamples()
	if totalDelaySamples < 1 {
		totalDelaySamples = 1
	}
	fractOffset := totalDelaySamples - math.Floor(totalDelaySamples)

	pool.read1AndWrite(w.In, w.OutBuffer, outLevel, func(input float64) float64 {
		w.delay.advance()
		delayed := w.delay.getDelayedFract(fractOffset)
		corrected := w.allPass.processFract(fractOffset, delayed)

		reflectance := negReflectance
		if corrected >= 0 {
			reflectance = posReflectance
		}

		response := w.limiter.process(w.lowPass.process(corrected*reflectance*feedback))
		w.delay.write(input + response)
		return corrected
	})
}
