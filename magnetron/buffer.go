// Package magnetron implements the DSP buffer pool, automation sources,
// stage graph, and voice engine that turn a tuned pitch stream into audio.
package magnetron

import "github.com/cbegin/microtune/internal/logging"

// RingConsumer is the external audio-in source a Pool drains during
// SetAudioIn: a lock-free ring buffer of interleaved stereo float64 pairs.
// Len reports how many individual samples (not pairs) are currently
// available; Pop removes and returns the oldest one.
type RingConsumer interface {
	Len() int
	Pop() (float64, bool)
}

// waveformBuffer is a fixed-capacity scratch buffer with a logical length
// and a dirty flag. Dirty means "cleared but never written": reading a
// dirty buffer yields silence, and the first write to it overwrites rather
// than accumulates.
type waveformBuffer struct {
	storage []float64
	len     int
	dirty   bool
}

func newWaveformBuffer(capacity int) *waveformBuffer {
	return &waveformBuffer{storage: make([]float64, capacity)}
}

func (b *waveformBuffer) clear(length int) {
	b.len = length
	b.dirty = true
}

func (b *waveformBuffer) read(zeros []float64) []float64 {
	if b.dirty {
		return zeros[:b.len]
	}
	return b.storage[:b.len]
}

func (b *waveformBuffer) write(samples func(int) float64, n int) {
	if b.dirty {
		for i := 0; i < n; i++ {
			b.storage[i] = samples(i)
		}
		b.dirty = false
		return
	}
	for i := 0; i < n; i++ {
		b.storage[i] += samples(i)
	}
}

// OutBuffer names a stage's destination: one of the pool's numbered
// intermediate buffers, or the distinguished audio-out buffer.
type OutBuffer struct {
	index    int
	audioOut bool
}

// Buffer names intermediate buffer index.
func Buffer(index int) OutBuffer { return OutBuffer{index: index} }

// AudioOut names the distinguished audio-out destination.
func AudioOut() OutBuffer { return OutBuffer{audioOut: true} }

// InBuffer names a stage's source: one of the pool's numbered intermediate
// buffers, or the distinguished audio-in buffer.
type InBuffer struct {
	index   int
	audioIn bool
}

// FromBuffer names intermediate buffer index as a read source.
func FromBuffer(index int) InBuffer { return InBuffer{index: index} }

// AudioIn names the distinguished audio-in source.
func AudioIn() InBuffer { return InBuffer{audioIn: true} }

type readableBuffers struct {
	audioIn  *waveformBuffer
	buffers  []*waveformBuffer
	audioOut *waveformBuffer
	total    *waveformBuffer
	zeros    []float64
}

func (r *readableBuffers) outBufferRef(out OutBuffer) **waveformBuffer {
	if out.audioOut {
		return &r.audioOut
	}
	if out.index < 0 || out.index >= len(r.buffers) {
		panicOutOfRange(out.index)
	}
	return &r.buffers[out.index]
}

func panicOutOfRange(index int) {
	logging.Default().Error("stage buffer index out of range", "index", index)
	panic("magnetron: buffer index out of range; allocate more waveform buffers")
}

func (r *readableBuffers) read(in InBuffer) []float64 {
	if in.audioIn {
		return r.audioIn.read(r.zeros)
	}
	if in.index < 0 || in.index >= len(r.buffers) {
		panicOutOfRange(in.index)
	}
	return r.buffers[in.index].read(r.zeros)
}

func (r *readableBuffers) swap(out OutBuffer, other **waveformBuffer) {
	ref := r.outBufferRef(out)
	*ref, *other = *other, *ref
}

// Pool is the fixed set of scratch buffers a waveform's stages read from
// and write into during one block. Exactly one buffer is ever "writeable"
// at a time - the one a stage currently targets - everything else is only
// readable; rwAccessSplit enforces that split by swapping the target
// buffer into a single shared scratch slot for the duration of the write.
type Pool struct {
	sampleWidthSecs       float64
	audioInSynchronized   bool
	warnedAudioInUnderrun bool
	readable              readableBuffers
	writeable             *waveformBuffer
	pitchBend             float64
	blockLen              int
}

// NewPool creates a Pool with numBuffers intermediate buffers, each able to
// hold up to bufferCapacity samples, for a stream sampled every
// sampleWidthSecs seconds.
func NewPool(sampleWidthSecs float64, numBuffers, bufferCapacity int) *Pool {
	buffers := make([]*waveformBuffer, numBuffers)
	for i := range buffers {
		buffers[i] = newWaveformBuffer(bufferCapacity)
	}
	return &Pool{
		sampleWidthSecs: sampleWidthSecs,
		readable: readableBuffers{
			audioIn:  newWaveformBuffer(bufferCapacity),
			buffers:  buffers,
			audioOut: newWaveformBuffer(bufferCapacity),
			total:    newWaveformBuffer(bufferCapacity),
			zeros:    make([]float64, bufferCapacity),
		},
		writeable: newWaveformBuffer(0),
	}
}

// Clear sets the logical length of the audio-in and total buffers to len
// and marks them dirty, discarding anything read from them before the next
// write.
func (p *Pool) Clear(length int) {
	p.blockLen = length
	p.readable.audioIn.clear(length)
	p.readable.total.clear(length)
}

// SetPitchBend records the pitch bend applied to WaveformPitch/Period
// automation sources for the remainder of this block.
func (p *Pool) SetPitchBend(bend float64) {
	p.pitchBend = bend
}

// SetAudioIn drains len stereo pairs from src into the audio-in buffer,
// mixing each pair as L + R/2 (preserved from the legacy behavior rather
// than "corrected" to (L+R)/2). If src holds fewer than 2*len samples the
// audio-in buffer is left dirty (silent) for this block and a one-shot
// warning is logged.
func (p *Pool) SetAudioIn(length int, src RingConsumer) {
	buffer := p.readable.audioIn
	if src.Len() >= 2*length {
		for i := 0; i < length; i++ {
			l, _ := src.Pop()
			r, _ := src.Pop()
			buffer.storage[i] = l + r/2
		}
		buffer.dirty = false
		if !p.audioInSynchronized {
			p.audioInSynchronized = true
			logging.Default().Info("audio-in synchronized")
		}
		return
	}
	if p.audioInSynchronized && !p.warnedAudioInUnderrun {
		p.warnedAudioInUnderrun = true
		logging.Default().Warn("audio-in exchange buffer underrun, waiting for sync")
	}
}

// Total exposes the accumulated mix across every voice written this block.
func (p *Pool) Total() []float64 {
	return p.readable.total.read(p.readable.zeros)
}

func (p *Pool) read0AndWrite(out OutBuffer, outLevel float64, f func() float64) {
	p.rwAccessSplit(out, func() func(int) float64 {
		return func(int) float64 { return f() * outLevel }
	})
}

func (p *Pool) read1AndWrite(in InBuffer, out OutBuffer, outLevel float64, f func(float64) float64) {
	p.rwAccessSplit(out, func() func(int) float64 {
		source := p.readable.read(in)
		return func(i int) float64 { return f(source[i]) * outLevel }
	})
}

func (p *Pool) read2AndWrite(in0, in1 InBuffer, out OutBuffer, outLevel float64, f func(float64, float64) float64) {
	p.rwAccessSplit(out, func() func(int) float64 {
		src0 := p.readable.read(in0)
		src1 := p.readable.read(in1)
		return func(i int) float64 { return f(src0[i], src1[i]) * outLevel }
	})
}

// rwAccessSplit swaps the target buffer into the pool's single scratch
// slot, lets build construct the per-sample writer against the
// now-readable rest of the pool, runs it, then swaps the (now written)
// buffer back. This guarantees a stage never reads and writes the same
// named buffer through aliased references.
func (p *Pool) rwAccessSplit(out OutBuffer, build func() func(int) float64) {
	p.readable.swap(out, &p.writeable)
	writer := build()
	p.writeable.write(writer, p.writeable.len)
	p.readable.swap(out, &p.writeable)
}
