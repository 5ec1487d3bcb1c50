package audio

import "github.com/cbegin/microtune/magnetron"

// EngineSource adapts a magnetron.Engine into a SampleSource: each Process
// call drains queued note events, clears the pool, feeds any live audio-in,
// renders one block into the pool, and copies the mono total out as an
// interleaved stereo frame.
type EngineSource struct {
	engine  *magnetron.Engine
	pool    *magnetron.Pool
	storage magnetron.ControllerStorage
	audioIn magnetron.RingConsumer
	block   []float64
}

// NewEngineSource wires engine and pool together behind the SampleSource
// interface StreamReader/Player already expect. storage resolves any named
// controllers ("pressure", "breath", ...) an LfSource references; pass nil
// if the waveform graph has none. audioIn feeds Pool.SetAudioIn every block
// when set, so waveguide/ring-modulator stages reading AudioIn() see a live
// signal; pass nil when no voice in the graph consumes it.
func NewEngineSource(engine *magnetron.Engine, pool *magnetron.Pool, storage magnetron.ControllerStorage, audioIn magnetron.RingConsumer) *EngineSource {
	return &EngineSource{engine: engine, pool: pool, storage: storage, audioIn: audioIn}
}

// Process implements SampleSource: dst holds interleaved L/R float32 frames.
func (s *EngineSource) Process(dst []float32) {
	frames := len(dst) / 2
	if frames == 0 {
		return
	}

	s.engine.DrainEvents()
	s.pool.Clear(frames)
	if s.audioIn != nil {
		s.pool.SetAudioIn(frames, s.audioIn)
	}
	s.engine.WriteAll(s.storage)

	if cap(s.block) < frames {
		s.block = make([]float64, frames)
	}
	copy(s.block[:frames], s.pool.Total())

	for i := 0; i < frames; i++ {
		sample := float32(s.block[i])
		dst[i*2] = sample
		dst[i*2+1] = sample
	}
}
