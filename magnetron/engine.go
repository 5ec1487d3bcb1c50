package magnetron

import "github.com/cbegin/microtune/tuning"

// WaveformFactory builds a freshly-pressed voice from a spec the engine
// was configured with, given the note's initial pitch and velocity.
type WaveformFactory func(pitch tuning.Pitch, velocity float64) *Waveform

type voiceSlot struct {
	waveform *Waveform
	sourceID uint64
	active   bool
	usageID  uint64
}

// NoteEventKind distinguishes the events an Engine accepts over its event
// channel.
type NoteEventKind int

const (
	NoteOnEvent NoteEventKind = iota
	NoteOffEvent
	PressureEvent
	BreathEvent
)

// NoteEvent is a single incoming event from a UI, MIDI input, or other
// producer, delivered to the engine's audio thread over a buffered
// channel rather than shared mutable state.
type NoteEvent struct {
	Kind     NoteEventKind
	SourceID uint64
	Pitch    tuning.Pitch
	Velocity float64
	Legato   bool
	Value    float64
}

// Engine owns a bounded table of active voices keyed by source id
// (physical key, MIDI note, or similar), a factory for instantiating new
// voices, and an inbound event channel drained once per block with
// try-receive semantics so the audio thread never blocks on a producer.
type Engine struct {
	pool           *Pool
	factory        WaveformFactory
	slots          []voiceSlot
	sourceIdx      map[uint64]int
	nextUsage      uint64
	noteSuspension float64
	events         chan NoteEvent
}

// NewEngine creates an Engine with a fixed voice count and an event
// channel buffered to eventCapacity.
func NewEngine(pool *Pool, numVoices int, factory WaveformFactory, eventCapacity int) *Engine {
	return &Engine{
		pool:      pool,
		factory:   factory,
		slots:     make([]voiceSlot, numVoices),
		sourceIdx: make(map[uint64]int, numVoices),
		events:    make(chan NoteEvent, eventCapacity),
	}
}

// Events returns the send side of the engine's event channel, for
// producers (MIDI input, UI) to push events from any goroutine.
func (e *Engine) Events() chan<- NoteEvent { return e.events }

// DrainEvents applies every event currently queued, without blocking;
// called once at the start of each block before WriteAll.
func (e *Engine) DrainEvents() {
	for {
		select {
		case ev := <-e.events:
			e.apply(ev)
		default:
			return
		}
	}
}

func (e *Engine) apply(ev NoteEvent) {
	switch ev.Kind {
	case NoteOnEvent:
		e.NoteOn(ev.SourceID, ev.Pitch, ev.Velocity, ev.Legato)
	case NoteOffEvent:
		e.NoteOff(ev.SourceID)
	case PressureEvent:
		e.SetPressure(ev.SourceID, ev.Value)
	case BreathEvent:
		e.SetBreath(ev.SourceID, ev.Value)
	}
}

// NoteOn presses a new voice, or, in legato mode, repitches the voice
// already sounding for sourceID rather than allocating a new one. When no
// free slot remains, the oldest voice (by usage id) is stolen.
func (e *Engine) NoteOn(sourceID uint64, pitch tuning.Pitch, velocity float64, legato bool) {
	if legato {
		if idx, ok := e.sourceIdx[sourceID]; ok {
			e.slots[idx].waveform.Repitch(pitch)
			return
		}
	}
	idx := e.allocSlot()
	e.slots[idx] = voiceSlot{
		waveform: e.factory(pitch, velocity),
		sourceID: sourceID,
		active:   true,
		usageID:  e.nextUsage,
	}
	e.nextUsage++
	e.sourceIdx[sourceID] = idx
}

func (e *Engine) allocSlot() int {
	for i := range e.slots {
		if !e.slots[i].active {
			return i
		}
	}
	oldest := 0
	for i := range e.slots {
		if e.slots[i].usageID < e.slots[oldest].usageID {
			oldest = i
		}
	}
	delete(e.sourceIdx, e.slots[oldest].sourceID)
	return oldest
}

// NoteOff releases the voice for sourceID, if any; its envelope decays
// naturally rather than being cut off immediately.
func (e *Engine) NoteOff(sourceID uint64) {
	if idx, ok := e.sourceIdx[sourceID]; ok {
		e.slots[idx].waveform.Release()
	}
}

// SetPressure updates the per-voice pressure controller for sourceID.
func (e *Engine) SetPressure(sourceID uint64, value float64) {
	if idx, ok := e.sourceIdx[sourceID]; ok {
		e.slots[idx].waveform.SetPressure(value)
	}
}

// SetBreath updates the per-voice breath controller for sourceID.
func (e *Engine) SetBreath(sourceID uint64, value float64) {
	if idx, ok := e.sourceIdx[sourceID]; ok {
		e.slots[idx].waveform.SetBreath(value)
	}
}

// ActiveVoices reports how many slots currently hold a sounding voice.
func (e *Engine) ActiveVoices() int {
	n := 0
	for i := range e.slots {
		if e.slots[i].active {
			n++
		}
	}
	return n
}

// WriteAll renders one block for every active voice, in stable slot
// order, accumulating into the pool's total buffer exactly once per
// voice. A voice whose envelope reports inactive afterward frees its slot
// for reuse.
func (e *Engine) WriteAll(storage ControllerStorage) {
	for i := range e.slots {
		slot := &e.slots[i]
		if !slot.active {
			continue
		}
		stillActive := e.pool.Write(slot.waveform, storage, e.noteSuspension)
		if !stillActive {
			delete(e.sourceIdx, slot.sourceID)
			slot.active = false
			slot.waveform = nil
		}
	}
}
