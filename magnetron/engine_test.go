package magnetron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/microtune/tuning"
)

func silentFactory(pitch tuning.Pitch, velocity float64) *Waveform {
	env := &Envelope{Name: "amp", Attack: 0, Release: 0, DecayRate: 0}
	return NewWaveform(nil, env, map[string]*Envelope{"amp": env}, pitch, velocity)
}

func newTestEngine(numVoices int) (*Engine, *Pool) {
	pool := NewPool(1, 0, 16)
	pool.Clear(10)
	return NewEngine(pool, numVoices, silentFactory, 8), pool
}

func TestEngineNoteOnAllocatesAndCountsVoices(t *testing.T) {
	e, _ := newTestEngine(2)

	e.NoteOn(1, tuning.PitchFromHz(440), 1, false)
	assert.Equal(t, 1, e.ActiveVoices())

	e.NoteOn(2, tuning.PitchFromHz(550), 1, false)
	assert.Equal(t, 2, e.ActiveVoices())
}

func TestEngineStealsOldestVoiceWhenFull(t *testing.T) {
	e, _ := newTestEngine(1)

	e.NoteOn(1, tuning.PitchFromHz(440), 1, false)
	require.Equal(t, 1, e.ActiveVoices())

	e.NoteOn(2, tuning.PitchFromHz(550), 1, false)
	assert.Equal(t, 1, e.ActiveVoices())

	e.NoteOff(1)
	idx, stillTracked := e.sourceIdx[1]
	assert.False(t, stillTracked, "stolen source should no longer be tracked")
	_ = idx

	e.NoteOff(2)
	for i := 0; i < 3; i++ {
		e.WriteAll(nil)
	}
	assert.Equal(t, 0, e.ActiveVoices())
}

func TestEngineLegatoRepitchesInPlace(t *testing.T) {
	e, _ := newTestEngine(2)

	e.NoteOn(1, tuning.PitchFromHz(440), 1, false)
	require.Equal(t, 1, e.ActiveVoices())
	idx := e.sourceIdx[1]

	e.NoteOn(1, tuning.PitchFromHz(880), 1, true)
	assert.Equal(t, 1, e.ActiveVoices())
	assert.InDelta(t, 880, e.slots[idx].waveform.Properties.Pitch.AsHz(), 1e-9)

	e.NoteOn(2, tuning.PitchFromHz(330), 1, false)
	assert.Equal(t, 2, e.ActiveVoices())
}

func TestEngineWriteAllFreesSlotOnceEnvelopeDecays(t *testing.T) {
	e, _ := newTestEngine(1)
	e.NoteOn(1, tuning.PitchFromHz(440), 1, false)
	e.WriteAll(nil)
	require.Equal(t, 1, e.ActiveVoices())

	e.NoteOff(1)
	e.WriteAll(nil)
	assert.Equal(t, 0, e.ActiveVoices())
}

func TestEngineDrainEventsAppliesQueuedEventsWithoutBlocking(t *testing.T) {
	e, _ := newTestEngine(2)

	e.Events() <- NoteEvent{Kind: NoteOnEvent, SourceID: 1, Pitch: tuning.PitchFromHz(440), Velocity: 1}
	e.Events() <- NoteEvent{Kind: PressureEvent, SourceID: 1, Value: 0.75}
	e.DrainEvents()

	require.Equal(t, 1, e.ActiveVoices())
	idx := e.sourceIdx[1]
	assert.InDelta(t, 0.75, e.slots[idx].waveform.Controller("pressure"), 1e-9)

	e.Events() <- NoteEvent{Kind: NoteOffEvent, SourceID: 1}
	e.DrainEvents()
	assert.True(t, e.slots[idx].waveform.Properties.Released)

	e.DrainEvents()
}
