package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleTuningPitchOfRoundTrip(t *testing.T) {
	scl := build12EDO(t)
	root := KbmRootFromReferencePitch(ReferencePitchFromKeyAndPitch(PianoKeyFromMIDINumber(69), PitchFromHz(440)))
	tuning := NewScaleTuning(scl, root)

	assert.InDelta(t, 440, tuning.PitchOf(PianoKeyFromMIDINumber(69)).AsHz(), 1e-6)
	assert.InDelta(t, 440*RatioFromSemitones(-5).AsFloat(), tuning.PitchOf(PianoKeyFromMIDINumber(64)).AsHz(), 1e-6)

	approx := tuning.FindByPitch(PitchFromHz(440))
	assert.Equal(t, 69, approx.ApproxValue.MIDINumber())
	assert.InDelta(t, 0, approx.Deviation.AsCents(), 1e-6)
}

func TestTableTuningMatchesLinearScaleTuning(t *testing.T) {
	scl := build12EDO(t)
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	kbm := root.ToKbm()

	scaleTuning := NewScaleTuning(scl, root)
	tableTuning := NewTableTuning(scl, kbm)

	for _, key := range []int{60, 64, 67, 53} {
		want := scaleTuning.PitchOf(PianoKeyFromMIDINumber(key))
		got, ok := tableTuning.MaybePitchOf(PianoKeyFromMIDINumber(key))
		if assert.True(t, ok) {
			assert.InDelta(t, want.AsHz(), got.AsHz(), 1e-9)
		}
	}
}

func TestTableTuningUnmappedKeyReportsFalse(t *testing.T) {
	scl := build12EDO(t)
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	kbm, err := NewKbmBuilder(root).PushMappedKey(0).PushUnmappedKey().FormalOctave(12).Build()
	assert.NoError(t, err)

	tableTuning := NewTableTuning(scl, kbm)
	_, ok := tableTuning.MaybePitchOf(PianoKeyFromMIDINumber(61))
	assert.False(t, ok)
}
