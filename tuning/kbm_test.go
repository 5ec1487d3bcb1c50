package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKbmRootToKbmLinearPassThrough(t *testing.T) {
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	kbm := root.ToKbm()

	degree, ok := kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(60))
	require.True(t, ok)
	assert.Equal(t, 0, degree)

	degree, ok = kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(67))
	require.True(t, ok)
	assert.Equal(t, 7, degree)

	degree, ok = kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(53))
	require.True(t, ok)
	assert.Equal(t, -7, degree)
}

func TestKbmShiftRefKeyByPreservesAbsolutePitch(t *testing.T) {
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	shifted := root.ShiftRefKeyBy(12)
	assert.Equal(t, 72, shifted.RefKey.MIDINumber())
	assert.InDelta(t, root.RefPitch.AsHz()*2, shifted.RefPitch.AsHz(), 1e-9)
}

func TestKbmTableBasedMappingWithGapsAndWraparound(t *testing.T) {
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	kbm, err := NewKbmBuilder(root).
		PushMappedKey(0).
		PushMappedKey(2).
		PushUnmappedKey().
		FormalOctave(12).
		Build()
	require.NoError(t, err)

	degree, ok := kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(60))
	require.True(t, ok)
	assert.Equal(t, 0, degree)

	degree, ok = kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(61))
	require.True(t, ok)
	assert.Equal(t, 2, degree)

	_, ok = kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(62))
	assert.False(t, ok)

	degree, ok = kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(63))
	require.True(t, ok)
	assert.Equal(t, 12, degree)
}

func TestKbmBuilderRequiresFormalOctaveOnceMapped(t *testing.T) {
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	_, err := NewKbmBuilder(root).PushMappedKey(0).Build()
	assert.ErrorIs(t, err, ErrFormalOctaveMissing)
}

func TestKbmScaleDegreeOutOfRange(t *testing.T) {
	root := KbmRootFromNote(NoteFromMIDINumber(60))
	kbm, err := NewKbmBuilder(root).Range(PianoKeyFromMIDINumber(60), PianoKeyFromMIDINumber(72)).Build()
	require.NoError(t, err)

	_, ok := kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(59))
	assert.False(t, ok)
	_, ok = kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(72))
	assert.False(t, ok)
}
