package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPianoKeys(n int) []PianoKey {
	keys := make([]PianoKey, n)
	for i := range keys {
		keys[i] = PianoKeyFromMIDINumber(i)
	}
	return keys
}

func Test36EDOFullKeyboardChannelTuner(t *testing.T) {
	scl, err := NewSclBuilder().PushRatio(Octave.DividedIntoEqualSteps(36)).Build()
	require.NoError(t, err)

	root := KbmRootFromNote(NoteFromMIDINumber(62))
	kbm := root.ToKbm()
	tableTuning := NewTableTuning(scl, kbm)

	channels, result := ApplyFullKeyboardTuning[PianoKey](tableTuning, allPianoKeys(128))
	require.Len(t, channels, 3)

	expect := map[int]ChannelAndNote{
		60: {Channel: 2, Note: NoteFromMIDINumber(61)},
		61: {Channel: 0, Note: NoteFromMIDINumber(62)},
		62: {Channel: 1, Note: NoteFromMIDINumber(62)},
		63: {Channel: 2, Note: NoteFromMIDINumber(62)},
		64: {Channel: 0, Note: NoteFromMIDINumber(63)},
	}
	for midi, want := range expect {
		got, ok := result[PianoKeyFromMIDINumber(midi)]
		require.Truef(t, ok, "key %d not assigned", midi)
		assert.Equalf(t, want.Channel, got.Channel, "key %d channel", midi)
		assert.Equalf(t, want.Note.MIDINumber(), got.Note.MIDINumber(), "key %d note", midi)
	}
}

func Test16EDOChannelBasedTuner(t *testing.T) {
	scl, err := NewSclBuilder().PushRatio(Octave.DividedIntoEqualSteps(16)).Build()
	require.NoError(t, err)

	root := KbmRootFromNote(NoteFromMIDINumber(60))
	kbm := root.ToKbm()
	tableTuning := NewTableTuning(scl, kbm)

	channels, _ := ApplyChannelBasedTuning[PianoKey](tableTuning, allPianoKeys(128))
	require.Len(t, channels, 4)

	cents := make([]float64, len(channels))
	for i, r := range channels {
		cents[i] = r.AsCents()
	}
	assert.ElementsMatch(t, []float64{-25, 0, 25, 50}, roundEach(cents))
}

func roundEach(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(int64(v + sign(v)*0.5))
	}
	return out
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
