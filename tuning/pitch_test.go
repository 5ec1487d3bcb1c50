package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitchTimesAndDiv(t *testing.T) {
	a4 := PitchFromHz(440)
	octaveUp := a4.Times(Octave)
	assert.InDelta(t, 880, octaveUp.AsHz(), 1e-9)
	assert.InDelta(t, 440, octaveUp.Div(Octave).AsHz(), 1e-9)
}

func TestRatioBetweenPitches(t *testing.T) {
	ratio := RatioBetween(PitchFromHz(440), PitchFromHz(880))
	assert.InDelta(t, 1, ratio.AsOctaves(), 1e-9)
}

func TestDescribeA4(t *testing.T) {
	d := PitchFromHz(440).Describe(DefaultConcertPitch)
	assert.Equal(t, A4Note.MIDINumber(), d.ApproxNote.MIDINumber())
	assert.InDelta(t, 0, d.Deviation.AsCents(), 1e-6)
}

func TestDescribeStringShowsDeviationWhenAudible(t *testing.T) {
	d := PitchFromHz(441).Describe(DefaultConcertPitch)
	s := d.String()
	assert.Contains(t, s, "441.000 Hz")
	assert.Contains(t, s, "c")
}

func TestParseReferencePitchForms(t *testing.T) {
	plain, err := ParseReferencePitch("69")
	require.NoError(t, err)
	assert.Equal(t, 69, plain.Key().MIDINumber())
	assert.InDelta(t, 440, plain.Pitch().AsHz(), 1e-9)

	atHz, err := ParseReferencePitch("69@442Hz")
	require.NoError(t, err)
	assert.Equal(t, 69, atHz.Key().MIDINumber())
	assert.InDelta(t, 442, atHz.Pitch().AsHz(), 1e-9)

	plus, err := ParseReferencePitch("69+100c")
	require.NoError(t, err)
	assert.InDelta(t, 440*RatioFromCents(100).AsFloat(), plus.Pitch().AsHz(), 1e-6)

	minus, err := ParseReferencePitch("69-100c")
	require.NoError(t, err)
	assert.InDelta(t, 440/RatioFromCents(100).AsFloat(), minus.Pitch().AsHz(), 1e-6)
}

func TestParseReferencePitchRejectsGarbage(t *testing.T) {
	_, err := ParseReferencePitch("not a note")
	assert.Error(t, err)
}

func TestNoteStringFormatting(t *testing.T) {
	assert.Equal(t, "C     4", NoteFromMIDINumber(60).String())
	assert.Equal(t, "A     4", NoteFromMIDINumber(69).String())
}

func TestConcertPitchFromNoteAndPitch(t *testing.T) {
	cp := ConcertPitchFromNoteAndPitch(NoteFromMIDINumber(69), PitchFromHz(432))
	assert.InDelta(t, 432, cp.A4Pitch().AsHz(), 1e-9)
	assert.InDelta(t, 432*2, cp.PitchOf(NoteFromMIDINumber(81)).AsHz(), 1e-6)
}

func TestConcertPitchFindByPitchRoundTrip(t *testing.T) {
	approx := DefaultConcertPitch.FindByPitch(PitchFromHz(440))
	assert.Equal(t, A4Note.MIDINumber(), approx.ApproxValue.MIDINumber())
	assert.InDelta(t, 0, approx.Deviation.AsCents(), 1e-6)
}
