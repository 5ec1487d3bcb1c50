package tuning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScl = `! 12edo.scl
!
12 equal temperament
 12
!
100.00000
200.00000
300.00000
400.00000
500.00000
600.00000
700.00000
800.00000
900.00000
1000.00000
1100.00000
2/1
`

const sampleKbm = `! linear.kbm
12
0
127
60
60
440.0
12
0
1
2
3
4
5
6
7
8
9
10
11
`

func TestImportSclParsesCentsAndFraction(t *testing.T) {
	scl, err := ImportScl(strings.NewReader(sampleScl))
	require.NoError(t, err)
	assert.Equal(t, 12, scl.NumItems())
	assert.InDelta(t, 1200, scl.Period().AsCents(), 1e-9)
	assert.InDelta(t, 700, scl.RelativePitchOf(7).AsCents(), 1e-9)
}

func TestImportSclRejectsInconsistentNoteCount(t *testing.T) {
	bad := strings.Replace(sampleScl, " 12\n", " 11\n", 1)
	_, err := ImportScl(strings.NewReader(bad))
	require.Error(t, err)
	var sclErr SclImportError
	require.ErrorAs(t, err, &sclErr)
	assert.Equal(t, SclInconsistentNumberOfNotes, sclErr.Kind)
}

func TestImportSclRejectsGarbageCentsValue(t *testing.T) {
	bad := strings.Replace(sampleScl, "700.00000", "garbage.0", 1)
	_, err := ImportScl(strings.NewReader(bad))
	require.Error(t, err)
	var sclErr SclImportError
	require.ErrorAs(t, err, &sclErr)
	assert.Equal(t, SclParseCentsValue, sclErr.Kind)
}

func TestImportKbmParsesLinearMapping(t *testing.T) {
	kbm, err := ImportKbm(strings.NewReader(sampleKbm))
	require.NoError(t, err)

	start, end := kbm.Range()
	assert.Equal(t, 0, start.MIDINumber())
	assert.Equal(t, 128, end.MIDINumber())
	assert.Equal(t, 12, kbm.FormalOctave())

	degree, ok := kbm.ScaleDegreeOf(PianoKeyFromMIDINumber(67))
	require.True(t, ok)
	assert.Equal(t, 7, degree)

	assert.InDelta(t, 440, kbm.KbmRoot().RefPitch.AsHz(), 1e-9)
}

func TestImportKbmRejectsBadMappingEntry(t *testing.T) {
	bad := strings.Replace(sampleKbm, "\n5\n", "\nY\n", 1)
	_, err := ImportKbm(strings.NewReader(bad))
	require.Error(t, err)
	var kbmErr KbmImportError
	require.ErrorAs(t, err, &kbmErr)
	assert.Equal(t, KbmParseMappingEntry, kbmErr.Kind)
}

func TestImportKbmRejectsTruncatedInput(t *testing.T) {
	_, err := ImportKbm(strings.NewReader("12\n0\n"))
	require.Error(t, err)
	var kbmErr KbmImportError
	require.ErrorAs(t, err, &kbmErr)
	assert.Equal(t, KbmExpectingLastMidiNote, kbmErr.Kind)
}
