package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerGenTwelveEdoFifths(t *testing.T) {
	pg := NewPerGen(12, 7)
	assert.Equal(t, 1, pg.NumCycles())
	assert.Equal(t, 12, pg.ReducedPeriod())

	gen := pg.GetGeneration(7)
	assert.Nil(t, gen.Cycle)
	assert.Equal(t, 1, gen.Degree)
}

func TestPerGenAccidentalsWideGenchain(t *testing.T) {
	pg := NewPerGen(12, 7)
	format := AccidentalsFormat{NumSymbols: 7, GenchainOrigin: 1}

	natural := pg.GetAccidentals(format, 0)
	assert.Equal(t, 1, natural.SharpIndex)
	assert.Equal(t, 0, natural.SharpCount)
	assert.Equal(t, 1, natural.FlatIndex)
	assert.Equal(t, 0, natural.FlatCount)

	sharpC := pg.GetAccidentals(format, 1)
	require.Equal(t, 1, sharpC.SharpCount)
	assert.Equal(t, 1, sharpC.SharpIndex)
}

func TestPerGenGetMosesTwelveEdo(t *testing.T) {
	pg := NewPerGen(12, 7)
	moses := pg.GetMoses()
	require.NotEmpty(t, moses)
	assert.Equal(t, 12, moses[0].Size())
}

func TestNoteFormatterSharpFlat(t *testing.T) {
	formatter := NoteFormatter{
		NoteNames: []rune("FCGDAEB"),
		SharpSign: '#',
		FlatSign:  'b',
		CycleSign: '^',
		Order:     SharpFlat,
	}
	plain := formatter.Format(Accidentals{SharpIndex: 2, FlatIndex: 2})
	assert.Equal(t, "G", plain)

	// The formatter always renders via whichever side carries fewer
	// accidentals, so a SharpCount smaller than FlatCount renders sharp.
	sharped := formatter.Format(Accidentals{SharpIndex: 0, SharpCount: 1, FlatIndex: 3, FlatCount: 2})
	assert.Equal(t, "F#", sharped)
}
