package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValPatent12EDO(t *testing.T) {
	step := RatioFromFloat(2).DividedIntoEqualSteps(12)
	val := PatentVal(step, 5)
	require.Equal(t, []uint16{12, 19, 28}, val.Values())
	assert.Equal(t, uint8(5), val.PrimeLimit())
}

func TestValTempersOutSyntonicComma(t *testing.T) {
	step := RatioFromFloat(2).DividedIntoEqualSteps(12)
	val := PatentVal(step, 5)
	syntonic := NewComma("syntonic comma", []int8{-4, 4, -1})
	assert.True(t, val.TempersOut(syntonic))
}

func TestValMapOutOfRange(t *testing.T) {
	step := RatioFromFloat(2).DividedIntoEqualSteps(12)
	val := PatentVal(step, 3)
	beyond := NewComma("19th harmonic", []int8{-4, 0, 0, 0, 0, 0, 0, 1})
	_, ok := val.Map(beyond)
	assert.False(t, ok)
}
