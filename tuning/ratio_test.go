package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioComposeAndInv(t *testing.T) {
	fifth := RatioFromFraction(3, 2)
	fourth := Octave.Compose(fifth.Inv())
	assert.InDelta(t, 4.0/3.0, fourth.AsFloat(), 1e-9)
}

func TestRatioRepeatedAndDividedIntoEqualSteps(t *testing.T) {
	step := Octave.DividedIntoEqualSteps(12)
	assert.InDelta(t, 100, step.AsCents(), 1e-9)

	fifths := step.Repeated(7)
	assert.InDelta(t, 700, fifths.AsCents(), 1e-9)
}

func TestRatioDeviationFromAndNegligible(t *testing.T) {
	syntonicComma := RatioFromFraction(81, 80)
	assert.False(t, syntonicComma.IsNegligible())

	zero := RatioFromFloat(1).DeviationFrom(RatioFromFloat(1))
	assert.True(t, zero.IsNegligible())
}

func TestRatioNumEqualStepsOf(t *testing.T) {
	n := Octave.NumEqualStepsOf(RatioFromFraction(3, 2))
	assert.InDelta(t, Octave.AsOctaves()/RatioFromFraction(3, 2).AsOctaves(), n, 1e-9)
}

func TestRatioNearestFractionPerfectFifth(t *testing.T) {
	num, den := RatioFromFraction(3, 2).NearestFraction(15)
	assert.Equal(t, uint64(3), num)
	assert.Equal(t, uint64(2), den)
}

func TestRatioTotalCmpOrdering(t *testing.T) {
	assert.Equal(t, -1, RatioFromFloat(1).TotalCmp(RatioFromFloat(2)))
	assert.Equal(t, 1, RatioFromFloat(2).TotalCmp(RatioFromFloat(1)))
	assert.Equal(t, 0, RatioFromFloat(2).TotalCmp(RatioFromFloat(2)))
}
