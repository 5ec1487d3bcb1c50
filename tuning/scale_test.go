package tuning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build12EDO(t *testing.T) *Scl {
	t.Helper()
	b := NewSclBuilder()
	for i := 1; i <= 12; i++ {
		b.PushCents(float64(i) * 100)
	}
	scl, err := b.Build()
	require.NoError(t, err)
	return scl
}

func TestSclRelativePitchOfRoot(t *testing.T) {
	scl := build12EDO(t)
	assert.InDelta(t, 1, scl.RelativePitchOf(0).AsFloat(), 1e-9)
	assert.InDelta(t, 700, scl.RelativePitchOf(7).AsCents(), 1e-9)
	assert.InDelta(t, 1200, scl.RelativePitchOf(12).AsCents(), 1e-9)
	assert.InDelta(t, 2400, scl.RelativePitchOf(24).AsCents(), 1e-9)
}

func TestSclFindByRelativePitchRoundTrip(t *testing.T) {
	scl := build12EDO(t)
	for _, degree := range []int{0, 1, 7, 11, 12, 13, 25} {
		relPitch := scl.RelativePitchOf(degree)
		approx := scl.FindByRelativePitch(relPitch)
		assert.Equal(t, degree, approx.ApproxValue)
		assert.InDelta(t, 0, approx.Deviation.AsCents(), 1e-6)
	}
}

func TestSclPeriodAndNumItems(t *testing.T) {
	scl := build12EDO(t)
	assert.Equal(t, 12, scl.NumItems())
	assert.InDelta(t, 1200, scl.Period().AsCents(), 1e-9)
}

func TestSclBuilderDefaultDescriptionForEqualSteps(t *testing.T) {
	b := NewSclBuilder().PushCents(100)
	scl, err := b.Build()
	require.NoError(t, err)
	assert.Contains(t, scl.Description(), "12.00-EDO")
}
