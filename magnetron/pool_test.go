package magnetron

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/microtune/tuning"
)

func TestPoolWriteSineOscillatorSanity(t *testing.T) {
	const sampleRate = 44100
	const frequency = 440.0
	sampleWidth := 1.0 / sampleRate

	pool := NewPool(sampleWidth, 0, sampleRate)
	pool.Clear(sampleRate)

	osc, err := NewOscillator(Sine, ConstantLf(frequency), ModulationNone, InBuffer{}, AudioOut(), ConstantLf(1), 0)
	require.NoError(t, err)

	envelope := &Envelope{Name: "amp", Attack: 0, Release: 0, DecayRate: 0}
	wf := NewWaveform([]Stage{osc}, envelope, map[string]*Envelope{"amp": envelope}, tuning.PitchFromHz(frequency), 1)

	active := pool.Write(wf, nil, 0)
	assert.True(t, active)

	total := pool.Total()
	require.Len(t, total, sampleRate)

	for n := 0; n < sampleRate; n++ {
		expected := math.Sin(2 * math.Pi * frequency * float64(n+1) * sampleWidth)
		assert.InDeltaf(t, expected, total[n], 1e-6, "sample %d", n)
	}
}
