package magnetron

import "math/rand"

// Noise is a white-noise source stage.
type Noise struct {
	OutBuffer OutBuffer
	OutLevel  *LfSource

	rng *rand.Rand
}

// NewNoise validates out against numBuffers and seeds a private generator
// so two Noise stages never share state.
func NewNoise(seed int64, out OutBuffer, outLevel *LfSource, numBuffers int) (*Noise, error) {
	if err := validateOutBuffer(numBuffers, out); err != nil {
		return nil, err
	}
	return &Noise{OutBuffer: out, OutLevel: outLevel, rng: rand.New(rand.NewSource(seed))}, nil
}

// Step implements Stage.
func (n *Noise) Step(pool *Pool, ctx *AutomationContext) {
	outLevel := n.OutLevel.Query(ctx.RenderWindowSecs, ctx)
	pool.read0AndWrite(n.OutBuffer, outLevel, func() float64 { return n.rng.Float64()*2 - 1 })
}
