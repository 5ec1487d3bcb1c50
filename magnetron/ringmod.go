package magnetron

// RingModulator multiplies two input buffers sample-by-sample into one
// output buffer, the simplest two-input stage in the graph.
type RingModulator struct {
	In1, In2  InBuffer
	OutBuffer OutBuffer
	OutLevel  *LfSource
}

// NewRingModulator validates in1/in2/out against numBuffers.
func NewRingModulator(in1, in2 InBuffer, out OutBuffer, outLevel *LfSource, numBuffers int) (*RingModulator, error) {
	if err := validateInBuffer(numBuffers, in1); err != nil {
		return nil, err
	}
	if err := validateInBuffer(numBuffers, in2); err != nil {
		return nil, err
	}
	if err := validateOutBuffer(numBuffers, out); err != nil {
		return nil, err
	}
	return &RingModulator{In1: in1, In2: in2, OutBuffer: out, OutLevel: outLevel}, nil
}

// Step implements Stage.
func (r *RingModulator) Step(pool *Pool, ctx *AutomationContext) {
	outLevel := r.OutLevel.Query(ctx.RenderWindowSecs, ctx)
	pool.read2AndWrite(r.In1, r.In2, r.OutBuffer, outLevel, func(a, b float64) float64 { return a * b })
}
