package tuning

import (
	"iter"
	"math"
)

// Number is the numeric domain Mos step sizes are measured in: int for a
// counted (EDO-degree) generator chain, float64 for a continuous one (an
// irrational generator measured directly in octaves).
type Number interface {
	~int | ~float64
}

// Mos is the primary/secondary step-count-and-size (xPyS) representation of
// a Moment-of-Symmetry scale: a periodic scale built from exactly two step
// sizes, arranged so every interval class spans at most two distinct sizes.
//
// StepSize is the numeric type steps are measured in; StepCount is the
// numeric type step counts are measured in. A count-and-size pair can be
// swapped end for end (Dual), which is why both are type parameters rather
// than one being hardcoded to int.
type Mos[StepSize Number, StepCount Number] struct {
	numPrimarySteps   StepCount
	numSecondarySteps StepCount
	primaryStep       StepSize
	secondaryStep     StepSize
	size              int
}

// NewMosGenesis creates the 1p1s Mos of total size period and step ratio
// generator : period-generator, e.g. NewMosGenesis(12, 7) for the 12-EDO
// fifth.
func NewMosGenesis(period, generator int) Mos[int, int] {
	_, primaryStep := divModInt(generator, period)
	return Mos[int, int]{
		numPrimarySteps:   1,
		numSecondarySteps: 1,
		primaryStep:       primaryStep,
		secondaryStep:     period - primaryStep,
		size:              period,
	}
}

// NewMosGenesisFloat creates the 1p1s Mos of total size 1 and step ratio
// generator : 1-generator, for a generator given directly in octaves.
func NewMosGenesisFloat(generator float64) Mos[float64, int] {
	primaryStep := math.Mod(generator, 1)
	if primaryStep < 0 {
		primaryStep++
	}
	return Mos[float64, int]{
		numPrimarySteps:   1,
		numSecondarySteps: 1,
		primaryStep:       primaryStep,
		secondaryStep:     1 - primaryStep,
		size:              1,
	}
}

// NewMosCollapsed creates a collapsed xLys Mos (step size ratio 1:0), used
// to find the generator bounds of an xLys scale shape via Genesis.
func NewMosCollapsed(numLargeSteps, numSmallSteps int) Mos[int, int] {
	return Mos[int, int]{
		numPrimarySteps:   numLargeSteps,
		numSecondarySteps: numSmallSteps,
		primaryStep:       1,
		secondaryStep:     0,
		size:              numLargeSteps,
	}
}

// NewMos creates a fully custom xPyS Mos.
func NewMos(numPrimarySteps, numSecondarySteps, primaryStep, secondaryStep int) Mos[int, int] {
	return Mos[int, int]{
		numPrimarySteps:   numPrimarySteps,
		numSecondarySteps: numSecondarySteps,
		primaryStep:       primaryStep,
		secondaryStep:     secondaryStep,
		size:              numPrimarySteps*primaryStep + numSecondarySteps*secondaryStep,
	}
}

// NumPrimarySteps returns the number of primary (usually: larger) steps.
func (m Mos[S, C]) NumPrimarySteps() C { return m.numPrimarySteps }

// NumSecondarySteps returns the number of secondary (usually: smaller) steps.
func (m Mos[S, C]) NumSecondarySteps() C { return m.numSecondarySteps }

// PrimaryStep returns the size of one primary step.
func (m Mos[S, C]) PrimaryStep() S { return m.primaryStep }

// SecondaryStep returns the size of one secondary step.
func (m Mos[S, C]) SecondaryStep() S { return m.secondaryStep }

// Size returns numPrimarySteps*primaryStep + numSecondarySteps*secondaryStep.
func (m Mos[S, C]) Size() int { return m.size }

// NumSteps returns numPrimarySteps + numSecondarySteps.
func (m Mos[S, C]) NumSteps() C { return m.numPrimarySteps + m.numSecondarySteps }

// Sharpness returns primaryStep - secondaryStep.
func (m Mos[S, C]) Sharpness() S { return m.primaryStep - m.secondaryStep }

// Child returns the Mos one level deeper in the generator-chain hierarchy:
// the step with the larger size is subdivided into (old smaller step) +
// (one new, even smaller step). Reports false if either step size is zero
// (a collapsed Mos) or the two step sizes are equal, so there is nothing
// left to subdivide.
func (m Mos[S, C]) Child() (Mos[S, C], bool) {
	var zero S
	if m.primaryStep == zero || m.secondaryStep == zero {
		return Mos[S, C]{}, false
	}

	numSteps := m.numSecondarySteps + m.numPrimarySteps
	sharpness := absDiff(m.primaryStep, m.secondaryStep)

	switch {
	case m.primaryStep > m.secondaryStep:
		m.numSecondarySteps = numSteps
		m.primaryStep = sharpness
	case m.primaryStep < m.secondaryStep:
		m.numPrimarySteps = numSteps
		m.secondaryStep = sharpness
	default:
		return Mos[S, C]{}, false
	}
	return m, true
}

// Children enumerates this Mos and its descendants via repeated Child,
// stopping once a Mos collapses.
func (m Mos[S, C]) Children() iter.Seq[Mos[S, C]] {
	return func(yield func(Mos[S, C]) bool) {
		cur, ok := m, true
		for ok {
			if !yield(cur) {
				return
			}
			cur, ok = cur.Child()
		}
	}
}

// Dual swaps step-count and step-size roles.
func (m Mos[S, C]) Dual() Mos[C, S] {
	return Mos[C, S]{
		numPrimarySteps:   m.primaryStep,
		numSecondarySteps: m.secondaryStep,
		primaryStep:       m.numPrimarySteps,
		secondaryStep:     m.numSecondarySteps,
		size:              m.size,
	}
}

// Parent is the inverse of Child.
func (m Mos[S, C]) Parent() (Mos[S, C], bool) {
	child, ok := m.Dual().Child()
	if !ok {
		return Mos[S, C]{}, false
	}
	return child.Dual(), true
}

// Parents enumerates this Mos and its ancestors via repeated Parent,
// stopping at the genesis (1p1s) Mos.
func (m Mos[S, C]) Parents() iter.Seq[Mos[S, C]] {
	return func(yield func(Mos[S, C]) bool) {
		cur, ok := m, true
		for ok {
			if !yield(cur) {
				return
			}
			cur, ok = cur.Parent()
		}
	}
}

// Genesis walks Parents to the 1p1s ancestor of this Mos.
func (m Mos[S, C]) Genesis() Mos[S, C] {
	last := m
	for p := range m.Parents() {
		last = p
	}
	return last
}

// Mirror swaps primary and secondary semantics.
func (m Mos[S, C]) Mirror() Mos[S, C] {
	return Mos[S, C]{
		numPrimarySteps:   m.numSecondarySteps,
		numSecondarySteps: m.numPrimarySteps,
		primaryStep:       m.secondaryStep,
		secondaryStep:     m.primaryStep,
		size:              m.size,
	}
}

func absDiff[T Number](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// MosNumCycles returns gcd(primaryStep, secondaryStep) for an
// integer-step-size Mos.
func MosNumCycles[C Number](m Mos[int, C]) int {
	return gcdInt(m.primaryStep, m.secondaryStep)
}

// MosReducedSize returns Size() / MosNumCycles(m).
func MosReducedSize[C Number](m Mos[int, C]) int {
	return m.size / MosNumCycles(m)
}

// MosCoprime adjusts secondaryStep so that primaryStep and secondaryStep
// become coprime, making every scale degree of an xPyS Mos with integer
// step sizes reachable.
func MosCoprime(m Mos[int, int]) Mos[int, int] {
	if m.primaryStep == m.secondaryStep {
		m.secondaryStep = m.primaryStep - 1
	}

	for {
		numCycles := MosNumCycles(m)
		if numCycles == 1 {
			break
		}

		currentSharpValue := absDiff(m.primaryStep, m.secondaryStep)
		wantedSharpValue := currentSharpValue / numCycles
		sharpDelta := currentSharpValue - wantedSharpValue

		if m.primaryStep > m.secondaryStep {
			m.secondaryStep += sharpDelta
		} else {
			m.secondaryStep -= sharpDelta
		}
	}

	m.size = m.numPrimarySteps*m.primaryStep + m.numSecondarySteps*m.secondaryStep
	return m
}

// MosGetKey returns the scale degree of the isomorphic-keyboard location
// (numPrimarySteps, numSecondarySteps) away from the origin.
func MosGetKey(m Mos[int, int], numPrimarySteps, numSecondarySteps int) int {
	return numPrimarySteps*m.primaryStep + numSecondarySteps*m.secondaryStep
}

// MosGetLayers decomposes an integer-step-size Mos into consecutive
// genchain color layers: one central "natural" layer, a symmetric sequence
// of "accidental" layers around it, and an optional central "enharmonic"
// layer where sharps and flats coincide. The result is one entry per
// genchain position, each holding its layer index (0 = natural, increasing
// outward), in genchain order.
func MosGetLayers(m Mos[int, int]) []int {
	numCycles := MosNumCycles(m)

	numNaturalPrimaryLayers := 0
	if m.primaryStep > 0 {
		numNaturalPrimaryLayers = 1
	}
	numNaturalSecondaryLayers := 0
	if m.secondaryStep > 0 {
		numNaturalSecondaryLayers = 1
	}

	numNonNaturalPrimaryLayers := m.primaryStep/numCycles - numNaturalPrimaryLayers
	numNonNaturalSecondaryLayers := m.secondaryStep/numCycles - numNaturalSecondaryLayers

	numIntermediatePrimaryLayers := numNonNaturalPrimaryLayers / 2
	numIntermediateSecondaryLayers := numNonNaturalSecondaryLayers / 2

	numEnharmonicPrimaryLayers := numNonNaturalPrimaryLayers % 2
	numEnharmonicSecondaryLayers := numNonNaturalSecondaryLayers % 2

	sizeOfNaturalLayer := numNaturalPrimaryLayers*m.numPrimarySteps + numNaturalSecondaryLayers*m.numSecondarySteps
	sizeOfEnharmonicLayer := numEnharmonicPrimaryLayers*m.numPrimarySteps + numEnharmonicSecondaryLayers*m.numSecondarySteps

	var intermediateSizes []int
	both := numIntermediatePrimaryLayers
	if numIntermediateSecondaryLayers < both {
		both = numIntermediateSecondaryLayers
	}
	for i := 0; i < both; i++ {
		intermediateSizes = append(intermediateSizes, m.numPrimarySteps+m.numSecondarySteps)
	}
	if d := numIntermediatePrimaryLayers - numIntermediateSecondaryLayers; d > 0 {
		for i := 0; i < d; i++ {
			intermediateSizes = append(intermediateSizes, m.numPrimarySteps)
		}
	}
	if d := numIntermediateSecondaryLayers - numIntermediatePrimaryLayers; d > 0 {
		for i := 0; i < d; i++ {
			intermediateSizes = append(intermediateSizes, m.numSecondarySteps)
		}
	}

	layerSizes := make([]int, 0, 2+2*len(intermediateSizes))
	layerSizes = append(layerSizes, sizeOfNaturalLayer)
	layerSizes = append(layerSizes, intermediateSizes...)
	layerSizes = append(layerSizes, sizeOfEnharmonicLayer)
	for i := len(intermediateSizes) - 1; i >= 0; i-- {
		layerSizes = append(layerSizes, intermediateSizes[i])
	}

	var result []int
	layerIndex := 0
	for _, layerSize := range layerSizes {
		if layerSize == 0 {
			continue
		}
		for i := 0; i < layerSize; i++ {
			result = append(result, layerIndex)
		}
		layerIndex++
	}
	return result
}
