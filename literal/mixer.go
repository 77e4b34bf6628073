package literal

import (
	"math/bits"

	"github.com/brotligo/litcoder/cdf"
	"github.com/brotligo/litcoder/numeric"
)

// NormalizeWeights caps both mixer weights at 24 bits while preserving
// their ratio (spec.md S4.6). The caller runs this every nibble,
// unconditionally — the source guards the weight update itself on
// MaterializedPredictionMode and DynamicContextMixing, but not
// normalization, and S9's Open Question resolves that asymmetry as
// intentional: preserve the ungated behavior.
func NormalizeWeights(weights *[2]int32) {
	if (weights[0]|weights[1])&0x7f000000 != 0 {
		fixWeights(weights)
	}
}

func fixWeights(weights *[2]int32) {
	ilog := 32 - minUint32(leadingZeros32(weights[0]), leadingZeros32(weights[1]))
	const maxLog = 24
	if ilog >= maxLog {
		shift := uint(ilog - maxLog)
		weights[0] >>= shift
		weights[1] >>= shift
	}
}

func leadingZeros32(x int32) uint32 {
	return uint32(bits.LeadingZeros32(uint32(x)))
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// BlendWeight computes the Q(cdf.BlendFixedPointPrecision) weight the
// context-map model receives when averaging against the stride model
// (spec.md S4.6): w[1]/total, via the division-free 16-by-8 routine.
func BlendWeight(weights [2]int32) int32 {
	total := int64(weights[0]) + int64(weights[1])
	if total <= 0 {
		return 1 << (cdf.BlendFixedPointPrecision - 1)
	}
	lz := int64(bits.LeadingZeros64(uint64(total)))
	shift := 56 - lz
	if shift < 0 {
		shift = 0
	}
	total8 := uint8(total >> uint(shift))
	if total8 == 0 {
		total8 = 1
	}
	a := uint16(weights[1]>>uint(shift)) << 8
	q := numeric.FastDivide16By8(a, numeric.LookupDivisor8(total8))
	return int32(q) << (cdf.BlendFixedPointPrecision - 8)
}

// ComputeNewWeight is one index's half of the mixer's per-symbol update
// (spec.md S4.6): it strengthens the model whose probability for the
// actually-coded symbol exceeded the mixture's, in proportion to the
// mixture's residual error and inversely to the geometric variance
// p1*p0. index 0 is the stride model, index 1 the context-map model,
// matching how BlendWeight treats weights[1] as the context-map's share.
func ComputeNewWeight(modelProbs [2]uint16, weightedProb uint16, weights [2]int32, indexEqual1 bool) int32 {
	index := 0
	if indexEqual1 {
		index = 1
	}
	const total = int64(1) << cdf.LOG2Scale
	sumP1 := int64(weightedProb)
	sumP0 := total - sumP1
	n1i := int64(modelProbs[index])
	errTerm := total - sumP1
	wi := int64(weights[index])
	efficacy := total*n1i - sumP1*total

	product := sumP1 * sumP0
	logGeom := uint(0)
	if product != 0 {
		logGeom = uint(64 - bits.LeadingZeros64(uint64(product)))
	}
	adj := (errTerm * efficacy) >> logGeom
	newWeight := wi + adj
	if newWeight < 0 {
		newWeight = 0
	}
	if newWeight > 1<<31-1 {
		newWeight = 1<<31 - 1
	}
	return int32(newWeight)
}
