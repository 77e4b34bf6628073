package litcoder

import (
	"github.com/brotligo/litcoder/cdf"
	"github.com/brotligo/litcoder/literal"
)

// Options configures a Compressor/Decompressor pair (spec.md S3.3, S6.7).
// Both sides of a session must be constructed with matching Options —
// this module carries no outer configuration frame that would let a
// decoder recover them from the stream itself (spec.md's non-goals
// exclude an outer command/config dispatcher).
type Options struct {
	// Stride is the number of prior bytes, in [0,8], contributing to the
	// stride hash.
	Stride uint8

	// LiteralPredictionMode selects how the context byte is derived from
	// recently emitted output (spec.md S4.4).
	LiteralPredictionMode literal.PredictionMode

	// MaterializedPredictionMode enables the context-map-indexed model;
	// when false only the stride model is used.
	MaterializedPredictionMode bool

	// CombineLiteralPredictions enables mixing the stride and
	// context-map models instead of using the context-map model alone.
	// Only meaningful when MaterializedPredictionMode is set.
	CombineLiteralPredictions bool

	// DynamicContextMixing is the mixer's learning speed, in [0,14]; 0
	// disables weight updates.
	DynamicContextMixing uint8

	// LiteralAdaptation is the stride model's blend speed. Its zero
	// value, cdf.Fast, is indistinguishable from "not set" here, so this
	// field instead defaults to literal.BlockKeeper's own default
	// (cdf.Mud) unless set to some other Speed; callers who specifically
	// want cdf.Fast should set the BlockKeeper field directly through a
	// lower-level constructor instead of through Options.
	LiteralAdaptation cdf.Speed

	// NumLiteralBlockTypes sizes the literal context map; values below 1
	// are treated as 1.
	NumLiteralBlockTypes int
}

// blockKeeper builds a fresh literal.BlockKeeper from these Options.
func (o Options) blockKeeper() *literal.BlockKeeper {
	n := o.NumLiteralBlockTypes
	if n < 1 {
		n = 1
	}
	bk := literal.NewBlockKeeper(n)
	bk.Stride = o.Stride
	bk.LiteralPredictionMode = o.LiteralPredictionMode
	bk.MaterializedPredictionMode = o.MaterializedPredictionMode
	bk.CombineLiteralPredictions = o.CombineLiteralPredictions
	bk.DynamicContextMixing = o.DynamicContextMixing
	if o.LiteralAdaptation != 0 {
		bk.LiteralAdaptation = o.LiteralAdaptation
	}
	return bk
}
